package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

func newCustomerRepo(t *testing.T) (*repository.CustomerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.CustomerRepository{DB: db}, mock
}

func TestAddUpsertsAndResetsCounters(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	// The upsert writes every column, so a replaced row comes back with zeroed
	// delivery counters.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("ann@x.com", "Ann", "Smith", "Acme", "555-0100", "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	c := &model.Customer{
		Email:     "ann@x.com",
		FirstName: "Ann",
		LastName:  "Smith",
		Company:   "Acme",
		Phone:     "555-0100",
	}
	require.NoError(t, repo.Add(c))
	assert.Equal(t, 7, c.ID)
	assert.Equal(t, model.StatusActive, c.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesStatusAndLimit(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "email", "first_name", "last_name", "company", "phone",
		"status", "created_at", "last_email_sent", "email_count",
	}).
		AddRow(1, "ann@x.com", "Ann", "Smith", "", "", "active", time.Now(), nil, 0).
		AddRow(2, "bob@x.com", "Bob", "", "", "", "active", time.Now(), nil, 3)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status=$1 ORDER BY id LIMIT $2")).
		WithArgs("active", 2).
		WillReturnRows(rows)

	customers, err := repo.List("active", 2)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "ann@x.com", customers[0].Email)
	assert.Equal(t, 3, customers[1].EmailCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutLimit(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status=$1 ORDER BY id")).
		WithArgs("inactive").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "first_name", "last_name", "company", "phone",
			"status", "created_at", "last_email_sent", "email_count",
		}))

	customers, err := repo.List("inactive", 0)
	require.NoError(t, err)
	assert.Empty(t, customers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementSendStats(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET last_email_sent=NOW(), email_count=email_count+1 WHERE id=$1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementSendStats(5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDsBuildsPlaceholders(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id IN ($1,$2,$3)")).
		WithArgs(4, 8, 15).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteByIDs([]int{4, 8, 15})
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDsEmptyList(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	deleted, err := repo.DeleteByIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByEmailsBuildsPlaceholders(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE email IN ($1,$2)")).
		WithArgs("a@x.com", "b@x.com").
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteByEmails([]string{"a@x.com", "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByDomainNormalizesPrefix(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE split_part(email, '@', 2) = $1")).
		WithArgs("spam.example").
		WillReturnResult(sqlmock.NewResult(0, 12))

	deleted, err := repo.DeleteByDomain("@spam.example")
	require.NoError(t, err)
	assert.Equal(t, 12, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByDomainTreatsWildcardsLiterally(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	// "%" and "_" are compared as plain characters, not pattern syntax.
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE split_part(email, '@', 2) = $1")).
		WithArgs("%_.example").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteByDomain("%_.example")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailMissReturnsNil(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email=$1")).
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "first_name", "last_name", "company", "phone",
			"status", "created_at", "last_email_sent", "email_count",
		}))

	c, err := repo.GetByEmail("ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}
