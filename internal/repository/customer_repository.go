package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mailward/campaigner/internal/model"
)

// CustomerRepositoryInterface defines the roster operations services rely on.
// Delete variants return the number of rows removed.
type CustomerRepositoryInterface interface {
	Add(c *model.Customer) error
	List(status string, limit int) ([]model.Customer, error)
	All() ([]model.Customer, error)
	GetByID(id int) (*model.Customer, error)
	GetByEmail(email string) (*model.Customer, error)
	IncrementSendStats(id int) error
	DeleteByID(id int) (int, error)
	DeleteByEmail(email string) (int, error)
	DeleteByStatus(status string) (int, error)
	DeleteByDomain(domain string) (int, error)
	DeleteByIDs(ids []int) (int, error)
	DeleteByEmails(emails []string) (int, error)
	CountAll() (int, error)
	CountByStatus(status string) (int, error)
	TotalEmailsSent() (int, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = "id, email, first_name, last_name, company, phone, status, created_at, last_email_sent, email_count"

// Add upserts a customer by email. Re-adding an existing email intentionally
// replaces the whole row, delivery counters included, mirroring a full-row
// replace: email_count drops to 0 and last_email_sent to NULL.
func (r *CustomerRepository) Add(c *model.Customer) error {
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	query := `
        INSERT INTO customers (email, first_name, last_name, company, phone, status, created_at, last_email_sent, email_count)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NULL, 0)
        ON CONFLICT (email) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            company = EXCLUDED.company,
            phone = EXCLUDED.phone,
            status = EXCLUDED.status,
            last_email_sent = EXCLUDED.last_email_sent,
            email_count = EXCLUDED.email_count
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Email, c.FirstName, c.LastName, c.Company, c.Phone, c.Status).
		Scan(&c.ID, &c.CreatedAt)
}

// List returns customers with the given status in id order. A limit of zero or
// less means no cap.
func (r *CustomerRepository) List(status string, limit int) ([]model.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE status=$1 ORDER BY id"
	args := []interface{}{status}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// All returns every customer regardless of status, in id order.
func (r *CustomerRepository) All() ([]model.Customer, error) {
	rows, err := r.DB.Query("SELECT " + customerColumns + " FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func scanCustomers(rows *sql.Rows) ([]model.Customer, error) {
	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Company, &c.Phone,
			&c.Status, &c.CreatedAt, &c.LastEmailSent, &c.EmailCount); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	return r.getOne("SELECT "+customerColumns+" FROM customers WHERE id=$1", id)
}

// GetByEmail returns (nil, nil) when no customer has the address.
func (r *CustomerRepository) GetByEmail(email string) (*model.Customer, error) {
	return r.getOne("SELECT "+customerColumns+" FROM customers WHERE email=$1", email)
}

func (r *CustomerRepository) getOne(query string, arg interface{}) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.QueryRow(query, arg).Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Company,
		&c.Phone, &c.Status, &c.CreatedAt, &c.LastEmailSent, &c.EmailCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// IncrementSendStats bumps email_count and stamps last_email_sent after a
// successful delivery.
func (r *CustomerRepository) IncrementSendStats(id int) error {
	query := `UPDATE customers SET last_email_sent=NOW(), email_count=email_count+1 WHERE id=$1`
	_, err := r.DB.Exec(query, id)
	return err
}

func (r *CustomerRepository) DeleteByID(id int) (int, error) {
	return r.execCount("DELETE FROM customers WHERE id=$1", id)
}

func (r *CustomerRepository) DeleteByEmail(email string) (int, error) {
	return r.execCount("DELETE FROM customers WHERE email=$1", email)
}

func (r *CustomerRepository) DeleteByStatus(status string) (int, error) {
	return r.execCount("DELETE FROM customers WHERE status=$1", status)
}

// DeleteByDomain removes customers whose email's domain part matches exactly.
// A leading "@" on the input is accepted and stripped. Exact comparison on the
// split domain keeps LIKE wildcards in the input inert.
func (r *CustomerRepository) DeleteByDomain(domain string) (int, error) {
	domain = strings.TrimPrefix(domain, "@")
	return r.execCount("DELETE FROM customers WHERE split_part(email, '@', 2) = $1", domain)
}

func (r *CustomerRepository) DeleteByIDs(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM customers WHERE id IN (%s)", strings.Join(placeholders, ","))
	return r.execCount(query, args...)
}

func (r *CustomerRepository) DeleteByEmails(emails []string) (int, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(emails))
	args := make([]interface{}, len(emails))
	for i, email := range emails {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = email
	}
	query := fmt.Sprintf("DELETE FROM customers WHERE email IN (%s)", strings.Join(placeholders, ","))
	return r.execCount(query, args...)
}

func (r *CustomerRepository) execCount(query string, args ...interface{}) (int, error) {
	res, err := r.DB.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *CustomerRepository) CountAll() (int, error) {
	return r.queryCount("SELECT COUNT(*) FROM customers")
}

func (r *CustomerRepository) CountByStatus(status string) (int, error) {
	return r.queryCount("SELECT COUNT(*) FROM customers WHERE status=$1", status)
}

func (r *CustomerRepository) TotalEmailsSent() (int, error) {
	return r.queryCount("SELECT COALESCE(SUM(email_count), 0) FROM customers")
}

func (r *CustomerRepository) queryCount(query string, args ...interface{}) (int, error) {
	var n int
	if err := r.DB.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
