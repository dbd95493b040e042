package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	List(status string) ([]model.Campaign, error)
	ListDue(now time.Time) ([]model.Campaign, error)
	MarkCompleted(id int) error
	Count() (int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	if c.CustomerFilter == "" {
		c.CustomerFilter = model.StatusActive
	}
	query := `
        INSERT INTO email_campaigns (name, template_id, status, customer_filter, scheduled_time)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Name, c.TemplateID, c.Status, c.CustomerFilter, c.ScheduledTime).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT c.id, c.name, c.template_id, c.status, c.customer_filter, c.scheduled_time, c.created_at, t.name
        FROM email_campaigns c
        JOIN email_templates t ON c.template_id = t.id
        WHERE c.id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.TemplateID, &c.Status,
		&c.CustomerFilter, &c.ScheduledTime, &c.CreatedAt, &c.TemplateName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

// List returns campaigns in id order, optionally filtered by status.
func (r *CampaignRepository) List(status string) ([]model.Campaign, error) {
	query := `
        SELECT c.id, c.name, c.template_id, c.status, c.customer_filter, c.scheduled_time, c.created_at, t.name
        FROM email_campaigns c
        JOIN email_templates t ON c.template_id = t.id
    `
	args := []interface{}{}
	if status != "" {
		query += " WHERE c.status=$1"
		args = append(args, status)
	}
	query += " ORDER BY c.id"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

// ListDue returns scheduled campaigns whose target time is at or before now,
// in id order so a poll pass is deterministic.
func (r *CampaignRepository) ListDue(now time.Time) ([]model.Campaign, error) {
	query := `
        SELECT c.id, c.name, c.template_id, c.status, c.customer_filter, c.scheduled_time, c.created_at, t.name
        FROM email_campaigns c
        JOIN email_templates t ON c.template_id = t.id
        WHERE c.status='scheduled' AND c.scheduled_time <= $1
        ORDER BY c.id
    `
	rows, err := r.DB.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func scanCampaigns(rows *sql.Rows) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.TemplateID, &c.Status, &c.CustomerFilter,
			&c.ScheduledTime, &c.CreatedAt, &c.TemplateName); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) MarkCompleted(id int) error {
	_, err := r.DB.Exec("UPDATE email_campaigns SET status='completed' WHERE id=$1", id)
	return err
}

func (r *CampaignRepository) Count() (int, error) {
	var n int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM email_campaigns").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
