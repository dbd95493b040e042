package repository

import (
	"database/sql"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
)

type TemplateRepositoryInterface interface {
	Create(t *model.EmailTemplate) error
	GetByName(name string) (*model.EmailTemplate, error)
	List() ([]model.EmailTemplate, error)
	Count() (int, error)
}

type TemplateRepository struct {
	DB *sql.DB
}

// Create upserts a template by name. Re-creating an existing name replaces its
// subject and bodies.
func (r *TemplateRepository) Create(t *model.EmailTemplate) error {
	query := `
        INSERT INTO email_templates (name, subject, body_html, body_text)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (name) DO UPDATE SET
            subject = EXCLUDED.subject,
            body_html = EXCLUDED.body_html,
            body_text = EXCLUDED.body_text
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, t.Name, t.Subject, t.BodyHTML, t.BodyText).Scan(&t.ID, &t.CreatedAt)
}

func (r *TemplateRepository) GetByName(name string) (*model.EmailTemplate, error) {
	query := `
        SELECT id, name, subject, body_html, body_text, created_at
        FROM email_templates WHERE name=$1
    `
	var t model.EmailTemplate
	err := r.DB.QueryRow(query, name).Scan(&t.ID, &t.Name, &t.Subject, &t.BodyHTML, &t.BodyText, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewTemplateNotFound(name)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) List() ([]model.EmailTemplate, error) {
	rows, err := r.DB.Query(`
        SELECT id, name, subject, body_html, body_text, created_at
        FROM email_templates ORDER BY name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.EmailTemplate{}
	for rows.Next() {
		var t model.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.BodyHTML, &t.BodyText, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Count() (int, error) {
	var n int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM email_templates").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
