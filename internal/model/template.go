package model

import "time"

type EmailTemplate struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	BodyHTML  string    `db:"body_html" json:"body_html"`
	BodyText  string    `db:"body_text" json:"body_text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
