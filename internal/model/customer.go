package model

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Customer struct {
	ID            int        `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Company       string     `db:"company" json:"company"`
	Phone         string     `db:"phone" json:"phone"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastEmailSent *time.Time `db:"last_email_sent" json:"last_email_sent,omitempty"`
	EmailCount    int        `db:"email_count" json:"email_count"`
}

// RosterStats summarizes the customer roster and delivery totals.
type RosterStats struct {
	TotalCustomers  int `json:"total_customers"`
	ActiveCustomers int `json:"active_customers"`
	TotalEmailsSent int `json:"total_emails_sent"`
	TotalTemplates  int `json:"total_templates"`
	TotalCampaigns  int `json:"total_campaigns"`
}
