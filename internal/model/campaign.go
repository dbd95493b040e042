package model

import "time"

const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignCompleted = "completed"
)

type Campaign struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	TemplateID     int       `db:"template_id" json:"template_id"`
	Status         string    `db:"status" json:"status"`
	CustomerFilter string    `db:"customer_filter" json:"customer_filter"`
	ScheduledTime  time.Time `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// TemplateName is populated on reads that join email_templates; it is not a
	// column of email_campaigns.
	TemplateName string `db:"template_name" json:"template_name,omitempty"`
}

// DeliveryResult is the tally of one bulk send. It is never persisted; the only
// durable trace of a send is each customer's email_count/last_email_sent.
type DeliveryResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
