package appErrors

import "fmt"

// ErrTemplateNotFound is returned when a template lookup by name misses.
type ErrTemplateNotFound struct {
	Name string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

func NewTemplateNotFound(name string) error {
	return &ErrTemplateNotFound{Name: name}
}

// ErrCampaignNotFound is returned when a campaign lookup by id misses.
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrInvalidScheduleTime is returned for a scheduled_time that is neither "now"
// nor a parseable timestamp. Nothing is persisted when this is returned.
type ErrInvalidScheduleTime struct {
	Value string
}

func (e *ErrInvalidScheduleTime) Error() string {
	return fmt.Sprintf("invalid scheduled time %q: expected \"now\", RFC3339, or YYYY-MM-DD HH:MM", e.Value)
}

func NewInvalidScheduleTime(value string) error {
	return &ErrInvalidScheduleTime{Value: value}
}
