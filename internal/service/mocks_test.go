package service_test

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
)

// In-memory fakes standing in for the SQL repositories and the SMTP sender.

type mockTemplateRepo struct {
	templates map[string]*model.EmailTemplate
}

func newMockTemplateRepo(templates ...*model.EmailTemplate) *mockTemplateRepo {
	m := &mockTemplateRepo{templates: map[string]*model.EmailTemplate{}}
	for i, t := range templates {
		t.ID = i + 1
		m.templates[t.Name] = t
	}
	return m
}

func (m *mockTemplateRepo) Create(t *model.EmailTemplate) error {
	if existing, ok := m.templates[t.Name]; ok {
		t.ID = existing.ID
	} else {
		t.ID = len(m.templates) + 1
	}
	m.templates[t.Name] = t
	return nil
}

func (m *mockTemplateRepo) GetByName(name string) (*model.EmailTemplate, error) {
	t, ok := m.templates[name]
	if !ok {
		return nil, appErrors.NewTemplateNotFound(name)
	}
	return t, nil
}

func (m *mockTemplateRepo) List() ([]model.EmailTemplate, error) {
	out := []model.EmailTemplate{}
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTemplateRepo) Count() (int, error) { return len(m.templates), nil }

type mockCustomerRepo struct {
	customers   []model.Customer
	incremented []int
	addErrFor   map[string]error
}

func (m *mockCustomerRepo) Add(c *model.Customer) error {
	if err := m.addErrFor[c.Email]; err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	for i := range m.customers {
		if m.customers[i].Email == c.Email {
			c.ID = m.customers[i].ID
			m.customers[i] = *c
			return nil
		}
	}
	c.ID = len(m.customers) + 1
	m.customers = append(m.customers, *c)
	return nil
}

func (m *mockCustomerRepo) List(status string, limit int) ([]model.Customer, error) {
	out := []model.Customer{}
	for _, c := range m.customers {
		if c.Status == status {
			out = append(out, c)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockCustomerRepo) All() ([]model.Customer, error) {
	return append([]model.Customer{}, m.customers...), nil
}

func (m *mockCustomerRepo) GetByID(id int) (*model.Customer, error) {
	for i := range m.customers {
		if m.customers[i].ID == id {
			return &m.customers[i], nil
		}
	}
	return nil, nil
}

func (m *mockCustomerRepo) GetByEmail(email string) (*model.Customer, error) {
	for i := range m.customers {
		if m.customers[i].Email == email {
			return &m.customers[i], nil
		}
	}
	return nil, nil
}

func (m *mockCustomerRepo) IncrementSendStats(id int) error {
	m.incremented = append(m.incremented, id)
	for i := range m.customers {
		if m.customers[i].ID == id {
			m.customers[i].EmailCount++
			now := time.Now()
			m.customers[i].LastEmailSent = &now
		}
	}
	return nil
}

func (m *mockCustomerRepo) DeleteByID(id int) (int, error)            { return 0, nil }
func (m *mockCustomerRepo) DeleteByEmail(email string) (int, error)   { return 0, nil }
func (m *mockCustomerRepo) DeleteByStatus(status string) (int, error) { return 0, nil }
func (m *mockCustomerRepo) DeleteByDomain(domain string) (int, error) { return 0, nil }
func (m *mockCustomerRepo) DeleteByIDs(ids []int) (int, error)        { return 0, nil }
func (m *mockCustomerRepo) DeleteByEmails(emails []string) (int, error) {
	return 0, nil
}

func (m *mockCustomerRepo) CountAll() (int, error) { return len(m.customers), nil }

func (m *mockCustomerRepo) CountByStatus(status string) (int, error) {
	n := 0
	for _, c := range m.customers {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockCustomerRepo) TotalEmailsSent() (int, error) {
	total := 0
	for _, c := range m.customers {
		total += c.EmailCount
	}
	return total, nil
}

type mockCampaignRepo struct {
	campaigns []*model.Campaign
	createErr error
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = len(m.campaigns) + 1
	c.CreatedAt = time.Now()
	m.campaigns = append(m.campaigns, c)
	return nil
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	for _, c := range m.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (m *mockCampaignRepo) List(status string) ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCampaignRepo) ListDue(now time.Time) ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		if c.Status == model.CampaignScheduled && !c.ScheduledTime.After(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCampaignRepo) MarkCompleted(id int) error {
	for _, c := range m.campaigns {
		if c.ID == id {
			c.Status = model.CampaignCompleted
			return nil
		}
	}
	return fmt.Errorf("campaign %d not found", id)
}

func (m *mockCampaignRepo) Count() (int, error) { return len(m.campaigns), nil }

type sentMessage struct {
	to      string
	subject string
	html    string
	text    string
}

type mockSender struct {
	sent    []sentMessage
	failFor map[string]bool
}

func (m *mockSender) Send(to, subject, html, text string, attachments []string) error {
	if m.failFor[to] {
		return fmt.Errorf("connection refused by %s", to)
	}
	m.sent = append(m.sent, sentMessage{to: to, subject: subject, html: html, text: text})
	return nil
}

type recordedEvent struct {
	topic   string
	payload interface{}
}

type mockPublisher struct {
	events []recordedEvent
}

func (m *mockPublisher) Publish(topic string, payload interface{}) error {
	m.events = append(m.events, recordedEvent{topic: topic, payload: payload})
	return nil
}

func csvBody(rows ...string) string {
	return strings.Join(rows, "\n")
}
