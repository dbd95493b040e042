package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

// CustomerService covers the roster plumbing around the delivery core: CSV
// import/export, bulk deletes, and statistics.
type CustomerService struct {
	Customers repository.CustomerRepositoryInterface
	Templates repository.TemplateRepositoryInterface
	Campaigns repository.CampaignRepositoryInterface
	Logger    *zap.Logger
}

var csvHeader = []string{"id", "email", "first_name", "last_name", "company", "phone", "status", "last_email_sent", "email_count"}

// ImportCSV reads customer rows from r and upserts each one. The header row
// names the columns; only "email" is required. Rows that fail to parse or to
// persist are logged and skipped, and the count of imported rows is returned.
func (s *CustomerService) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.Logger.Warn("skipping malformed CSV row", zap.Error(err))
			continue
		}

		c := &model.Customer{
			Email:     field(record, "email"),
			FirstName: field(record, "first_name"),
			LastName:  field(record, "last_name"),
			Company:   field(record, "company"),
			Phone:     field(record, "phone"),
			Status:    field(record, "status"),
		}
		if c.Email == "" {
			s.Logger.Warn("skipping CSV row without email")
			continue
		}
		if err := s.Customers.Add(c); err != nil {
			s.Logger.Warn("failed to import customer", zap.String("email", c.Email), zap.Error(err))
			continue
		}
		imported++
	}

	s.Logger.Info("CSV import finished", zap.Int("imported", imported))
	return imported, nil
}

// ExportCSV writes the whole roster to w, one row per customer.
func (s *CustomerService) ExportCSV(w io.Writer) error {
	customers, err := s.Customers.All()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range customers {
		lastSent := ""
		if c.LastEmailSent != nil {
			lastSent = c.LastEmailSent.Format("2006-01-02 15:04:05")
		}
		row := []string{
			strconv.Itoa(c.ID), c.Email, c.FirstName, c.LastName,
			c.Company, c.Phone, c.Status, lastSent, strconv.Itoa(c.EmailCount),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Statistics assembles the roster and delivery totals.
func (s *CustomerService) Statistics() (*model.RosterStats, error) {
	stats := &model.RosterStats{}
	var err error
	if stats.TotalCustomers, err = s.Customers.CountAll(); err != nil {
		return nil, err
	}
	if stats.ActiveCustomers, err = s.Customers.CountByStatus(model.StatusActive); err != nil {
		return nil, err
	}
	if stats.TotalEmailsSent, err = s.Customers.TotalEmailsSent(); err != nil {
		return nil, err
	}
	if stats.TotalTemplates, err = s.Templates.Count(); err != nil {
		return nil, err
	}
	if stats.TotalCampaigns, err = s.Campaigns.Count(); err != nil {
		return nil, err
	}
	return stats, nil
}
