package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

// MailSender sends one fully-formed message. A nil error means delivered to
// the outbound server.
type MailSender interface {
	Send(to, subject, html, text string, attachments []string) error
}

// EventPublisher emits best-effort notifications about completed work.
type EventPublisher interface {
	Publish(topic string, payload interface{}) error
}

// Dispatcher runs bulk sends: it resolves a template, selects a customer
// segment, personalizes per recipient, and sends strictly sequentially with a
// fixed delay between messages. Failures are counted, never retried, and never
// abort the batch.
type Dispatcher struct {
	Templates repository.TemplateRepositoryInterface
	Customers repository.CustomerRepositoryInterface
	Sender    MailSender
	Events    EventPublisher // optional
	Delay     time.Duration
	Logger    *zap.Logger
}

func NewDispatcher(
	templates repository.TemplateRepositoryInterface,
	customers repository.CustomerRepositoryInterface,
	sender MailSender,
	events EventPublisher,
	delay time.Duration,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		Templates: templates,
		Customers: customers,
		Sender:    sender,
		Events:    events,
		Delay:     delay,
		Logger:    logger,
	}
}

// SendBulk sends the named template to every customer whose status equals
// statusFilter, capped at limit when limit > 0. An unknown template or a store
// error yields {0,0}; every selected customer is accounted exactly once in the
// returned tally.
func (d *Dispatcher) SendBulk(templateName, statusFilter string, limit int) model.DeliveryResult {
	var result model.DeliveryResult

	tmpl, err := d.Templates.GetByName(templateName)
	if err != nil {
		d.Logger.Error("bulk send aborted: template lookup failed",
			zap.String("template", templateName),
			zap.Error(err))
		return result
	}

	customers, err := d.Customers.List(statusFilter, limit)
	if err != nil {
		d.Logger.Error("bulk send aborted: customer list failed",
			zap.String("filter", statusFilter),
			zap.Error(err))
		return result
	}

	for i := range customers {
		c := &customers[i]
		subject := Personalize(tmpl.Subject, c)
		html := Personalize(tmpl.BodyHTML, c)
		text := Personalize(tmpl.BodyText, c)

		if err := d.Sender.Send(c.Email, subject, html, text, nil); err != nil {
			result.Failed++
		} else {
			result.Sent++
			if err := d.Customers.IncrementSendStats(c.ID); err != nil {
				d.Logger.Warn("failed to update send stats",
					zap.Int("customer_id", c.ID),
					zap.Error(err))
			}
		}

		// Fixed pacing against outbound rate limits. This deliberately blocks
		// the dispatch loop; it is not a concurrency primitive.
		if d.Delay > 0 {
			time.Sleep(d.Delay)
		}
	}

	d.Logger.Info("bulk send completed",
		zap.String("template", templateName),
		zap.String("filter", statusFilter),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))

	if d.Events != nil {
		payload := map[string]interface{}{
			"template": templateName,
			"filter":   statusFilter,
			"sent":     result.Sent,
			"failed":   result.Failed,
		}
		if err := d.Events.Publish("bulk_send.completed", payload); err != nil {
			d.Logger.Warn("failed to publish bulk send event", zap.Error(err))
		}
	}

	return result
}

// SendTest sends a one-off message. When the recipient is on the roster their
// delivery counters are updated just like a bulk send would.
func (d *Dispatcher) SendTest(to, subject, html, text string) error {
	if err := d.Sender.Send(to, subject, html, text, nil); err != nil {
		return err
	}
	customer, err := d.Customers.GetByEmail(to)
	if err != nil {
		d.Logger.Warn("test send: customer lookup failed", zap.String("email", to), zap.Error(err))
		return nil
	}
	if customer != nil {
		if err := d.Customers.IncrementSendStats(customer.ID); err != nil {
			d.Logger.Warn("test send: failed to update send stats",
				zap.Int("customer_id", customer.ID),
				zap.Error(err))
		}
	}
	return nil
}
