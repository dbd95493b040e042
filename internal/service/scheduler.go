package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/mailward/campaigner/internal/errors"
	"github.com/mailward/campaigner/internal/model"
	"github.com/mailward/campaigner/internal/repository"
)

// BulkSender is the slice of the Dispatcher the scheduler needs.
type BulkSender interface {
	SendBulk(templateName, statusFilter string, limit int) model.DeliveryResult
}

// Scheduler persists campaigns and runs the poller that promotes due ones into
// bulk sends. The poller is a single goroutine with a stop channel: ticks never
// overlap, and Stop waits for an in-flight pass to finish.
type Scheduler struct {
	Campaigns  repository.CampaignRepositoryInterface
	Templates  repository.TemplateRepositoryInterface
	Dispatcher BulkSender
	Events     EventPublisher // optional
	Interval   time.Duration
	Logger     *zap.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
	now     func() time.Time
}

func NewScheduler(
	campaigns repository.CampaignRepositoryInterface,
	templates repository.TemplateRepositoryInterface,
	dispatcher BulkSender,
	events EventPublisher,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		Campaigns:  campaigns,
		Templates:  templates,
		Dispatcher: dispatcher,
		Events:     events,
		Interval:   interval,
		Logger:     logger,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
}

// Schedule validates and persists a campaign in the scheduled state. The
// template must exist and scheduledTime must parse; otherwise nothing is
// written. scheduledTime accepts "now", RFC3339, or "2006-01-02 15:04".
func (s *Scheduler) Schedule(name, templateName, scheduledTime, statusFilter string) (*model.Campaign, error) {
	tmpl, err := s.Templates.GetByName(templateName)
	if err != nil {
		return nil, err
	}

	target, err := parseScheduledTime(scheduledTime, s.now())
	if err != nil {
		return nil, err
	}

	if statusFilter == "" {
		statusFilter = model.StatusActive
	}

	c := &model.Campaign{
		Name:           name,
		TemplateID:     tmpl.ID,
		TemplateName:   tmpl.Name,
		Status:         model.CampaignScheduled,
		CustomerFilter: statusFilter,
		ScheduledTime:  target,
	}
	if err := s.Campaigns.Create(c); err != nil {
		return nil, err
	}

	s.Logger.Info("campaign scheduled",
		zap.String("campaign", name),
		zap.String("template", templateName),
		zap.Time("scheduled_time", target))
	return c, nil
}

func parseScheduledTime(value string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "now") {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}
	// Zoneless timestamps are entered in wall-clock terms, so they are local
	// time, not UTC.
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.NewInvalidScheduleTime(value)
}

// Start launches the poll loop. It is an error to start a running scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	s.Logger.Info("campaign poller starting", zap.Duration("interval", s.Interval))
	s.wg.Add(1)
	go s.runLoop(stop)
	return nil
}

// Stop signals the poll loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stop
	s.mu.Unlock()

	close(stop)
	s.wg.Wait()
	s.Logger.Info("campaign poller stopped")
}

func (s *Scheduler) runLoop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.RunDue()
		}
	}
}

// RunDue executes one poll pass: every scheduled campaign whose target time
// has arrived is dispatched with its stored segment filter and then marked
// completed, regardless of the sent/failed tally. A campaign is processed at
// most once; a second pass finds it completed and skips it.
func (s *Scheduler) RunDue() {
	due, err := s.Campaigns.ListDue(s.now())
	if err != nil {
		s.Logger.Error("failed to list due campaigns", zap.Error(err))
		return
	}

	for _, c := range due {
		filter := c.CustomerFilter
		if filter == "" {
			filter = model.StatusActive
		}

		s.Logger.Info("running scheduled campaign",
			zap.Int("campaign_id", c.ID),
			zap.String("campaign", c.Name),
			zap.String("template", c.TemplateName),
			zap.String("filter", filter))

		result := s.Dispatcher.SendBulk(c.TemplateName, filter, 0)

		if err := s.Campaigns.MarkCompleted(c.ID); err != nil {
			s.Logger.Error("failed to mark campaign completed",
				zap.Int("campaign_id", c.ID),
				zap.Error(err))
		}

		if s.Events != nil {
			payload := map[string]interface{}{
				"campaign_id": c.ID,
				"campaign":    c.Name,
				"sent":        result.Sent,
				"failed":      result.Failed,
			}
			if err := s.Events.Publish("campaign.completed", payload); err != nil {
				s.Logger.Warn("failed to publish campaign event", zap.Error(err))
			}
		}
	}
}
