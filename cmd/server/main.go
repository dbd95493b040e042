package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/config"
	"github.com/mailward/campaigner/internal/db"
	"github.com/mailward/campaigner/internal/events"
	"github.com/mailward/campaigner/internal/handler"
	"github.com/mailward/campaigner/internal/mailer"
	"github.com/mailward/campaigner/internal/repository"
	"github.com/mailward/campaigner/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.InitSchema(conn); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	customerRepo := &repository.CustomerRepository{DB: conn}
	templateRepo := &repository.TemplateRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.Connect(cfg.AMQPURL, "campaign_events", logger)
		if err != nil {
			logger.Warn("AMQP unavailable, events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	sender := mailer.New(cfg, logger)
	dispatcher := service.NewDispatcher(templateRepo, customerRepo, sender, publisher,
		cfg.Email.DelayBetweenEmails, logger)
	scheduler := service.NewScheduler(campaignRepo, templateRepo, dispatcher, publisher,
		cfg.PollInterval, logger)

	customerService := &service.CustomerService{
		Customers: customerRepo,
		Templates: templateRepo,
		Campaigns: campaignRepo,
		Logger:    logger,
	}

	customerHandler := &handler.CustomerHandler{Repo: customerRepo, Service: customerService, Logger: logger}
	templateHandler := &handler.TemplateHandler{Repo: templateRepo}
	campaignHandler := &handler.CampaignHandler{Scheduler: scheduler, Dispatcher: dispatcher, Repo: campaignRepo}
	adminHandler := &handler.AdminHandler{DB: conn, Logger: logger}

	r := chi.NewRouter()

	r.Post("/customers", customerHandler.CreateCustomer)
	r.Get("/customers", customerHandler.ListCustomers)
	r.Delete("/customers/{identifier}", customerHandler.DeleteCustomer)
	r.Post("/customers/bulk-delete", customerHandler.BulkDelete)
	r.Post("/customers/import", customerHandler.ImportCSV)
	r.Get("/customers/export", customerHandler.ExportCSV)

	r.Post("/templates", templateHandler.CreateTemplate)
	r.Get("/templates", templateHandler.ListTemplates)
	r.Get("/templates/{name}", templateHandler.GetTemplate)

	r.Post("/campaigns", campaignHandler.ScheduleCampaign)
	r.Get("/campaigns", campaignHandler.ListCampaigns)
	r.Post("/send/bulk", campaignHandler.SendBulk)
	r.Post("/send/test", campaignHandler.SendTest)

	r.Get("/stats", customerHandler.Stats)
	r.Post("/admin/vacuum", adminHandler.Vacuum)
	r.Get("/admin/integrity", adminHandler.Integrity)

	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start campaign poller", zap.Error(err))
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
