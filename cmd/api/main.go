package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/swifthomeoffer/cashoffer-platform/internal/api/router"
	"github.com/swifthomeoffer/cashoffer-platform/internal/booking"
	appconfig "github.com/swifthomeoffer/cashoffer-platform/internal/config"
	"github.com/swifthomeoffer/cashoffer-platform/internal/crm"
	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel"
	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/internal/leads"
	"github.com/swifthomeoffer/cashoffer-platform/internal/notify"
	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/internal/property"
	"github.com/swifthomeoffer/cashoffer-platform/internal/scheduling"
	"github.com/swifthomeoffer/cashoffer-platform/internal/slots"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting cashoffer-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	funnelMetrics := metrics.NewFunnelMetrics(prometheus.DefaultRegisterer)

	// Redis backs funnel progress and the monthly slot counter.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Leads: Postgres when configured, in-memory otherwise.
	var leadsRepo leads.Repository = leads.NewInMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres lead storage")
	} else {
		logger.Warn("DATABASE_URL not set, leads are stored in memory")
	}

	// CRM client is optional: without it leads are still captured locally.
	var crmClient *crm.Client
	if cfg.CRMAPIKey != "" {
		var err error
		crmClient, err = crm.New(crm.Config{
			APIKey:     cfg.CRMAPIKey,
			BaseURL:    cfg.CRMBaseURL,
			LocationID: cfg.CRMLocationID,
			CalendarID: cfg.CRMCalendarID,
			WebhookURL: cfg.CRMWebhookURL,
			Timeout:    cfg.UpstreamTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to configure CRM client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("CRM_API_KEY not set, CRM integration disabled")
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
		logger.Warn("SENDGRID_API_KEY not set, confirmation emails are stubbed")
	}

	// Property data: ATTOM first, RealtyMole as fallback.
	var providers []property.Provider
	if cfg.AttomAPIKey != "" {
		providers = append(providers, property.NewAttomProvider(cfg.AttomAPIKey, cfg.AttomBaseURL, cfg.UpstreamTimeout))
	}
	if cfg.RealtyMoleAPIKey != "" {
		providers = append(providers, property.NewRealtyMoleProvider(cfg.RealtyMoleAPIKey, cfg.RealtyMoleBaseURL, cfg.UpstreamTimeout))
	}
	propertyService := property.NewService(providers, logger, funnelMetrics)

	// Funnel wiring.
	progressStore := progress.NewStore(redisClient, cfg.ProgressTTL, logger)
	var forwarder funnel.CRMForwarder
	if crmClient != nil {
		forwarder = crmClient
	}
	submitter := funnel.NewLeadSubmitter(leadsRepo, forwarder, logger, funnelMetrics)
	machine := funnel.NewMachine(funnel.DefaultSteps(), progressStore, submitter, logger, funnelMetrics)

	// Scheduling and booking share the CRM calendar.
	var lister scheduling.AppointmentLister
	if crmClient != nil {
		lister = crmClient
	}
	schedulingService := scheduling.NewService(lister, cfg.SchedulingDays, cfg.SchedulingSlotMins, logger)

	var bookingHandler *booking.Handler
	if crmClient != nil {
		bookingService := booking.NewService(crmClient, emailSender, cfg.SchedulingSlotMins, logger, funnelMetrics)
		bookingHandler = booking.NewHandler(bookingService, logger)
	} else {
		logger.Warn("booking endpoint disabled without CRM client")
	}

	slotCounter := slots.NewCounter(redisClient, cfg.SlotAllocation, logger, funnelMetrics)

	routerCfg := &router.Config{
		Logger:             logger,
		OfferHandler:       offer.NewHandler(logger, funnelMetrics),
		PropertyHandler:    property.NewHandler(propertyService, logger),
		SchedulingHandler:  scheduling.NewHandler(schedulingService, logger),
		BookingHandler:     bookingHandler,
		SlotsHandler:       slots.NewHandler(slotCounter, logger),
		FunnelHandler:      funnel.NewHandler(machine, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PublicRateLimit:    5,
		PublicRateBurst:    20,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
