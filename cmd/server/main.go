package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "placement/internal/account/handler"
	accountservice "placement/internal/account/service"
	drivehandler "placement/internal/drive/handler"
	driveservice "placement/internal/drive/service"
	jwttoken "placement/internal/jwt_token"
	ledgerhandler "placement/internal/ledger/handler"
	ledgerservice "placement/internal/ledger/service"
	moderationhandler "placement/internal/moderation/handler"
	moderationservice "placement/internal/moderation/service"
	notificationhandler "placement/internal/notification/handler"
	notificationpublisher "placement/internal/notification/publisher"
	notificationservice "placement/internal/notification/service"
	notificationstore "placement/internal/notification/store"
	"placement/internal/notification/templates"
	"placement/internal/platform/config"
	"placement/internal/platform/httpserver"
	"placement/internal/platform/kafka"
	"placement/internal/platform/logger"
	"placement/internal/platform/metrics"
	"placement/internal/platform/middleware"
	"placement/internal/platform/postgres"
	"placement/internal/platform/redis"
	schedulehandler "placement/internal/schedule/handler"
	scheduleservice "placement/internal/schedule/service"
	"placement/pkg/platform/audit/publisher"
	"placement/pkg/platform/circuit"
	"placement/pkg/requestcontext"
)

const (
	auditBuffer     = 1024
	shutdownTimeout = 10 * time.Second
)

// main wires the stores, services and handlers, then serves until SIGINT or
// SIGTERM. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	st := newMemoryStores()
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		st = newPostgresStores(db)
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	catalogue, err := templates.Load(cfg.NotificationTemplatesFile)
	if err != nil {
		return err
	}
	notifyOpts := []notificationservice.Option{
		notificationservice.WithLogger(log),
		notificationservice.WithMetrics(m),
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		notifyOpts = append(notifyOpts, notificationservice.WithUnreadCache(
			notificationstore.NewRedisUnreadCache(redisClient.Client, cfg.Redis.UnreadTTL)))
	}

	kafkaClient, err := kafka.New(cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		if err := kafka.EnsureTopic(ctx, kafkaClient, cfg.Kafka); err != nil {
			return err
		}
		breaker := circuit.New("notification-events", circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second))
		notifyOpts = append(notifyOpts, notificationservice.WithPublisher(
			notificationpublisher.NewKafka(kafkaClient, cfg.Kafka.NotificationTopic, breaker, log)))
	}

	auditor := publisher.NewPublisher(st.audit, publisher.WithAsyncBuffer(auditBuffer), publisher.WithLogger(log))
	defer auditor.Close()

	notifications := notificationservice.New(st.notifications, catalogue, notifyOpts...)
	accounts := accountservice.New(st.accounts, accountservice.WithLogger(log))
	drives := driveservice.New(st.drives, st.ledger, driveservice.WithLogger(log))
	ledger := ledgerservice.New(st.ledger, drives, accounts, notifications,
		ledgerservice.WithLogger(log),
		ledgerservice.WithMetrics(m),
	)
	schedules := scheduleservice.New(st.schedules, drives, accounts, scheduleservice.WithLogger(log))
	moderation := moderationservice.New(drives, schedules, ledger, accounts, notifications,
		moderationservice.WithLogger(log),
		moderationservice.WithMetrics(m),
		moderationservice.WithAuditor(auditor),
		moderationservice.WithCascadeConcurrency(cfg.CascadeConcurrency),
	)

	accountHandler := accounthandler.New(accounts, log)
	notificationHandler := notificationhandler.New(notifications, log)
	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(chimw.Timeout(cfg.StorageTimeout))
		accountHandler.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens, log))
			accountHandler.Register(r)
			drivehandler.New(drives, log).Register(r)
			ledgerhandler.New(ledger, log).Register(r)
			schedulehandler.New(schedules, log).Register(r)
			moderationhandler.New(moderation, auditor, log).Register(r)
			notificationHandler.Register(r)
			r.With(middleware.RequireRole(log, requestcontext.RoleAdmin)).Group(notificationHandler.RegisterAdmin)
		})
	})

	srv := httpserver.New(cfg.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting placement server", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
