package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"rollcall/internal/activity"
	"rollcall/internal/activity/metrics"
	activitystore "rollcall/internal/activity/store"
	activitybackend "rollcall/internal/activity/store/activity"
	auditkafka "rollcall/internal/audit/kafka"
	auditmemory "rollcall/internal/audit/store/memory"
	"rollcall/internal/audit/publisher"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/logger"
	"rollcall/internal/platform/postgres"
	platformredis "rollcall/internal/platform/redis"
	"rollcall/pkg/platform/middleware/admin"
	"rollcall/pkg/platform/middleware/metadata"
	"rollcall/pkg/platform/middleware/requestid"
	"rollcall/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store activitybackend.Store
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		store = activitybackend.NewPostgres(db)
		log.Info("using postgres activity store")
	} else {
		store = activitybackend.NewInMemory()
		log.Info("using in-memory activity store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = activitybackend.NewCached(store, redisClient.Client, cfg.CacheTTL, log)
		log.Info("catalog caching enabled", "ttl", cfg.CacheTTL)
	}

	if err := activitystore.SeedDefaultCatalog(ctx, store); err != nil {
		log.Error("failed to seed activity catalog", "error", err)
		os.Exit(1)
	}

	publisherOpts := []publisher.Option{
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(256),
	}
	if cfg.KafkaBrokers != "" {
		topic := cfg.KafkaAuditTopic
		if topic == "" {
			topic = auditkafka.DefaultTopic
		}
		sink, err := auditkafka.New(strings.Split(cfg.KafkaBrokers, ","), topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		publisherOpts = append(publisherOpts, publisher.WithSink(sink))
		log.Info("audit events published to kafka", "topic", topic)
	}
	auditPublisher := publisher.NewPublisher(auditmemory.NewInMemoryStore(), publisherOpts...)
	defer auditPublisher.Close()

	svc := activity.NewService(store,
		activity.WithLogger(log),
		activity.WithMetrics(metrics.New()),
		activity.WithAuditPublisher(auditPublisher),
	)
	h := activity.NewHandler(svc, log)

	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)

	h.Register(router)
	if cfg.AdminToken != "" {
		router.Group(func(gr chi.Router) {
			gr.Use(admin.RequireAdminToken(cfg.AdminToken, log))
			h.RegisterAdmin(gr)
		})
	} else {
		log.Warn("ROLLCALL_ADMIN_TOKEN not set, admin routes disabled")
	}

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rollcall", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
