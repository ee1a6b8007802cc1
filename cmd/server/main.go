// Command server runs the event-registration backend: the REST API, the
// creation transaction manager, and the badge and invitation-letter workers
// sharing one Kafka consumer group.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waangu/internal/artifact"
	attendeestore "waangu/internal/attendee/store"
	"waangu/internal/badge"
	"waangu/internal/eventconfig"
	filestore "waangu/internal/filereference/store"
	"waangu/internal/letter"
	"waangu/internal/mailer"
	"waangu/internal/platform/config"
	"waangu/internal/platform/httpserver"
	"waangu/internal/platform/kafka"
	"waangu/internal/platform/logger"
	"waangu/internal/platform/metrics"
	"waangu/internal/platform/postgres"
	"waangu/internal/platform/redis"
	"waangu/internal/registration/models"
	"waangu/internal/registration/service"
	regstore "waangu/internal/registration/store/registration"
	httptransport "waangu/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	bus, err := kafka.New(ctx, cfg.Kafka, kafka.WithLogger(log), kafka.WithMetrics(m))
	if err != nil {
		log.Error("failed to connect to kafka", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	artifacts, err := artifact.NewMinio(ctx, cfg.Minio)
	if err != nil {
		log.Error("failed to connect to object storage", "error", err)
		os.Exit(1)
	}

	gateway := eventconfig.NewCached(
		eventconfig.NewClient(cfg.Gateway),
		redisClient, cfg.Gateway.CacheTTL, log,
	)

	mail := mailer.New(cfg.Mailer, log)
	signer := badge.NewTokenSigner(cfg.Badge.TokenSecret)
	renderer := badge.NewChromeRenderer(cfg.Badge.ChromePath)
	defer renderer.Close()

	registrations := regstore.NewPostgres(db)
	attendees := attendeestore.NewPostgres(db)
	files := filestore.NewPostgres(db)

	svc := service.New(
		registrations, attendees, files, artifacts, gateway, bus, signer,
		newRegistrationPostgresTx(db),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithReplayGuard(redisClient),
	)

	badgeWorker := badge.NewWorker(
		registrations, gateway, artifacts, renderer, signer, mail, cfg.Badge.ScanBaseURL,
		badge.WithLogger(log), badge.WithMetrics(m),
	)
	letterWorker := letter.NewWorker(
		registrations, gateway, artifacts, renderer, mail,
		letter.WithLogger(log), letter.WithMetrics(m),
	)

	// Producer-only topics still get provisioned up front; consumer topics
	// are provisioned by Subscribe together with their DLQ siblings.
	for _, topic := range []string{
		models.TopicRegistrationCreated,
		models.TopicRegistrationUpdated,
		models.TopicRegistrationDeleted,
	} {
		if err := bus.EnsureTopic(ctx, topic); err != nil {
			log.Error("failed to provision topic", "topic", topic, "error", err)
			os.Exit(1)
		}
	}
	if err := bus.Subscribe(ctx, models.TopicBadgeGenerate, badgeWorker.Handle); err != nil {
		log.Error("failed to subscribe badge worker", "error", err)
		os.Exit(1)
	}
	if err := bus.Subscribe(ctx, models.TopicLetterGenerate, letterWorker.Handle); err != nil {
		log.Error("failed to subscribe letter worker", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(svc,
		httptransport.WithLogger(log),
		httptransport.WithHealthCheck("postgres", db.PingContext),
		httptransport.WithHealthCheck("event-service", gateway.Ping),
	)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	busErr := make(chan error, 1)
	go func() {
		busErr <- bus.Run(ctx)
	}()
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := <-busErr; err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped with error", "error", err)
	}
}
