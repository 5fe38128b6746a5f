package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/catalog-system/internal/api"
	"github.com/99minutos/catalog-system/internal/api/handler"
	"github.com/99minutos/catalog-system/internal/core/ports"
	"github.com/99minutos/catalog-system/internal/core/service"
	mongostore "github.com/99minutos/catalog-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/catalog-system/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/catalog-system/internal/infrastructure/db/redis"
	"github.com/99minutos/catalog-system/internal/infrastructure/messaging/kafka"
	"github.com/99minutos/catalog-system/internal/infrastructure/queue"
	"github.com/99minutos/catalog-system/internal/pkg/config"
	"github.com/99minutos/catalog-system/pkg/logger"
)

type closingPublisher interface {
	ports.EventPublisher
	Close() error
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "catalog-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	db, err := postgres.Connect(ctx, cfg.Postgres.URL, postgres.Options{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres unavailable")
	}
	defer db.Close()

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "catalog-api"})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	authRepo := mongostore.NewAuthRepository(mongoDB)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare users collection")
	}

	// --- Events ---
	var publisher closingPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}, log)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing product events to kafka")
	} else {
		publisher = kafka.NewLogPublisher(log)
		log.Warn().Msg("KAFKA_BROKERS not set, product events are only logged")
	}
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, cfg.Events.QueueSize, publisher, log)
	dispatcher.Start(context.Background())

	// --- Services ---
	productService := service.NewProductService(
		postgres.NewProductStore(db),
		dispatcher,
		redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		log,
	)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Products:   productService,
		Auth:       authService,
		Identities: authService,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
		Checks: map[string]handler.Check{
			"postgres": handler.PostgresCheck(db),
			"mongodb":  handler.MongoCheck(mongoDB),
			"redis":    handler.RedisCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("catalog api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained; flush the events they produced.
	dispatcher.Close()
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("event publisher close")
	}
	log.Info().Msg("server stopped")
}
