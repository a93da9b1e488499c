package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/flocknet/social-api/internal/api"
	"github.com/flocknet/social-api/internal/infrastructure/config"
	mongodb "github.com/flocknet/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/flocknet/social-api/internal/infrastructure/db/redis"
	"github.com/flocknet/social-api/internal/infrastructure/media"
	"github.com/flocknet/social-api/internal/infrastructure/queue"
	"github.com/flocknet/social-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mediaStore, err := media.NewS3Store(ctx, media.Config{
		Region:        cfg.Media.Region,
		Bucket:        cfg.Media.Bucket,
		Endpoint:      cfg.Media.Endpoint,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("media store init failed")
	}

	cleaner := queue.NewMediaCleaner(cfg.Media.Workers, mediaStore, log)
	cleaner.Start(ctx)

	e := api.NewRouter(api.Options{
		Mongo:        db,
		Redis:        rdb,
		Media:        mediaStore,
		MediaCleaner: cleaner,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		Logger:       log,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
