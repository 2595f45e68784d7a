package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voicify/voicify-api/internal/api"
	"github.com/voicify/voicify-api/internal/infrastructure/config"
	mongodb "github.com/voicify/voicify-api/internal/infrastructure/db/mongo"
	redisdb "github.com/voicify/voicify-api/internal/infrastructure/db/redis"
	"github.com/voicify/voicify-api/internal/infrastructure/mail"
	"github.com/voicify/voicify-api/internal/infrastructure/storage"
	"github.com/voicify/voicify-api/internal/infrastructure/synthesis"
	"github.com/voicify/voicify-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External resources ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// The artifact store is constructed once here and shared by the
	// router and the cleanup scheduler.
	store, err := storage.New(cfg.TTS.AudioDir)
	if err != nil {
		log.Fatal().Err(err).Msg("artifact store init failed")
	}

	cleaner := storage.NewCleaner(store, cfg.TTS.Retention, cfg.TTS.SweepInterval, log)
	cleaner.Start(ctx)

	engine := synthesis.NewClient(0)
	mailer := mail.NewSender(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)

	e := api.NewRouter(cfg, api.Deps{
		Mongo:  db,
		Redis:  rdb,
		Store:  store,
		Engine: engine,
		Mailer: mailer,
		Log:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
