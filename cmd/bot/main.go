package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AndriiKibish/BBQ-reserve/internal/bot"
	"github.com/AndriiKibish/BBQ-reserve/internal/config"
	"github.com/AndriiKibish/BBQ-reserve/internal/engine"
	"github.com/AndriiKibish/BBQ-reserve/internal/metrics"
	"github.com/AndriiKibish/BBQ-reserve/internal/session"
	"github.com/AndriiKibish/BBQ-reserve/internal/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Str("path", configPath).Msg("load config")
	}

	logger := newLogger(cfg.Logging)

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal().Msg("set the bot token in config.yaml or BOT_TOKEN")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create database directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open reservation store")
	}
	defer store.Close()

	sessions := newSessionStore(ctx, cfg, logger)
	defer sessions.Close()

	var m *metrics.Metrics
	if cfg.Monitoring.PrometheusEnabled {
		m = metrics.New()
		port := cfg.Monitoring.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.Serve(ctx, port, logger)
	}

	eng := engine.New(store, sessions, logger, m)

	telegramBot, err := bot.New(cfg, eng, store, sessions, logger, m)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot")
	}

	logger.Info().Str("app", cfg.App.Name).Msg("bot started")
	go telegramBot.Start(ctx)

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// newSessionStore picks the configured session backend, falling back to
// the in-memory store when Redis is unreachable.
func newSessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) session.Store {
	if cfg.Session.Backend == "redis" && cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := session.Ping(ctx, client); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, using in-memory sessions")
			_ = client.Close()
		} else {
			logger.Info().Str("address", cfg.Redis.Address).Msg("using redis sessions")
			return session.NewRedisStore(client, cfg.Session.TTL.Std())
		}
	}
	return session.NewMemoryStore(cfg.Session.TTL.Std(), cfg.Session.SweepInterval.Std())
}
