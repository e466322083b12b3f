package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devitsbeka/foodvault/internal/api"
	"github.com/devitsbeka/foodvault/internal/config"
	"github.com/devitsbeka/foodvault/internal/env"
	"github.com/devitsbeka/foodvault/internal/httpclient"
	"github.com/devitsbeka/foodvault/internal/log"
	"github.com/devitsbeka/foodvault/internal/provider"
	"github.com/devitsbeka/foodvault/internal/querycache"
	"github.com/devitsbeka/foodvault/internal/setup"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	_ = godotenv.Load()
	logger := log.New(nil)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	http := httpclient.New(httpclient.DefaultConfig())

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	recipeProvider, err := setup.Provider(conf, logger, http)
	if errors.Is(err, provider.ErrMissingAPIKey) {
		logger.Warn("provider API key not configured, external recipe search disabled")
	} else if err != nil {
		logger.Error("failed to setup recipe provider", slog.Any("error", err))
		os.Exit(1)
	}

	env := &env.Env{
		Logger:   logger,
		Config:   conf,
		Database: db,
		Provider: recipeProvider,
		Cache:    querycache.New(logger),
		HTTP:     http,
	}

	if err := api.Start(env); err != nil {
		env.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}
