// Package setup is responsible for constructing components from config.
package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devitsbeka/foodvault/internal/config"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/httpclient"
	"github.com/devitsbeka/foodvault/internal/provider"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database connects to Postgres and ensures the schema is applied.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	c := conf.Database
	if c.User == "" || c.Password == "" || c.Database == "" {
		return nil, fmt.Errorf("database user, password, and name must be configured")
	}

	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.New(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// Provider constructs the external recipe provider client. The missing
// API key error is surfaced as-is so callers can decide whether external
// search is required.
func Provider(conf config.Config, logger *slog.Logger, http *httpclient.Client) (*provider.Client, error) {
	return provider.New(provider.Config{
		APIKey:  conf.Provider.APIKey,
		BaseURL: conf.Provider.BaseURL,
		Logger:  logger,
		HTTP:    http,
	})
}
