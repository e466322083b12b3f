// Package env provides the application-wide dependency container.
package env

import (
	"context"
	"log/slog"

	"github.com/devitsbeka/foodvault/internal/config"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/httpclient"
	"github.com/devitsbeka/foodvault/internal/log"
	"github.com/devitsbeka/foodvault/internal/provider"
	"github.com/devitsbeka/foodvault/internal/querycache"
)

type envKeyType struct{}

var envKey envKeyType

type Env struct {
	Logger   *slog.Logger
	Config   config.Config
	Database database.Store
	Provider *provider.Client
	Cache    *querycache.Client
	HTTP     *httpclient.Client
}

// Null returns an Env that logs nowhere and holds no backends. Used in
// tests that only need the container's shape.
func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
		Cache:  querycache.New(log.NullLogger()),
	}
}

// WithCtx injects an Env into a context.
func WithCtx(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// EnvFromCtx extracts the Env from a context, falling back to Null when
// none was injected.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok {
		return e
	}
	return Null()
}
