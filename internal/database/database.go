// Package database provides the Postgres store for local recipes, meal
// plans, and shopping lists.
package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Querier is the subset of pgxpool.Pool the queries need.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Database struct {
	db Querier
}

func New(pool *pgxpool.Pool) *Database {
	return &Database{db: pool}
}

// EnsureSchema applies the schema when the recipes table is not detected.
func (d *Database) EnsureSchema(ctx context.Context) error {
	var exists bool
	err := d.db.QueryRow(ctx, `SELECT to_regclass('public.recipes') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := d.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}
	return nil
}
