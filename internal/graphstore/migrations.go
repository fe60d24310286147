package graphstore

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"jalapeno/internal/config"
	"jalapeno/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator drives goose migrations against the pool's underlying database.
// Grounded on the teacher's pkg/database.Migrator.
type Migrator struct {
	pool *pgxpool.Pool
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

func (m *Migrator) Up(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("graph store migrations applied")
	return nil
}

// RunMigrations applies migrations if cfg.AutoMigrate is set.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, cfg config.DatabaseConfig) error {
	if !cfg.AutoMigrate {
		logger.Info("auto-migration disabled")
		return nil
	}
	return NewMigrator(pool).Up(ctx)
}
