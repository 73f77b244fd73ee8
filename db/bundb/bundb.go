// Package bundb opens the Postgres connection pool and builds the repositories on it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
	leaderboardmigrations "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/rock-destroyer/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// DBService owns the connection pool and the repositories built on it.
type DBService struct {
	LeaderboardDB leaderboarddb.Repository
	db            *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close closes the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to PostgreSQL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bunDB(sqldb)
	db.RegisterModel((*leaderboarddb.LeaderboardAccount)(nil), (*leaderboarddb.FeeReceipt)(nil))

	logger.InfoContext(ctx, "Database connection established")
	return &DBService{
		LeaderboardDB: leaderboarddb.NewRepository(db),
		db:            db,
	}, nil
}

// Migrate applies pending leaderboard migrations.
func (dbService *DBService) Migrate(ctx context.Context, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(dbService.db, leaderboardmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if group.IsZero() {
		logger.InfoContext(ctx, "No new migrations to run")
	} else {
		logger.InfoContext(ctx, "Migrated database", slog.String("group", group.String()))
	}
	return nil
}

// bunDB returns a new bun.DB for given sql.DB connection pool.
func bunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
