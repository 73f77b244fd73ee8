// Package containers starts throwaway leaderboard infrastructure for
// integration tests: a migrated Postgres and a NATS server with the
// leaderboard stream provisioned.
package containers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Black-And-White-Club/rock-destroyer/config"
	"github.com/Black-And-White-Club/rock-destroyer/db/bundb"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgImage    = "postgres:16-alpine"
	pgDatabase = "leaderboard"
	pgUser     = "leaderboard"
	pgPassword = "leaderboard"
)

// LeaderboardDB is a leaderboard database with every migration applied.
type LeaderboardDB struct {
	*bundb.DBService
	DSN string

	container *postgres.PostgresContainer
}

// StartLeaderboardDB starts Postgres, connects the bun service and migrates it.
// The caller must Terminate the result.
func StartLeaderboardDB(ctx context.Context, logger *slog.Logger) (*LeaderboardDB, error) {
	pg, err := postgres.Run(ctx, pgImage,
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return dsn(host, port.Port())
			}).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if pg != nil {
			_ = pg.Terminate(ctx)
		}
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to resolve postgres host: %w", err), pg.Terminate(ctx))
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to resolve postgres port: %w", err), pg.Terminate(ctx))
	}
	url := dsn(host, port.Port())

	svc, err := bundb.NewBunDBService(ctx, config.PostgresConfig{DSN: url}, logger)
	if err != nil {
		return nil, errors.Join(err, pg.Terminate(ctx))
	}
	if err := svc.Migrate(ctx, logger); err != nil {
		return nil, errors.Join(err, svc.Close(), pg.Terminate(ctx))
	}

	logger.InfoContext(ctx, "Leaderboard database ready", slog.String("dsn", url))
	return &LeaderboardDB{DBService: svc, DSN: url, container: pg}, nil
}

// Reset empties the leaderboard tables, keeping the schema.
func (l *LeaderboardDB) Reset(ctx context.Context) error {
	_, err := l.GetDB().ExecContext(ctx, "TRUNCATE leaderboard_accounts, leaderboard_fee_receipts")
	return err
}

// Terminate closes the pool and removes the container.
func (l *LeaderboardDB) Terminate(ctx context.Context) error {
	return errors.Join(l.Close(), l.container.Terminate(ctx))
}

func dsn(host, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port, pgDatabase)
}
