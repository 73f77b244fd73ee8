package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_accounts and leaderboard_fee_receipts tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leaderboard_accounts (
					owner VARCHAR(64) PRIMARY KEY,
					data BYTEA NOT NULL,
					player_count INTEGER NOT NULL DEFAULT 0 CHECK (player_count BETWEEN 0 AND 5),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create leaderboard_accounts table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leaderboard_fee_receipts (
					id UUID PRIMARY KEY,
					payer VARCHAR(64) NOT NULL,
					owner VARCHAR(64) NOT NULL,
					amount BIGINT NOT NULL CHECK (amount >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_fee_receipts_owner_created ON leaderboard_fee_receipts (owner, created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_fee_receipts_payer ON leaderboard_fee_receipts (payer);
			`); err != nil {
				return fmt.Errorf("failed to create leaderboard_fee_receipts table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard_fee_receipts and leaderboard_accounts tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS leaderboard_fee_receipts;`); err != nil {
				return fmt.Errorf("failed to drop leaderboard_fee_receipts: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS leaderboard_accounts;`); err != nil {
				return fmt.Errorf("failed to drop leaderboard_accounts: %w", err)
			}
			return nil
		})
	})
}
