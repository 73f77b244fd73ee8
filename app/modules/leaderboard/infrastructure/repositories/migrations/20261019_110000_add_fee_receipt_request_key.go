package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding request_key to leaderboard_fee_receipts...")

		_, err := db.ExecContext(ctx, `
			ALTER TABLE leaderboard_fee_receipts ADD COLUMN IF NOT EXISTS request_key VARCHAR(64);
			CREATE UNIQUE INDEX IF NOT EXISTS uq_fee_receipts_request_key
				ON leaderboard_fee_receipts (request_key) WHERE request_key IS NOT NULL;
		`)
		if err != nil {
			return fmt.Errorf("failed to add request_key: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping request_key from leaderboard_fee_receipts...")

		_, err := db.ExecContext(ctx, `
			DROP INDEX IF EXISTS uq_fee_receipts_request_key;
			ALTER TABLE leaderboard_fee_receipts DROP COLUMN IF EXISTS request_key;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop request_key: %w", err)
		}
		return nil
	})
}
