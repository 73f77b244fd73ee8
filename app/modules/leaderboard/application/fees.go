package leaderboardservice

import (
	"context"
	"fmt"
	"math"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
)

// Fee is a single entry fee to collect.
type Fee struct {
	Payer  leaderboarddomain.Identity
	Owner  leaderboarddomain.Identity
	Amount uint64
	// RequestKey identifies the game request; a second collection with the
	// same key must fail rather than charge again.
	RequestKey string
}

// FeeCollector moves an entry fee from payer to owner and returns the paid
// entry proving it. It runs inside the caller's transaction; if the game cannot
// be recorded the collection is rolled back with it.
type FeeCollector interface {
	Collect(ctx context.Context, db bun.IDB, fee Fee) (leaderboarddomain.PaidEntry, error)
}

// LedgerFeeCollector records each fee as a receipt row. Settling real funds is
// left to whoever reads the receipts.
type LedgerFeeCollector struct {
	repo leaderboarddb.Repository
}

// NewLedgerFeeCollector creates a LedgerFeeCollector.
func NewLedgerFeeCollector(repo leaderboarddb.Repository) *LedgerFeeCollector {
	return &LedgerFeeCollector{repo: repo}
}

// Collect records a receipt and issues the matching paid entry.
func (c *LedgerFeeCollector) Collect(ctx context.Context, db bun.IDB, fee Fee) (leaderboarddomain.PaidEntry, error) {
	if fee.Amount > math.MaxInt64 {
		return leaderboarddomain.PaidEntry{}, fmt.Errorf("%w: %d", leaderboarddb.ErrAmountOutOfRange, fee.Amount)
	}

	receipt := &leaderboarddb.FeeReceipt{
		Payer:      fee.Payer.String(),
		Owner:      fee.Owner.String(),
		Amount:     int64(fee.Amount),
		RequestKey: fee.RequestKey,
	}
	if err := c.repo.InsertFeeReceipt(ctx, db, receipt); err != nil {
		return leaderboarddomain.PaidEntry{}, fmt.Errorf("failed to collect entry fee: %w", err)
	}
	return leaderboarddomain.IssuePaidEntry(fee.Payer, receipt.ID, fee.Amount), nil
}
