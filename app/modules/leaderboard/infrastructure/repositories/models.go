package leaderboarddb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// LeaderboardAccount stores one owner's board as its encoded account record.
// PlayerCount mirrors the record for ad-hoc queries; Data is authoritative.
type LeaderboardAccount struct {
	bun.BaseModel `bun:"table:leaderboard_accounts,alias:la"`

	Owner       string    `bun:"owner,pk,type:varchar(64)"`
	Data        []byte    `bun:"data,type:bytea,notnull"`
	PlayerCount int       `bun:"player_count,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// NewLeaderboardAccount encodes board for owner.
func NewLeaderboardAccount(owner leaderboarddomain.Identity, board *leaderboarddomain.Leaderboard) (*LeaderboardAccount, error) {
	data, err := board.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	return &LeaderboardAccount{
		Owner:       owner.String(),
		Data:        data,
		PlayerCount: board.Len(),
	}, nil
}

// Leaderboard decodes the stored account record.
func (a *LeaderboardAccount) Leaderboard() (*leaderboarddomain.Leaderboard, error) {
	board := leaderboarddomain.New()
	if err := board.UnmarshalBinary(a.Data); err != nil {
		return nil, fmt.Errorf("account %s: %w", a.Owner, err)
	}
	return board, nil
}

// FeeReceipt records an entry fee moved from a player to the game owner.
type FeeReceipt struct {
	bun.BaseModel `bun:"table:leaderboard_fee_receipts,alias:fr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Payer     string    `bun:"payer,notnull,type:varchar(64)"`
	Owner     string    `bun:"owner,notnull,type:varchar(64)"`
	Amount    int64     `bun:"amount,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	// RequestKey is unique per game request; NULL for requests without one.
	RequestKey string `bun:"request_key,nullzero,type:varchar(64)"`
}

var _ bun.BeforeInsertHook = (*FeeReceipt)(nil)

func (r *FeeReceipt) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
