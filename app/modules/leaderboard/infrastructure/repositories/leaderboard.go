package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint conflict.
const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetAccount loads the owner's account.
func (r *Impl) GetAccount(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*LeaderboardAccount, error) {
	return r.getAccount(ctx, r.resolveDB(db), owner, false)
}

// GetAccountForUpdate loads the owner's account with SELECT ... FOR UPDATE.
func (r *Impl) GetAccountForUpdate(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*LeaderboardAccount, error) {
	return r.getAccount(ctx, r.resolveDB(db), owner, true)
}

func (r *Impl) getAccount(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity, lock bool) (*LeaderboardAccount, error) {
	account := new(LeaderboardAccount)
	q := db.NewSelect().
		Model(account).
		Where("owner = ?", owner.String())
	if lock {
		q = q.For("UPDATE")
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leaderboard account: %w", err)
	}
	return account, nil
}

// SaveAccount upserts the owner's account.
func (r *Impl) SaveAccount(ctx context.Context, db bun.IDB, account *LeaderboardAccount) error {
	db = r.resolveDB(db)
	if len(account.Data) > leaderboarddomain.MaxAccountSize {
		return fmt.Errorf("account record of %d bytes exceeds %d", len(account.Data), leaderboarddomain.MaxAccountSize)
	}

	account.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(account).
		On("CONFLICT (owner) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("player_count = EXCLUDED.player_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save leaderboard account: %w", err)
	}
	return nil
}

// InsertFeeReceipt records a collected entry fee.
func (r *Impl) InsertFeeReceipt(ctx context.Context, db bun.IDB, receipt *FeeReceipt) error {
	db = r.resolveDB(db)
	if receipt.Amount < 0 {
		return ErrAmountOutOfRange
	}
	if _, err := db.NewInsert().Model(receipt).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() && pgErr.Field('C') == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateRequest, receipt.RequestKey)
		}
		return fmt.Errorf("failed to insert fee receipt: %w", err)
	}
	return nil
}

// GetFeeReceiptByRequestKey returns the receipt recorded for a game request.
func (r *Impl) GetFeeReceiptByRequestKey(ctx context.Context, db bun.IDB, key string) (*FeeReceipt, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	receipt := new(FeeReceipt)
	err := r.resolveDB(db).NewSelect().
		Model(receipt).
		Where("request_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fee receipt: %w", err)
	}
	return receipt, nil
}

// ListFeeReceipts returns the owner's receipts, newest first.
func (r *Impl) ListFeeReceipts(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) ([]FeeReceipt, error) {
	db = r.resolveDB(db)
	var receipts []FeeReceipt
	err := db.NewSelect().
		Model(&receipts).
		Where("owner = ?", owner.String()).
		Order("created_at DESC", "id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee receipts: %w", err)
	}
	return receipts, nil
}
