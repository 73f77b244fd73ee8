package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// Repository defines the contract for leaderboard persistence.
// Every method accepts an optional bun.IDB so callers can run it inside a
// transaction; nil falls back to the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: the owner has no leaderboard account
//   - Other errors: infrastructure failures
type Repository interface {
	// GetAccount loads the owner's account without locking it.
	GetAccount(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*LeaderboardAccount, error)

	// GetAccountForUpdate loads and row-locks the owner's account for the
	// remainder of the surrounding transaction.
	GetAccountForUpdate(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*LeaderboardAccount, error)

	// SaveAccount creates or overwrites the owner's account.
	SaveAccount(ctx context.Context, db bun.IDB, account *LeaderboardAccount) error

	// InsertFeeReceipt records a collected entry fee. A receipt whose
	// RequestKey already exists fails with ErrDuplicateRequest.
	InsertFeeReceipt(ctx context.Context, db bun.IDB, receipt *FeeReceipt) error

	// GetFeeReceiptByRequestKey returns the receipt recorded for a game
	// request, or ErrNotFound.
	GetFeeReceiptByRequestKey(ctx context.Context, db bun.IDB, key string) (*FeeReceipt, error)

	// ListFeeReceipts returns the owner's receipts, newest first.
	ListFeeReceipts(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) ([]FeeReceipt, error)
}
