package leaderboardservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

// FakeLeaderboardRepo keeps accounts and receipts in memory unless a Func hook
// overrides the call.
type FakeLeaderboardRepo struct {
	mu    sync.Mutex
	trace []string

	accounts map[string]leaderboarddb.LeaderboardAccount
	receipts []leaderboarddb.FeeReceipt

	GetAccountFunc          func(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*leaderboarddb.LeaderboardAccount, error)
	GetAccountForUpdateFunc func(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*leaderboarddb.LeaderboardAccount, error)
	SaveAccountFunc         func(ctx context.Context, db bun.IDB, account *leaderboarddb.LeaderboardAccount) error
	InsertFeeReceiptFunc    func(ctx context.Context, db bun.IDB, receipt *leaderboarddb.FeeReceipt) error
	GetFeeReceiptByKeyFunc  func(ctx context.Context, db bun.IDB, key string) (*leaderboarddb.FeeReceipt, error)
	ListFeeReceiptsFunc     func(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) ([]leaderboarddb.FeeReceipt, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace:    []string{},
		accounts: map[string]leaderboarddb.LeaderboardAccount{},
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeLeaderboardRepo) GetAccount(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*leaderboarddb.LeaderboardAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetAccount")
	if f.GetAccountFunc != nil {
		return f.GetAccountFunc(ctx, db, owner)
	}
	return f.load(owner)
}

func (f *FakeLeaderboardRepo) GetAccountForUpdate(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) (*leaderboarddb.LeaderboardAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetAccountForUpdate")
	if f.GetAccountForUpdateFunc != nil {
		return f.GetAccountForUpdateFunc(ctx, db, owner)
	}
	return f.load(owner)
}

func (f *FakeLeaderboardRepo) SaveAccount(ctx context.Context, db bun.IDB, account *leaderboarddb.LeaderboardAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveAccount")
	if f.SaveAccountFunc != nil {
		return f.SaveAccountFunc(ctx, db, account)
	}
	stored := *account
	stored.Data = append([]byte(nil), account.Data...)
	f.accounts[account.Owner] = stored
	return nil
}

func (f *FakeLeaderboardRepo) InsertFeeReceipt(ctx context.Context, db bun.IDB, receipt *leaderboarddb.FeeReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("InsertFeeReceipt")
	if f.InsertFeeReceiptFunc != nil {
		return f.InsertFeeReceiptFunc(ctx, db, receipt)
	}
	if receipt.RequestKey != "" {
		for _, r := range f.receipts {
			if r.RequestKey == receipt.RequestKey {
				return fmt.Errorf("%w: %s", leaderboarddb.ErrDuplicateRequest, receipt.RequestKey)
			}
		}
	}
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	f.receipts = append(f.receipts, *receipt)
	return nil
}

func (f *FakeLeaderboardRepo) GetFeeReceiptByRequestKey(ctx context.Context, db bun.IDB, key string) (*leaderboarddb.FeeReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetFeeReceiptByRequestKey")
	if f.GetFeeReceiptByKeyFunc != nil {
		return f.GetFeeReceiptByKeyFunc(ctx, db, key)
	}
	for _, r := range f.receipts {
		if key != "" && r.RequestKey == key {
			found := r
			return &found, nil
		}
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeLeaderboardRepo) ListFeeReceipts(ctx context.Context, db bun.IDB, owner leaderboarddomain.Identity) ([]leaderboarddb.FeeReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListFeeReceipts")
	if f.ListFeeReceiptsFunc != nil {
		return f.ListFeeReceiptsFunc(ctx, db, owner)
	}
	var out []leaderboarddb.FeeReceipt
	for i := len(f.receipts) - 1; i >= 0; i-- {
		if f.receipts[i].Owner == owner.String() {
			out = append(out, f.receipts[i])
		}
	}
	return out, nil
}

func (f *FakeLeaderboardRepo) load(owner leaderboarddomain.Identity) (*leaderboarddb.LeaderboardAccount, error) {
	acc, ok := f.accounts[owner.String()]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	acc.Data = append([]byte(nil), acc.Data...)
	return &acc, nil
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Seed stores board for owner without recording a trace step.
func (f *FakeLeaderboardRepo) Seed(owner leaderboarddomain.Identity, board *leaderboarddomain.Leaderboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, err := leaderboarddb.NewLeaderboardAccount(owner, board)
	if err != nil {
		panic(err)
	}
	f.accounts[acc.Owner] = *acc
}

// Board decodes the stored board for owner, or nil.
func (f *FakeLeaderboardRepo) Board(owner leaderboarddomain.Identity) *leaderboarddomain.Leaderboard {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[owner.String()]
	if !ok {
		return nil
	}
	board, err := acc.Leaderboard()
	if err != nil {
		panic(err)
	}
	return board
}

func (f *FakeLeaderboardRepo) Receipts() []leaderboarddb.FeeReceipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leaderboarddb.FeeReceipt(nil), f.receipts...)
}

// Ensure the fake actually satisfies the interface
var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)
