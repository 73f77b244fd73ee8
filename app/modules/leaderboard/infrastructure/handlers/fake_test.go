package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// ------------------------
// Fake Leaderboard Service
// ------------------------

type FakeLeaderboardService struct {
	trace []string
	owner leaderboarddomain.Identity

	InitializeLeaderboardFunc func(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[leaderboardservice.InitializeResult, error], error)
	NewGameFunc               func(ctx context.Context, player leaderboarddomain.Identity, username, requestID string) (results.OperationResult[leaderboardservice.GameResult, error], error)
	SubmitScoreFunc           func(ctx context.Context, player leaderboarddomain.Identity, score uint64) (results.OperationResult[leaderboardservice.ScoreResult, error], error)
	GetLeaderboardFunc        func(ctx context.Context) (results.OperationResult[leaderboardservice.LeaderboardState, error], error)
	GetStandingsFunc          func(ctx context.Context) (results.OperationResult[[]leaderboarddomain.Standing, error], error)
	ListReceiptsFunc          func(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[[]leaderboardservice.Receipt, error], error)
}

func NewFakeLeaderboardService() *FakeLeaderboardService {
	return &FakeLeaderboardService{
		trace: []string{},
	}
}

func (f *FakeLeaderboardService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeLeaderboardService) InitializeLeaderboard(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[leaderboardservice.InitializeResult, error], error) {
	f.record("InitializeLeaderboard")
	if f.InitializeLeaderboardFunc != nil {
		return f.InitializeLeaderboardFunc(ctx, caller)
	}
	return results.OperationResult[leaderboardservice.InitializeResult, error]{}, nil
}

func (f *FakeLeaderboardService) NewGame(ctx context.Context, player leaderboarddomain.Identity, username, requestID string) (results.OperationResult[leaderboardservice.GameResult, error], error) {
	f.record("NewGame")
	if f.NewGameFunc != nil {
		return f.NewGameFunc(ctx, player, username, requestID)
	}
	return results.OperationResult[leaderboardservice.GameResult, error]{}, nil
}

func (f *FakeLeaderboardService) SubmitScore(ctx context.Context, player leaderboarddomain.Identity, score uint64) (results.OperationResult[leaderboardservice.ScoreResult, error], error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, player, score)
	}
	return results.OperationResult[leaderboardservice.ScoreResult, error]{}, nil
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context) (results.OperationResult[leaderboardservice.LeaderboardState, error], error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx)
	}
	return results.OperationResult[leaderboardservice.LeaderboardState, error]{}, nil
}

func (f *FakeLeaderboardService) GetStandings(ctx context.Context) (results.OperationResult[[]leaderboarddomain.Standing, error], error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx)
	}
	return results.OperationResult[[]leaderboarddomain.Standing, error]{}, nil
}

func (f *FakeLeaderboardService) ListReceipts(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[[]leaderboardservice.Receipt, error], error) {
	f.record("ListReceipts")
	if f.ListReceiptsFunc != nil {
		return f.ListReceiptsFunc(ctx, caller)
	}
	return results.OperationResult[[]leaderboardservice.Receipt, error]{}, nil
}

func (f *FakeLeaderboardService) Owner() leaderboarddomain.Identity {
	return f.owner
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
