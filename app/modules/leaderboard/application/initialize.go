package leaderboardservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// InitializeLeaderboard creates the owner's board, or clears it if it exists.
func (s *LeaderboardService) InitializeLeaderboard(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[InitializeResult, error], error) {
	initTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[InitializeResult, error], error) {
		return s.initializeLogic(ctx, db, caller)
	}

	return withTelemetry(s, ctx, "InitializeLeaderboard", caller.String(), func(ctx context.Context) (results.OperationResult[InitializeResult, error], error) {
		return runExclusive(s, ctx, initTx)
	})
}

func (s *LeaderboardService) initializeLogic(ctx context.Context, db bun.IDB, caller leaderboarddomain.Identity) (results.OperationResult[InitializeResult, error], error) {
	if caller != s.cfg.Owner {
		return results.FailureResult[InitializeResult, error](ErrNotGameOwner), nil
	}

	board := leaderboarddomain.New()
	board.Initialize()
	if err := s.saveBoard(ctx, db, board); err != nil {
		return results.OperationResult[InitializeResult, error]{}, err
	}

	return results.SuccessResult[InitializeResult, error](InitializeResult{
		Owner:         s.cfg.Owner,
		InitializedAt: time.Now().UTC(),
	}), nil
}
