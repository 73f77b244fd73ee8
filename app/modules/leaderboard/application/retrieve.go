package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// GetLeaderboard returns the owner's board.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) (results.OperationResult[LeaderboardState, error], error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[LeaderboardState, error], error) {
		return s.getLeaderboardLogic(ctx, db)
	}

	return withTelemetry(s, ctx, "GetLeaderboard", s.cfg.Owner.String(), func(ctx context.Context) (results.OperationResult[LeaderboardState, error], error) {
		return runInTx(s, ctx, getTx)
	})
}

func (s *LeaderboardService) getLeaderboardLogic(ctx context.Context, db bun.IDB) (results.OperationResult[LeaderboardState, error], error) {
	board, err := s.loadBoard(ctx, db, false)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return results.FailureResult[LeaderboardState, error](ErrLeaderboardNotFound), nil
		}
		return results.OperationResult[LeaderboardState, error]{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	return results.SuccessResult[LeaderboardState, error](LeaderboardState{
		Owner:     s.cfg.Owner,
		Players:   board.Players(),
		Standings: board.Standings(),
	}), nil
}

// GetStandings returns the derived ranking.
func (s *LeaderboardService) GetStandings(ctx context.Context) (results.OperationResult[[]leaderboarddomain.Standing, error], error) {
	state, err := s.GetLeaderboard(ctx)
	if err != nil {
		return results.OperationResult[[]leaderboarddomain.Standing, error]{}, err
	}
	if state.IsFailure() {
		return results.FailureResult[[]leaderboarddomain.Standing, error](*state.Failure), nil
	}
	return results.SuccessResult[[]leaderboarddomain.Standing, error](state.Success.Standings), nil
}

// ListReceipts returns the owner's collected entry fees, newest first.
func (s *LeaderboardService) ListReceipts(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[[]Receipt, error], error) {
	return withTelemetry(s, ctx, "ListReceipts", caller.String(), func(ctx context.Context) (results.OperationResult[[]Receipt, error], error) {
		if caller != s.cfg.Owner {
			return results.FailureResult[[]Receipt, error](ErrNotGameOwner), nil
		}

		rows, err := s.repo.ListFeeReceipts(ctx, nil, s.cfg.Owner)
		if err != nil {
			return results.OperationResult[[]Receipt, error]{}, err
		}

		receipts := make([]Receipt, 0, len(rows))
		for _, r := range rows {
			payer, err := leaderboarddomain.ParseIdentity(r.Payer)
			if err != nil {
				return results.OperationResult[[]Receipt, error]{}, fmt.Errorf("receipt %s: %w", r.ID, err)
			}
			receipts = append(receipts, Receipt{
				ID:        r.ID,
				Payer:     payer,
				Amount:    uint64(r.Amount),
				CreatedAt: r.CreatedAt,
			})
		}
		return results.SuccessResult[[]Receipt, error](receipts), nil
	})
}
