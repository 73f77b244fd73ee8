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

// SubmitScore consumes player's paid entry and records score.
// PlayerNotFound and PlayerNotPaid come back as failures with the board unchanged.
func (s *LeaderboardService) SubmitScore(ctx context.Context, player leaderboarddomain.Identity, score uint64) (results.OperationResult[ScoreResult, error], error) {
	scoreTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[ScoreResult, error], error) {
		return s.submitScoreLogic(ctx, db, player, score)
	}

	return withTelemetry(s, ctx, "SubmitScore", player.String(), func(ctx context.Context) (results.OperationResult[ScoreResult, error], error) {
		return runExclusive(s, ctx, scoreTx)
	})
}

func (s *LeaderboardService) submitScoreLogic(ctx context.Context, db bun.IDB, player leaderboarddomain.Identity, score uint64) (results.OperationResult[ScoreResult, error], error) {
	board, err := s.loadBoard(ctx, db, true)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return results.FailureResult[ScoreResult, error](ErrLeaderboardNotFound), nil
		}
		return results.OperationResult[ScoreResult, error]{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if err := board.UpdateScore(player, score); err != nil {
		return results.FailureResult[ScoreResult, error](err), nil
	}

	if err := s.saveBoard(ctx, db, board); err != nil {
		return results.OperationResult[ScoreResult, error]{}, err
	}

	updated, slot := findSlot(board, player)
	return results.SuccessResult[ScoreResult, error](ScoreResult{Player: updated, Slot: slot}), nil
}

// findSlot returns the first player with id and its slot index.
func findSlot(board *leaderboarddomain.Leaderboard, id leaderboarddomain.Identity) (leaderboarddomain.Player, int) {
	for i, p := range board.Players() {
		if p.Identity == id {
			return p, i
		}
	}
	return leaderboarddomain.Player{}, -1
}
