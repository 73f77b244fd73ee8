package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/attr"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// NewGame charges the entry fee and adds player with a fresh paid entry.
// On a full board the lowest score is evicted.
//
// requestID names the delivery that asked for the game. A repeated requestID
// is answered from the stored receipt without charging again; an empty
// requestID always charges.
func (s *LeaderboardService) NewGame(ctx context.Context, player leaderboarddomain.Identity, username string, requestID string) (results.OperationResult[GameResult, error], error) {
	gameTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[GameResult, error], error) {
		return s.newGameLogic(ctx, db, player, username, requestID)
	}

	return withTelemetry(s, ctx, "NewGame", player.String(), func(ctx context.Context) (results.OperationResult[GameResult, error], error) {
		return runExclusive(s, ctx, gameTx)
	})
}

func (s *LeaderboardService) newGameLogic(ctx context.Context, db bun.IDB, player leaderboarddomain.Identity, username string, requestID string) (results.OperationResult[GameResult, error], error) {
	if player.IsZero() {
		return results.FailureResult[GameResult, error](leaderboarddomain.ErrInvalidIdentity), nil
	}
	if err := leaderboarddomain.ValidateUsername(username); err != nil {
		return results.FailureResult[GameResult, error](err), nil
	}

	board, err := s.loadBoard(ctx, db, true)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return results.FailureResult[GameResult, error](ErrLeaderboardNotFound), nil
		}
		return results.OperationResult[GameResult, error]{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	key := leaderboarddomain.GameRequestKey(requestID, player)
	if key != "" {
		prior, err := s.repo.GetFeeReceiptByRequestKey(ctx, db, key)
		switch {
		case err == nil:
			s.logger.InfoContext(ctx, "Game request already processed (idempotent no-op)",
				attr.ExtractCorrelationID(ctx),
				attr.String("player", player.String()),
				attr.String("receipt_id", prior.ID.String()),
			)
			return results.SuccessResult[GameResult, error](replayedGame(board, prior, player, username)), nil
		case !errors.Is(err, leaderboarddb.ErrNotFound):
			return results.OperationResult[GameResult, error]{}, fmt.Errorf("failed to look up game request: %w", err)
		}
	}

	entry, err := s.fees.Collect(ctx, db, Fee{
		Payer:      player,
		Owner:      s.cfg.Owner,
		Amount:     s.cfg.EntryFee,
		RequestKey: key,
	})
	if err != nil {
		// ErrDuplicateRequest lands here when another process won the race;
		// the rollback leaves the retry to take the replay path above.
		return results.OperationResult[GameResult, error]{}, err
	}

	newPlayer, err := leaderboarddomain.NewPaidPlayer(entry, username)
	if err != nil {
		return results.OperationResult[GameResult, error]{}, fmt.Errorf("fee collector issued an unusable entry: %w", err)
	}

	slot, evicted := board.AddPlayer(newPlayer)
	if err := s.saveBoard(ctx, db, board); err != nil {
		return results.OperationResult[GameResult, error]{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordFeeCollected(ctx, entry.Amount())
		if evicted != nil {
			s.metrics.RecordEviction(ctx)
		}
	}
	if evicted != nil {
		s.logger.InfoContext(ctx, "Player evicted from full leaderboard",
			attr.ExtractCorrelationID(ctx),
			attr.Int("slot", slot),
			attr.String("evicted", evicted.Identity.String()),
			slog.Uint64("evicted_score", evicted.Score),
		)
	}

	return results.SuccessResult[GameResult, error](GameResult{
		Player:   newPlayer,
		Slot:     slot,
		Evicted:  evicted,
		Receipt:  entry.Receipt(),
		EntryFee: entry.Amount(),
	}), nil
}

// replayedGame rebuilds the result of an already charged request from the
// current board. The player may since have been evicted, in which case Slot is -1.
func replayedGame(board *leaderboarddomain.Leaderboard, receipt *leaderboarddb.FeeReceipt, player leaderboarddomain.Identity, username string) GameResult {
	current, slot := findSlot(board, player)
	if slot < 0 {
		current = leaderboarddomain.Player{Username: username, Identity: player}
	}
	return GameResult{
		Player:        current,
		Slot:          slot,
		Receipt:       receipt.ID,
		EntryFee:      uint64(receipt.Amount),
		WasIdempotent: true,
	}
}
