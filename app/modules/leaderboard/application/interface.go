package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// Service is the leaderboard application service.
//
// Every method returns an infrastructure error separately from the business
// outcome: a non-nil error means the operation could not be carried out and
// may be retried; a Failure result is final.
type Service interface {
	// InitializeLeaderboard creates or clears the owner's board.
	InitializeLeaderboard(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[InitializeResult, error], error)

	// NewGame collects the entry fee from player and adds them with a fresh paid entry.
	// Repeating a non-empty requestID replays the first outcome without a second charge.
	NewGame(ctx context.Context, player leaderboarddomain.Identity, username string, requestID string) (results.OperationResult[GameResult, error], error)

	// SubmitScore records the score of player's current paid game.
	SubmitScore(ctx context.Context, player leaderboarddomain.Identity, score uint64) (results.OperationResult[ScoreResult, error], error)

	// GetLeaderboard returns the board in slot order with derived standings.
	GetLeaderboard(ctx context.Context) (results.OperationResult[LeaderboardState, error], error)

	// GetStandings returns the derived ranking only.
	GetStandings(ctx context.Context) (results.OperationResult[[]leaderboarddomain.Standing, error], error)

	// ListReceipts returns collected entry fees. Owner only.
	ListReceipts(ctx context.Context, caller leaderboarddomain.Identity) (results.OperationResult[[]Receipt, error], error)

	// Owner returns the configured game owner.
	Owner() leaderboarddomain.Identity
}
