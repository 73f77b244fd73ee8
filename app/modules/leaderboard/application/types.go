package leaderboardservice

import (
	"time"

	"github.com/google/uuid"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// Config holds per-deployment game rules.
type Config struct {
	Owner    leaderboarddomain.Identity
	EntryFee uint64
}

// InitializeResult is returned by InitializeLeaderboard.
type InitializeResult struct {
	Owner         leaderboarddomain.Identity
	InitializedAt time.Time
}

// GameResult describes the slot a new game was written to.
type GameResult struct {
	Player   leaderboarddomain.Player
	Slot     int
	Evicted  *leaderboarddomain.Player
	Receipt  uuid.UUID
	EntryFee uint64
	// WasIdempotent is set when the request had already been charged and
	// nothing was written.
	WasIdempotent bool
}

// ScoreResult is the player after a successful score submission.
type ScoreResult struct {
	Player leaderboarddomain.Player
	Slot   int
}

// LeaderboardState is a read snapshot of the board.
type LeaderboardState struct {
	Owner     leaderboarddomain.Identity
	Players   []leaderboarddomain.Player
	Standings []leaderboarddomain.Standing
}

// Receipt is a collected entry fee.
type Receipt struct {
	ID        uuid.UUID
	Payer     leaderboarddomain.Identity
	Amount    uint64
	CreatedAt time.Time
}
