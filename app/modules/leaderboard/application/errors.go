package leaderboardservice

import "errors"

// Business failures reported by the service. They are returned as the Failure
// of an OperationResult, never as the infrastructure error.
var (
	// ErrNotGameOwner is returned when someone other than the owner initializes the board.
	ErrNotGameOwner = errors.New("caller is not the game owner")

	// ErrLeaderboardNotFound is returned before the owner has initialized the board.
	ErrLeaderboardNotFound = errors.New("leaderboard not initialized")
)
