package leaderboardevents

// JetStream stream carrying every leaderboard subject.
const (
	StreamName     = "LEADERBOARD"
	StreamSubjects = "leaderboard.>"
)

// Initialize
const (
	LeaderboardInitializeRequestedV1 = "leaderboard.initialize.requested.v1"
	LeaderboardInitializedV1         = "leaderboard.initialized.v1"
	LeaderboardInitializeFailedV1    = "leaderboard.initialize.failed.v1"
)

// New game (entry fee + add player)
const (
	LeaderboardGameRequestedV1 = "leaderboard.game.requested.v1"
	LeaderboardPlayerAddedV1   = "leaderboard.player.added.v1"
	LeaderboardGameFailedV1    = "leaderboard.game.failed.v1"
)

// Score submission
const (
	LeaderboardScoreSubmittedV1 = "leaderboard.score.submitted.v1"
	LeaderboardScoreUpdatedV1   = "leaderboard.score.updated.v1"
	LeaderboardScoreFailedV1    = "leaderboard.score.failed.v1"
)

// Retrieval
const (
	LeaderboardRetrieveRequestedV1 = "leaderboard.retrieve.requested.v1"
	LeaderboardRetrievedV1         = "leaderboard.retrieved.v1"
	LeaderboardRetrieveFailedV1    = "leaderboard.retrieve.failed.v1"
)
