package leaderboardhandlers

import (
	"context"

	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/handlerwrapper"
)

// Handlers defines the interface for leaderboard event handlers.
type Handlers interface {
	HandleInitializeRequested(ctx context.Context, payload *leaderboardevents.LeaderboardInitializeRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGameRequested(ctx context.Context, payload *leaderboardevents.LeaderboardGameRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleScoreSubmitted(ctx context.Context, payload *leaderboardevents.LeaderboardScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRetrieveRequested(ctx context.Context, payload *leaderboardevents.LeaderboardRetrieveRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
