package containers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Black-And-White-Club/rock-destroyer/app/eventbus"
	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
)

// LeaderboardBus is a JetStream event bus with the leaderboard stream created.
type LeaderboardBus struct {
	*eventbus.EventBus
	URL string

	container *nats.NATSContainer
}

// StartLeaderboardBus starts NATS, connects an event bus and provisions the
// leaderboard stream. The caller must Terminate the result.
func StartLeaderboardBus(ctx context.Context, logger *slog.Logger) (*LeaderboardBus, error) {
	// JetStream is on by default in the nats module.
	n, err := nats.Run(ctx, "nats:2.10-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(45*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS container: %w", err)
	}

	url, err := n.ConnectionString(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to get NATS connection string: %w", err), n.Terminate(ctx))
	}

	eb, err := eventbus.NewNATSEventBus(ctx, eventbus.NATSConfig{URL: url, DurablePrefix: "it"}, logger)
	if err != nil {
		return nil, errors.Join(err, n.Terminate(ctx))
	}
	if err := eb.CreateStream(ctx, leaderboardevents.StreamName, leaderboardevents.StreamSubjects); err != nil {
		return nil, errors.Join(err, eb.Close(), n.Terminate(ctx))
	}

	logger.InfoContext(ctx, "Leaderboard event bus ready", slog.String("url", url))
	return &LeaderboardBus{EventBus: eb, URL: url, container: n}, nil
}

// Terminate closes the bus and removes the container.
func (b *LeaderboardBus) Terminate(ctx context.Context) error {
	return errors.Join(b.Close(), b.container.Terminate(ctx))
}
