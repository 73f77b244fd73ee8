//go:build integration

package eventbus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	"github.com/Black-And-White-Club/rock-destroyer/integration_tests/containers"
)

func TestNATSEventBus_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bus, err := containers.StartLeaderboardBus(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Terminate(context.Background()) })

	// The stream already exists; a second call is served from the process cache.
	require.NoError(t, bus.CreateStream(ctx, leaderboardevents.StreamName, leaderboardevents.StreamSubjects))

	messages, err := bus.Subscribe(ctx, leaderboardevents.LeaderboardInitializeRequestedV1)
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"caller":"x"}`))
	msg.Metadata.Set("correlation_id", "corr-nats")
	require.NoError(t, bus.Publish(leaderboardevents.LeaderboardInitializeRequestedV1, msg))

	select {
	case got := <-messages:
		assert.Equal(t, msg.UUID, got.UUID)
		assert.Equal(t, "corr-nats", got.Metadata.Get("correlation_id"))
		assert.JSONEq(t, `{"caller":"x"}`, string(got.Payload))
		got.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for JetStream delivery")
	}
}
