package leaderboardmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheus(reg)
	require.NoError(t, err)

	ctx := context.Background()
	pm := m.(*prometheusMetrics)

	m.RecordOperationAttempt(ctx, "SubmitScore", "LeaderboardService")
	m.RecordOperationAttempt(ctx, "SubmitScore", "LeaderboardService")
	m.RecordOperationSuccess(ctx, "SubmitScore", "LeaderboardService")
	m.RecordOperationFailure(ctx, "SubmitScore", "LeaderboardService")
	m.RecordOperationDuration(ctx, "SubmitScore", "LeaderboardService", 15*time.Millisecond)
	m.RecordEviction(ctx)
	m.RecordFeeCollected(ctx, 1_000_000_000)
	m.SetPlayerCount(ctx, 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.attempts.WithLabelValues("SubmitScore", "LeaderboardService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.successes.WithLabelValues("SubmitScore", "LeaderboardService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.failures.WithLabelValues("SubmitScore", "LeaderboardService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.evictions))
	assert.Equal(t, 1e9, testutil.ToFloat64(pm.fees))
	assert.Equal(t, 5.0, testutil.ToFloat64(pm.players))
	assert.Equal(t, 1, testutil.CollectAndCount(pm.duration))
}

func TestNewPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}
