package leaderboardmetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() LeaderboardMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordEviction(context.Context)                                         {}
func (noop) RecordFeeCollected(context.Context, uint64)                             {}
func (noop) SetPlayerCount(context.Context, int)                                    {}
