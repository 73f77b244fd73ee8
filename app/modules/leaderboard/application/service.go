package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/rock-destroyer/app/observability/leaderboardmetrics"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/attr"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

const serviceName = "LeaderboardService"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	fees    FeeCollector
	logger  *slog.Logger
	metrics leaderboardmetrics.LeaderboardMetrics
	tracer  trace.Tracer
	db      *bun.DB
	cfg     Config

	// mu serializes every operation; the row lock only covers one process.
	mu sync.Mutex
}

// NewLeaderboardService creates a new LeaderboardService. A nil fee collector
// records receipts through repo.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	fees FeeCollector,
	logger *slog.Logger,
	metrics leaderboardmetrics.LeaderboardMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	cfg Config,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if fees == nil {
		fees = NewLedgerFeeCollector(repo)
	}
	return &LeaderboardService{
		repo:    repo,
		fees:    fees,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		cfg:     cfg,
	}
}

// Owner returns the configured game owner.
func (s *LeaderboardService) Owner() leaderboarddomain.Identity {
	return s.cfg.Owner
}

// loadBoard decodes the owner's board. A missing account surfaces as leaderboarddb.ErrNotFound.
func (s *LeaderboardService) loadBoard(ctx context.Context, db bun.IDB, forUpdate bool) (*leaderboarddomain.Leaderboard, error) {
	var (
		account *leaderboarddb.LeaderboardAccount
		err     error
	)
	if forUpdate {
		account, err = s.repo.GetAccountForUpdate(ctx, db, s.cfg.Owner)
	} else {
		account, err = s.repo.GetAccount(ctx, db, s.cfg.Owner)
	}
	if err != nil {
		return nil, err
	}
	return account.Leaderboard()
}

func (s *LeaderboardService) saveBoard(ctx context.Context, db bun.IDB, board *leaderboarddomain.Leaderboard) error {
	account, err := leaderboarddb.NewLeaderboardAccount(s.cfg.Owner, board)
	if err != nil {
		return err
	}
	if err := s.repo.SaveAccount(ctx, db, account); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SetPlayerCount(ctx, board.Len())
	}
	return nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// runExclusive runs fn in a transaction while holding the service lock.
func runExclusive[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return runInTx(s, ctx, fn)
}
