package leaderboardhandlers

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	leaderboardservice "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/application"
	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/attr"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/handlerwrapper"
)

var errEmptyResult = errors.New("unexpected result from service: both success and failure are nil")

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleInitializeRequested resets the board when the owner asks for it.
func (h *LeaderboardHandlers) HandleInitializeRequested(ctx context.Context, payload *leaderboardevents.LeaderboardInitializeRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleInitializeRequested")
	defer span.End()

	result, err := h.service.InitializeLeaderboard(ctx, payload.Caller)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		h.logger.WarnContext(ctx, "Leaderboard initialization rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("caller", payload.Caller.String()),
			attr.Error(*result.Failure),
		)
		return []handlerwrapper.Result{{
			Topic: leaderboardevents.LeaderboardInitializeFailedV1,
			Payload: &leaderboardevents.LeaderboardInitializeFailedPayloadV1{
				Caller:    payload.Caller,
				FailureV1: leaderboardevents.NewFailureV1(*result.Failure),
			},
		}}, nil
	}
	if !result.IsSuccess() {
		return nil, errEmptyResult
	}

	return []handlerwrapper.Result{{
		Topic: leaderboardevents.LeaderboardInitializedV1,
		Payload: &leaderboardevents.LeaderboardInitializedPayloadV1{
			Owner:         result.Success.Owner,
			InitializedAt: result.Success.InitializedAt,
		},
	}}, nil
}

// HandleGameRequested starts a paid game for the requesting player.
func (h *LeaderboardHandlers) HandleGameRequested(ctx context.Context, payload *leaderboardevents.LeaderboardGameRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleGameRequested")
	defer span.End()

	requestID := payload.RequestID
	if requestID == "" {
		requestID = handlerwrapper.MessageIDFromContext(ctx)
	}

	result, err := h.service.NewGame(ctx, payload.Player, payload.Username, requestID)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		return []handlerwrapper.Result{{
			Topic: leaderboardevents.LeaderboardGameFailedV1,
			Payload: &leaderboardevents.LeaderboardGameFailedPayloadV1{
				Player:    payload.Player,
				Username:  payload.Username,
				FailureV1: leaderboardevents.NewFailureV1(*result.Failure),
			},
		}}, nil
	}
	if !result.IsSuccess() {
		return nil, errEmptyResult
	}

	game := result.Success
	added := &leaderboardevents.LeaderboardPlayerAddedPayloadV1{
		Player:    leaderboardevents.NewPlayerV1(game.Slot, game.Player),
		ReceiptID: game.Receipt.String(),
		EntryFee:  game.EntryFee,
		Replayed:  game.WasIdempotent,
	}
	if game.Evicted != nil {
		evicted := leaderboardevents.NewPlayerV1(game.Slot, *game.Evicted)
		added.Evicted = &evicted
	}

	return []handlerwrapper.Result{{
		Topic:   leaderboardevents.LeaderboardPlayerAddedV1,
		Payload: added,
	}}, nil
}

// HandleScoreSubmitted records a finished game's score.
func (h *LeaderboardHandlers) HandleScoreSubmitted(ctx context.Context, payload *leaderboardevents.LeaderboardScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleScoreSubmitted")
	defer span.End()

	result, err := h.service.SubmitScore(ctx, payload.Player, payload.Score)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		h.logger.InfoContext(ctx, "Score rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("player", payload.Player.String()),
			attr.Error(*result.Failure),
		)
		return []handlerwrapper.Result{{
			Topic: leaderboardevents.LeaderboardScoreFailedV1,
			Payload: &leaderboardevents.LeaderboardScoreFailedPayloadV1{
				Player:    payload.Player,
				Score:     payload.Score,
				FailureV1: leaderboardevents.NewFailureV1(*result.Failure),
			},
		}}, nil
	}
	if !result.IsSuccess() {
		return nil, errEmptyResult
	}

	return []handlerwrapper.Result{{
		Topic: leaderboardevents.LeaderboardScoreUpdatedV1,
		Payload: &leaderboardevents.LeaderboardScoreUpdatedPayloadV1{
			Player: leaderboardevents.NewPlayerV1(result.Success.Slot, result.Success.Player),
		},
	}}, nil
}

// HandleRetrieveRequested replies with the current board.
func (h *LeaderboardHandlers) HandleRetrieveRequested(ctx context.Context, payload *leaderboardevents.LeaderboardRetrieveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleRetrieveRequested")
	defer span.End()

	result, err := h.service.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		return []handlerwrapper.Result{{
			Topic: leaderboardevents.LeaderboardRetrieveFailedV1,
			Payload: &leaderboardevents.LeaderboardRetrieveFailedPayloadV1{
				RequestID: payload.RequestID,
				FailureV1: leaderboardevents.NewFailureV1(*result.Failure),
			},
		}}, nil
	}
	if !result.IsSuccess() {
		return nil, errEmptyResult
	}

	players := make([]leaderboardevents.PlayerV1, len(result.Success.Players))
	for i, p := range result.Success.Players {
		players[i] = leaderboardevents.NewPlayerV1(i, p)
	}

	return []handlerwrapper.Result{{
		Topic: leaderboardevents.LeaderboardRetrievedV1,
		Payload: &leaderboardevents.LeaderboardRetrievedPayloadV1{
			RequestID: payload.RequestID,
			Players:   players,
			Standings: leaderboardevents.NewStandingsV1(result.Success.Standings),
		},
	}}, nil
}
