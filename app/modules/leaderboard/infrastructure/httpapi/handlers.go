package leaderboardhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	leaderboardservice "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/attr"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/results"
)

// maxBodyBytes caps write request bodies.
const maxBodyBytes = 1 << 12

// IdempotencyKeyHeader lets a client retry POST /leaderboard/games without
// paying twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// Handlers serves the leaderboard over HTTP.
type Handlers struct {
	service leaderboardservice.Service
	tokens  *TokenProvider
	limiter *IdentityRateLimiter
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHandlers creates Handlers. Writes are limited to limit requests per second
// per identity with the given burst.
func NewHandlers(
	service leaderboardservice.Service,
	tokens *TokenProvider,
	limit rate.Limit,
	burst int,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Handlers {
	return &Handlers{
		service: service,
		tokens:  tokens,
		limiter: NewIdentityRateLimiter(limit, burst),
		logger:  logger,
		tracer:  tracer,
	}
}

// Register mounts the leaderboard routes on r.
func (h *Handlers) Register(r chi.Router) {
	r.Route("/leaderboard", func(r chi.Router) {
		// Public routes
		r.Get("/", h.HandleGetLeaderboard)
		r.Get("/standings", h.HandleGetStandings)
		r.Get("/standings.png", h.HandleStandingsChart)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(RequireIdentity(h.tokens))
			r.Use(RateLimitMiddleware(h.limiter))
			r.Post("/initialize", h.HandleInitialize)
			r.Post("/games", h.HandleNewGame)
			r.Post("/scores", h.HandleSubmitScore)
			r.Get("/receipts", h.HandleListReceipts)
		})
	})
}

type leaderboardResponse struct {
	Owner     leaderboarddomain.Identity     `json:"owner"`
	Players   []leaderboardevents.PlayerV1   `json:"players"`
	Standings []leaderboardevents.StandingV1 `json:"standings"`
}

type newGameRequest struct {
	Username string `json:"username"`
}

type submitScoreRequest struct {
	Score uint64 `json:"score"`
}

type receiptResponse struct {
	ID        string                     `json:"id"`
	Payer     leaderboarddomain.Identity `json:"payer"`
	Amount    uint64                     `json:"amount"`
	CreatedAt time.Time                  `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code,omitempty"`
}

// HandleGetLeaderboard returns the board in slot order with standings.
func (h *Handlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleGetLeaderboard")
	defer span.End()

	res, err := h.service.GetLeaderboard(ctx)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}

	players := make([]leaderboardevents.PlayerV1, len(result.Players))
	for i, p := range result.Players {
		players[i] = leaderboardevents.NewPlayerV1(i, p)
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{
		Owner:     result.Owner,
		Players:   players,
		Standings: leaderboardevents.NewStandingsV1(result.Standings),
	})
}

// HandleGetStandings returns the ranking only.
func (h *Handlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleGetStandings")
	defer span.End()

	res, err := h.service.GetStandings(ctx)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, leaderboardevents.NewStandingsV1(*result))
}

// HandleStandingsChart renders the ranking as a PNG. An empty board has no chart.
func (h *Handlers) HandleStandingsChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleStandingsChart")
	defer span.End()

	res, err := h.service.GetStandings(ctx)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}
	if len(*result) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	png, err := leaderboardservice.GenerateStandingsChart(*result, leaderboardservice.DefaultChartPalette)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleInitialize resets the board. Only the owner may call it.
func (h *Handlers) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleInitialize")
	defer span.End()

	caller, _ := IdentityFromContext(ctx)
	res, err := h.service.InitializeLeaderboard(ctx, caller)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, leaderboardevents.LeaderboardInitializedPayloadV1{
		Owner:         result.Owner,
		InitializedAt: result.InitializedAt,
	})
}

// HandleNewGame charges the entry fee and adds the caller to the board.
func (h *Handlers) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleNewGame")
	defer span.End()

	var req newGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	player, _ := IdentityFromContext(ctx)
	res, err := h.service.NewGame(ctx, player, req.Username, r.Header.Get(IdempotencyKeyHeader))
	game, ok := success(h, w, r, res, err)
	if !ok {
		return
	}

	resp := leaderboardevents.LeaderboardPlayerAddedPayloadV1{
		Player:    leaderboardevents.NewPlayerV1(game.Slot, game.Player),
		ReceiptID: game.Receipt.String(),
		EntryFee:  game.EntryFee,
		Replayed:  game.WasIdempotent,
	}
	if game.Evicted != nil {
		evicted := leaderboardevents.NewPlayerV1(game.Slot, *game.Evicted)
		resp.Evicted = &evicted
	}
	status := http.StatusCreated
	if game.WasIdempotent {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// HandleSubmitScore records the caller's score for their paid game.
func (h *Handlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleSubmitScore")
	defer span.End()

	var req submitScoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	player, _ := IdentityFromContext(ctx)
	res, err := h.service.SubmitScore(ctx, player, req.Score)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, leaderboardevents.LeaderboardScoreUpdatedPayloadV1{
		Player: leaderboardevents.NewPlayerV1(result.Slot, result.Player),
	})
}

// HandleListReceipts returns the owner's collected fees.
func (h *Handlers) HandleListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHTTP.HandleListReceipts")
	defer span.End()

	caller, _ := IdentityFromContext(ctx)
	res, err := h.service.ListReceipts(ctx, caller)
	result, ok := success(h, w, r, res, err)
	if !ok {
		return
	}

	out := make([]receiptResponse, len(*result))
	for i, rc := range *result {
		out[i] = receiptResponse{ID: rc.ID.String(), Payer: rc.Payer, Amount: rc.Amount, CreatedAt: rc.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

// success writes the error response for anything but a successful result.
func success[S any](h *Handlers, w http.ResponseWriter, r *http.Request, result results.OperationResult[S, error], err error) (*S, bool) {
	switch {
	case err != nil:
		h.internalError(w, r, err)
	case result.IsFailure():
		writeFailure(w, *result.Failure)
	case !result.IsSuccess():
		h.internalError(w, r, errEmptyResult)
	default:
		return result.Success, true
	}
	return nil, false
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
		attr.String("method", r.Method),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	writeError(w, http.StatusInternalServerError, errors.New(http.StatusText(http.StatusInternalServerError)))
}

// statusFor maps a business failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, leaderboarddomain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, leaderboarddomain.ErrPlayerNotPaid):
		return http.StatusPaymentRequired
	case errors.Is(err, leaderboardservice.ErrNotGameOwner):
		return http.StatusForbidden
	case errors.Is(err, leaderboardservice.ErrLeaderboardNotFound):
		return http.StatusConflict
	case errors.Is(err, leaderboarddomain.ErrUsernameTooLong),
		errors.Is(err, leaderboarddomain.ErrInvalidIdentity):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeFailure(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	if code, ok := leaderboarddomain.RuleCode(err); ok {
		resp.Code = code
	}
	writeJSON(w, statusFor(err), resp)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
