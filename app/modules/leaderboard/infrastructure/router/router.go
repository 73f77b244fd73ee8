package leaderboardrouter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	leaderboardhandlers "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/rock-destroyer/app/shared/handlerwrapper"
)

// LeaderboardRouter registers leaderboard handlers on a Watermill router.
type LeaderboardRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new instance of the router. Router metrics are
// only added when prometheusRegistry is non-nil.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *LeaderboardRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the middlewares and registers all leaderboard handlers.
func (r *LeaderboardRouter) Configure(routerCtx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(routerCtx, handlers)
}

// handlerDeps provides a scannable structure for the registerHandler helper.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler is a generic helper to reduce boilerplate when adding topics to the router.
// Requests that fail to decode are answered on failedTopic.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	failedTopic string,
	rejected handlerwrapper.InvalidPayloadFunc,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "leaderboard." + topic
	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
			handlerwrapper.WithInvalidPayloadTopic(failedTopic, rejected),
		),
	)
}

// RegisterHandlers binds request topics to their handlers.
func (r *LeaderboardRouter) RegisterHandlers(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps,
		leaderboardevents.LeaderboardInitializeRequestedV1,
		leaderboardevents.LeaderboardInitializeFailedV1,
		func(id string, err error) any {
			return &leaderboardevents.LeaderboardInitializeFailedPayloadV1{FailureV1: leaderboardevents.NewInvalidPayloadFailureV1(id, err)}
		},
		handlers.HandleInitializeRequested,
	)
	registerHandler(deps,
		leaderboardevents.LeaderboardGameRequestedV1,
		leaderboardevents.LeaderboardGameFailedV1,
		func(id string, err error) any {
			return &leaderboardevents.LeaderboardGameFailedPayloadV1{FailureV1: leaderboardevents.NewInvalidPayloadFailureV1(id, err)}
		},
		handlers.HandleGameRequested,
	)
	registerHandler(deps,
		leaderboardevents.LeaderboardScoreSubmittedV1,
		leaderboardevents.LeaderboardScoreFailedV1,
		func(id string, err error) any {
			return &leaderboardevents.LeaderboardScoreFailedPayloadV1{FailureV1: leaderboardevents.NewInvalidPayloadFailureV1(id, err)}
		},
		handlers.HandleScoreSubmitted,
	)
	registerHandler(deps,
		leaderboardevents.LeaderboardRetrieveRequestedV1,
		leaderboardevents.LeaderboardRetrieveFailedV1,
		func(id string, err error) any {
			return &leaderboardevents.LeaderboardRetrieveFailedPayloadV1{FailureV1: leaderboardevents.NewInvalidPayloadFailureV1(id, err)}
		},
		handlers.HandleRetrieveRequested,
	)

	r.logger.InfoContext(ctx, "Leaderboard module handlers registered")
	return nil
}

// Close shuts down the router.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
