package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	leaderboardservice "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
	leaderboardhandlers "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/handlers"
	leaderboardhttp "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/httpapi"
	leaderboarddb "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/rock-destroyer/app/observability"
	"github.com/Black-And-White-Club/rock-destroyer/config"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Tokens             *leaderboardhttp.TokenProvider
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// Transport is the pub/sub pair the module's handlers consume from and publish to.
type Transport interface {
	message.Publisher
	message.Subscriber
}

// NewLeaderboardModule creates and initializes a new leaderboard module. When
// httpRouter is nil no HTTP routes are registered.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	repo leaderboarddb.Repository,
	eventBus Transport,
	router *message.Router,
	httpRouter chi.Router,
	routerCtx context.Context,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	owner, err := leaderboarddomain.ParseIdentity(cfg.Game.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid game owner: %w", err)
	}

	// 1. Initialize Service
	service := leaderboardservice.NewLeaderboardService(
		repo,
		nil,
		logger,
		obs.Registry.LeaderboardMetrics,
		tracer,
		db,
		leaderboardservice.Config{Owner: owner, EntryFee: cfg.Game.EntryFee},
	)

	// 2. Initialize Handlers
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)

	// 3. Initialize Router
	lbRouter := leaderboardrouter.NewLeaderboardRouter(
		logger,
		router,
		eventBus,
		eventBus,
		tracer,
		obs.Provider.PrometheusRegistry,
	)

	// 4. Configure the router with handlers
	if err := lbRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	// 5. Register HTTP routes
	tokens := leaderboardhttp.NewTokenProvider(cfg.JWT.Secret)
	if httpRouter != nil {
		httpHandlers := leaderboardhttp.NewHandlers(
			service,
			tokens,
			rate.Limit(cfg.HTTP.RateLimit),
			cfg.HTTP.RateBurst,
			logger,
			tracer,
		)
		httpHandlers.Register(httpRouter)
	}

	return &Module{
		LeaderboardService: service,
		LeaderboardRouter:  lbRouter,
		Tokens:             tokens,
		observability:      obs,
	}, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close shuts down the leaderboard module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.LeaderboardRouter != nil {
		if err := m.LeaderboardRouter.Close(); err != nil {
			logger.Error("Error closing LeaderboardRouter from module", "error", err)
			return fmt.Errorf("error closing LeaderboardRouter: %w", err)
		}
	}

	logger.Info("Leaderboard module stopped")
	return nil
}
