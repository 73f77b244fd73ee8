package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"

	"github.com/Black-And-White-Club/rock-destroyer/app/eventbus"
	"github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard"
	leaderboardevents "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/events"
	"github.com/Black-And-White-Club/rock-destroyer/app/observability"
	"github.com/Black-And-White-Club/rock-destroyer/config"
	"github.com/Black-And-White-Club/rock-destroyer/db/bundb"
)

// App wires the leaderboard module to its database, event bus and HTTP listener.
type App struct {
	Config            *config.Config
	Observability     observability.Observability
	DB                *bundb.DBService
	EventBus          *eventbus.EventBus
	WatermillRouter   *message.Router
	HTTPRouter        chi.Router
	LeaderboardModule *leaderboard.Module

	httpServer *http.Server
	wg         sync.WaitGroup
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.Init(ctx, config.ToObsConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Provider.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		_ = obs.Provider.Shutdown(ctx)
		return nil, err
	}
	if err := dbService.Migrate(ctx, logger); err != nil {
		_ = dbService.Close()
		_ = obs.Provider.Shutdown(ctx)
		return nil, err
	}

	bus, err := newEventBus(ctx, cfg, logger)
	if err != nil {
		_ = dbService.Close()
		_ = obs.Provider.Shutdown(ctx)
		return nil, err
	}

	wmRouter, err := newWatermillRouter(logger)
	if err != nil {
		_ = bus.Close()
		_ = dbService.Close()
		_ = obs.Provider.Shutdown(ctx)
		return nil, err
	}

	httpRouter := newHTTPRouter(obs)

	module, err := leaderboard.NewLeaderboardModule(
		ctx,
		cfg,
		obs,
		dbService.LeaderboardDB,
		bus,
		wmRouter,
		httpRouter,
		ctx,
		dbService.GetDB(),
	)
	if err != nil {
		_ = bus.Close()
		_ = dbService.Close()
		_ = obs.Provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	return &App{
		Config:            cfg,
		Observability:     obs,
		DB:                dbService,
		EventBus:          bus,
		WatermillRouter:   wmRouter,
		HTTPRouter:        httpRouter,
		LeaderboardModule: module,
		httpServer: &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: httpRouter,
		},
	}, nil
}

func newEventBus(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*eventbus.EventBus, error) {
	if cfg.EventBus.Driver == config.EventBusDriverGoChannel {
		logger.WarnContext(ctx, "Using in-process event bus; messages do not survive restarts")
		return eventbus.NewGoChannelEventBus(logger), nil
	}

	bus, err := eventbus.NewNATSEventBus(ctx, eventbus.NATSConfig{
		URL:      cfg.NATS.URL,
		NKeySeed: cfg.NATS.NKeySeed,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := bus.CreateStream(ctx, leaderboardevents.StreamName, leaderboardevents.StreamSubjects); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to provision leaderboard stream: %w", err)
	}
	return bus, nil
}

// Close releases every resource in reverse start order.
func (app *App) Close() error {
	var errs []error
	if app.LeaderboardModule != nil {
		errs = append(errs, app.LeaderboardModule.Close())
	}
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	app.wg.Wait()

	// Spans from the shutdown above are flushed last.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errs = append(errs, app.Observability.Provider.Shutdown(ctx))
	return errors.Join(errs...)
}
