// Package drillgo wires the training session engine together: config,
// oracle provider, leaderboard store, controller, metrics and tracing.
package drillgo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drillgo-dev/drillgo/internal/observability"
	"github.com/drillgo-dev/drillgo/internal/oracle"
	"github.com/drillgo-dev/drillgo/pkg/config"
	"github.com/drillgo-dev/drillgo/pkg/game"
	"github.com/drillgo-dev/drillgo/pkg/leaderboard"
	obs "github.com/drillgo-dev/drillgo/pkg/observability"
)

// Options holds presentation hooks the app cannot supply itself.
type Options struct {
	// Cue receives audible/visual signals from the controller.
	Cue func(game.Cue)
}

// App is an assembled drillgo instance.
type App struct {
	cfg        *config.Config
	store      leaderboard.Store
	oracle     oracle.Oracle
	controller *game.Controller
	metrics    *obs.Server
}

// NewApp builds an App from configuration. The leaderboard store and
// oracle provider come from the config's backend/provider names.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var traceErr error
	if cfg.Tracing.Enabled {
		traceErr = observability.Init(observability.Config{
			Enabled:      true,
			ExporterType: cfg.Tracing.Exporter,
			OTLPEndpoint: cfg.Tracing.Endpoint,
		})
	} else {
		// OTEL_* environment variables can still enable tracing when
		// the config file leaves it off.
		traceErr = observability.InitFromEnv()
	}
	if traceErr != nil {
		log.Printf("Warning: failed to initialize tracing: %v", traceErr)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create leaderboard store: %w", err)
	}

	orc, err := newOracle(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create oracle: %w", err)
	}

	app := &App{
		cfg:    cfg,
		store:  store,
		oracle: orc,
		controller: game.New(ctx, game.Options{
			Oracle: orc,
			Store:  store,
			Cue:    opts.Cue,
		}),
	}

	if cfg.Metrics.Enabled {
		obs.InitMetrics()
		obs.GetHealthChecker().RegisterCheck(obs.StoreCheck(storePing(store)))
		app.metrics = obs.NewServer(cfg.Metrics.Port)
	}

	return app, nil
}

// storePing returns the health probe for a store: the backend's own
// Ping when it has one, a Load round trip otherwise.
func storePing(store leaderboard.Store) func(context.Context) error {
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping
	}
	return func(ctx context.Context) error {
		_, err := store.Load(ctx)
		return err
	}
}

// Controller returns the session controller.
func (a *App) Controller() *game.Controller {
	return a.controller
}

// Store returns the leaderboard store.
func (a *App) Store() leaderboard.Store {
	return a.store
}

// Run executes the interactive loop alongside the metrics server until
// the loop returns, an error occurs, or the process receives SIGINT or
// SIGTERM.
func (a *App) Run(ctx context.Context, loop func(ctx context.Context, ctrl *game.Controller) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if a.metrics != nil {
		g.Go(func() error {
			log.Printf("Metrics server listening on :%d", a.cfg.Metrics.Port)
			if err := a.metrics.Start(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return a.metrics.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer stop()
		return loop(gctx, a.controller)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// Close releases the store and flushes tracing.
func (a *App) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := observability.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: failed to shutdown tracing: %v", err)
	}

	return a.store.Close()
}

// NewStore builds just the leaderboard store for the configured
// backend, for commands that do not need a full App.
func NewStore(ctx context.Context, cfg *config.Config) (leaderboard.Store, error) {
	return newStore(ctx, cfg)
}

func newStore(ctx context.Context, cfg *config.Config) (leaderboard.Store, error) {
	switch cfg.Leaderboard.Backend {
	case "file":
		return leaderboard.NewFileStore(cfg.Leaderboard.Path)

	case "redis":
		return leaderboard.NewRedisStore(leaderboard.RedisConfig{
			Addr:     cfg.Leaderboard.Redis.Addr,
			Password: cfg.Leaderboard.Redis.Password,
			DB:       cfg.Leaderboard.Redis.DB,
			Key:      cfg.Leaderboard.Redis.Key,
		})

	case "firestore":
		return leaderboard.NewFirestoreStore(ctx, leaderboard.FirestoreConfig{
			ProjectID:       cfg.Leaderboard.Firestore.ProjectID,
			Collection:      cfg.Leaderboard.Firestore.Collection,
			CredentialsFile: cfg.Leaderboard.Firestore.CredentialsFile,
		})

	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Leaderboard.Backend)
	}
}

func newOracle(cfg *config.Config) (oracle.Oracle, error) {
	orc, err := oracle.New(cfg.Oracle.Provider, map[string]any{
		"api_key":       cfg.Oracle.APIKey,
		"base_url":      cfg.Oracle.BaseURL,
		"model":         cfg.Oracle.Model,
		"system_prompt": cfg.Oracle.SystemPrompt,
		"temperature":   cfg.Oracle.Temperature,
		"max_tokens":    cfg.Oracle.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Oracle.RequestsPerSecond > 0 {
		orc = oracle.NewRateLimitedOracle(orc, cfg.Oracle.RequestsPerSecond, cfg.Oracle.Burst)
	}
	if cfg.Tracing.Enabled {
		orc = oracle.NewInstrumentedOracle(orc, true)
	}

	return orc, nil
}
