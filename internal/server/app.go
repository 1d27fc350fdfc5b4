// Package server wires the certifier server together: it opens the record
// store, builds the services, and runs the gRPC operator API and the public
// HTTP surface until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/assets"
	"github.com/dmitrijs2005/certifier/internal/server/config"
	gs "github.com/dmitrijs2005/certifier/internal/server/grpc"
	"github.com/dmitrijs2005/certifier/internal/server/httpapi"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/dmitrijs2005/certifier/internal/server/metrics"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/memory"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	grpc   *gs.GRPCServer
	http   *httpapi.Server
}

// openStore connects to the configured backend and brings its schema up to date.
func openStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	var store repomanager.RepositoryManager
	switch c.Storage {
	case config.StorageMemory:
		store = memory.NewStore()
	case config.StoragePostgres:
		pg, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		store = pg
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}

	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return store, nil
}

// NewApp builds an App from c. Metrics are registered on a fresh registry.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	resolver := assets.NewResolver(assets.Config{
		Region:       c.S3Region,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		URLExpiry:    c.AssetURLExpiry,
	})

	users := services.NewUserService(store, c)
	settings := services.NewSettingsService(store)
	interns := services.NewInternService(store, identity.New(), m, logger)
	verification := services.NewVerificationService(store, m, logger)

	return &App{
		config: c,
		logger: logger,
		store:  store,
		grpc: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Deps{
			Users:         users,
			Settings:      settings,
			Interns:       interns,
			Verification:  verification,
			Assets:        resolver,
			Uploads:       resolver,
			PublicBaseURL: c.PublicBaseURL,
		}),
		http: httpapi.NewServer(c.EndpointAddrHTTP, logger, verification, resolver, m, c.ShutdownTimeout),
	}, nil
}

// Run serves both listeners until ctx is cancelled, SIGINT/SIGTERM/SIGQUIT is
// received, or either server fails. The store is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(ctx) })
	g.Go(func() error { return app.http.Run(ctx) })

	err := g.Wait()
	if cerr := app.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	app.logger.Info(context.Background(), "App stopped")
	return err
}
