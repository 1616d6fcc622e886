// Package server boots the catalog service: database, cache, storage,
// HTTP and gRPC listeners, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/telascatalogo/telas/app/cart"
	"github.com/telascatalogo/telas/app/order"
	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/app/routes"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/config"
	"github.com/telascatalogo/telas/database/seeders"
	"github.com/telascatalogo/telas/internal/kernel"
	"github.com/telascatalogo/telas/pkg/cache"
	"github.com/telascatalogo/telas/pkg/database"
	"github.com/telascatalogo/telas/pkg/event"
	grpcserver "github.com/telascatalogo/telas/pkg/grpc"
	"github.com/telascatalogo/telas/pkg/logger"
	"github.com/telascatalogo/telas/pkg/migration"
	"github.com/telascatalogo/telas/pkg/router"
	"github.com/telascatalogo/telas/pkg/storage"
	"github.com/telascatalogo/telas/pkg/ws"

	// registers migrations
	_ "github.com/telascatalogo/telas/database/migrations"
)

const shutdownTimeout = 15 * time.Second

// Start runs the service until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeSink, err := logger.AttachMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		} else {
			defer closeSink()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer database.Close(database.DB) //nolint:errcheck

	if ran, err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	} else if len(ran) > 0 {
		logger.Info("migrations applied", "count", len(ran))
	}
	// Dependencies first: seeding then drops any listing cached in Redis.
	deps, err := Dependencies(ctx)
	if err != nil {
		return err
	}
	defer cache.Close() //nolint:errcheck

	if err := seeders.RunAll(ctx, database.DB); err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	hub.Relay(event.Default(), "fabric.*")
	deps.Hub = hub

	k, err := kernel.NewHTTPKernel(kernel.Options{
		Routes:            func(r *router.Router) error { return routes.RegisterAPI(r, deps) },
		Probe:             probe,
		UploadsDir:        filepath.Join(config.StorageLocalRoot(), storage.DefaultUploadDir),
		RequestsPerMinute: 300,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var grpcSrv *grpc.Server
	if port := config.GRPCPort(); port != "" {
		if grpcSrv, err = grpcserver.Start(port, probe); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		grpcserver.Stop(grpcSrv)
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcserver.Stop(grpcSrv)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func probe(ctx context.Context) error {
	return database.Ping(ctx, database.DB)
}

// Dependencies wires the application services over the connected database.
// A Redis outage leaves the catalog uncached and carts in process memory.
func Dependencies(ctx context.Context) (routes.Deps, error) {
	fabrics := repositories.NewFabricRepository(database.DB)

	var carts cart.SnapshotStore
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: redis unavailable, carts kept in memory", "error", err)
		carts = cart.NewMemoryStore()
	} else {
		carts = cart.NewRedisStore(cache.Client())
	}

	storage.Connect(ctx)
	disk, err := storage.Default()
	if err != nil {
		return routes.Deps{}, err
	}
	uploader := storage.NewImageUploader(disk, config.UploadMaxBytes())

	catalog := services.NewCatalog(fabrics)
	catalog.InvalidateOn(event.Default())

	return routes.Deps{
		Catalog:   catalog,
		Fabrics:   fabrics,
		Auth:      services.NewAuthService(repositories.NewAdminRepository(database.DB)),
		Images:    uploader,
		UploadMax: config.UploadMaxBytes(),
		Carts:     carts,
		Composer:  order.Composer{Currency: config.OrderCurrency(), Phone: config.WhatsAppNumber()},
	}, nil
}
