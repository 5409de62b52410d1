// Command furrowd is the furrow planning service. It serves the planning
// API over a Postgres or SQLite garden store, keeps plan archives and the
// crop catalog in local, S3 or GCS object storage, and exposes a health
// check.
package main

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

	"go.uber.org/zap"

	"github.com/furrow/furrow/internal/api"
	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/objstore"
	"github.com/furrow/furrow/internal/planner"
	"github.com/furrow/furrow/pkg/config"
)

// loadConfig reads FURROW_CONFIG (or the nearest .furrow/config.yaml) and
// then applies environment overrides.
func loadConfig(getenv func(string) string) (*config.Config, error) {
	path := getenv("FURROW_CONFIG")
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(cwd)
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(logger); err != nil {
		logger.Fatal("furrowd exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	store, err := garden.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs, err := objstore.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open object storage: %w", err)
	}

	svc := planner.New(store, blobs, cfg, logger)
	if _, err := svc.Reload(ctx); err != nil {
		return err
	}

	handler := api.NewHandler(svc, api.NewResultCache(cfg.Server.CacheSize), logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Routes(cfg.Server.APIKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting furrowd",
			zap.String("addr", srv.Addr),
			zap.String("database", cfg.Database.Driver),
			zap.String("storage", cfg.Storage.Backend),
			zap.String("catalog", svc.CatalogSource()),
		)
		errc <- srv.ListenAndServe()
	}()

	return serve(ctx, srv, errc, logger)
}

// serve waits for the listener to fail or the context to end, then shuts
// the server down. A listener error is returned so the process exits
// non-zero.
func serve(ctx context.Context, srv *http.Server, errc <-chan error, logger *zap.Logger) error {
	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
