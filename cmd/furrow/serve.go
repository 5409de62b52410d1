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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furrow/furrow/internal/api"
	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/objstore"
	"github.com/furrow/furrow/pkg/config"
)

type serveOpts struct {
	port     string
	dbPath   string
	blobsDir string
	apiKey   string
}

func newServeCmd(g *globalOpts) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning API against a local SQLite garden",
		Long: `Serves the HTTP API with beds, soil tests and plans kept in a local SQLite
database and plan archives written under a local directory. Use furrowd for
Postgres and cloud object storage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.port, "port", "", "Listen port (default: config server.port)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database file (default: furrow.db in the data directory)")
	cmd.Flags().StringVar(&opts.blobsDir, "blobs", "", "Directory for catalogs and plan archives (default: config storage.local_dir)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Require this X-API-Key on API requests")
	return cmd
}

func runServe(ctx context.Context, g *globalOpts, opts serveOpts) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = filepath.Join(config.DataDir(), "furrow.db")
		if cfg.Database.Driver == config.DriverSQLite {
			dbPath = firstNonEmpty(cfg.Database.DSN, dbPath)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	store, err := garden.Open(ctx, config.DriverSQLite, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs := objstore.NewLocalStorage(firstNonEmpty(opts.blobsDir, cfg.Storage.LocalDir, filepath.Join(config.DataDir(), "blobs")))

	e, err := g.newEnvWith(ctx, store, blobs)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	if g.catalogPath == "" {
		if _, err := e.planner.Reload(ctx); err != nil {
			return err
		}
	}

	handler := api.NewHandler(e.planner, api.NewResultCache(cfg.Server.CacheSize), e.logger)
	srv := &http.Server{
		Addr:              ":" + firstNonEmpty(opts.port, cfg.Server.Port, "8080"),
		Handler:           handler.Routes(firstNonEmpty(opts.apiKey, cfg.Server.APIKey)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		e.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("db", dbPath))
		fmt.Fprintf(os.Stderr, "furrow serving on %s (db %s)\n", srv.Addr, dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
