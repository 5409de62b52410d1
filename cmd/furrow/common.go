package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/objstore"
	"github.com/furrow/furrow/internal/planner"
	"github.com/furrow/furrow/pkg/config"
	"github.com/furrow/furrow/pkg/crop"
)

type globalOpts struct {
	configPath  string
	catalogPath string
	verbose     bool
}

// loadConfig reads the explicit config file, or the nearest
// .furrow/config.yaml above the working directory.
func (g *globalOpts) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = config.FindConfigFile(cwd)
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a development logger for --verbose and an error-only
// production logger otherwise.
func (g *globalOpts) newLogger() (*zap.Logger, error) {
	if g.verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return cfg.Build()
}

// env is everything a command needs to run the engines.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	planner *planner.Service
}

// newEnv builds a planner without a garden store. Stateless commands use
// the --catalog file or the built-in catalog.
func (g *globalOpts) newEnv(ctx context.Context) (*env, error) {
	return g.newEnvWith(ctx, nil, nil)
}

func (g *globalOpts) newEnvWith(ctx context.Context, store *garden.Store, blobs objstore.Client) (*env, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := g.newLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	p := planner.New(store, blobs, cfg, logger)
	if g.catalogPath != "" {
		cat, err := crop.LoadCatalog(g.catalogPath)
		if err != nil {
			return nil, err
		}
		if err := p.SetCatalog(cat, g.catalogPath); err != nil {
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, planner: p}, nil
}

// parseDate accepts YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
