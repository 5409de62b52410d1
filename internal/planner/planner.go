// Package planner runs the furrow engines against stored garden beds.
// It resolves crop IDs against the active catalog, saves every result as
// a plan and archives the plan payload to blob storage.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/internal/objstore"
	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/config"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/succession"
)

var (
	// ErrUnknownCrop is returned when a crop ID is not in the catalog.
	ErrUnknownCrop = errors.New("unknown crop")
	// ErrNoStore is returned by bed operations on a planner without a store.
	ErrNoStore = errors.New("no garden store configured")
	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Service orchestrates the garden store, blob storage and the engines.
type Service struct {
	store     *garden.Store
	blobs     objstore.Client
	companion *companion.Scorer
	suggester *succession.Suggester
	engine    config.EngineConfig
	catKey    string
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	catalog *crop.Catalog
	source  string
}

// New creates a planner. store and blobs may be nil: without a store only
// the stateless operations work, and without blobs the built-in catalog
// is used and plans are not archived.
func New(store *garden.Store, blobs objstore.Client, cfg *config.Config, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		blobs:     blobs,
		companion: companion.NewScorer(cfg.Engine.Companion),
		suggester: succession.NewSuggester(cfg.Engine.Succession),
		engine:    cfg.Engine,
		catKey:    cfg.Storage.CatalogKey,
		logger:    logger,
		now:       time.Now,
	}
}

// Store returns the garden store, or nil.
func (s *Service) Store() *garden.Store { return s.store }

// Catalog returns the active catalog, loading it on first use.
func (s *Service) Catalog(ctx context.Context) (*crop.Catalog, error) {
	cat, _, err := s.CatalogSnapshot(ctx)
	return cat, err
}

// CatalogSnapshot returns the active catalog together with its source,
// read under one lock so a concurrent reload cannot pair one catalog with
// the other's source.
func (s *Service) CatalogSnapshot(ctx context.Context) (*crop.Catalog, string, error) {
	s.mu.RLock()
	cat, source := s.catalog, s.source
	s.mu.RUnlock()
	if cat != nil {
		return cat, source, nil
	}
	cat, source, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, "", err
	}
	if err := s.install(cat, source); err != nil {
		return nil, "", err
	}
	return cat, source, nil
}

// CatalogSource describes where the active catalog came from.
func (s *Service) CatalogSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Reload reads the catalog again: from blob storage when an object exists
// under the catalog key, otherwise the built-in catalog.
func (s *Service) Reload(ctx context.Context) (*crop.Catalog, error) {
	cat, source, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.install(cat, source); err != nil {
		return nil, err
	}
	return cat, nil
}

// SetCatalog validates and installs a catalog, replacing whatever was
// loaded. The CLI uses it for --catalog files.
func (s *Service) SetCatalog(cat *crop.Catalog, source string) error {
	return s.install(cat, source)
}

func (s *Service) loadCatalog(ctx context.Context) (*crop.Catalog, string, error) {
	if s.blobs == nil || s.catKey == "" {
		return crop.Builtin(), "builtin", nil
	}
	data, err := s.blobs.Get(ctx, s.catKey)
	if errors.Is(err, objstore.ErrNotFound) {
		s.logger.Info("no catalog in blob storage, using builtin", zap.String("key", s.catKey))
		return crop.Builtin(), "builtin", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("fetch catalog %s: %w", s.catKey, err)
	}
	cat, err := crop.Decode(data, s.catKey)
	if err != nil {
		return nil, "", fmt.Errorf("decode catalog %s: %w", s.catKey, err)
	}
	return cat, s.catKey, nil
}

func (s *Service) install(cat *crop.Catalog, source string) error {
	if cat == nil {
		return fmt.Errorf("%w: nil catalog", ErrInvalidCatalog)
	}
	issues := crop.Validate(cat)
	var errs []string
	for _, is := range issues {
		if is.Level == crop.IssueError {
			errs = append(errs, is.String())
			continue
		}
		s.logger.Warn("catalog warning", zap.String("source", source), zap.String("issue", is.String()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %s: %s", ErrInvalidCatalog, source, strings.Join(errs, "; "))
	}

	s.mu.Lock()
	s.catalog = cat
	s.source = source
	s.mu.Unlock()
	s.logger.Info("catalog loaded",
		zap.String("source", source),
		zap.String("version", cat.Version),
		zap.Int("crops", len(cat.Crops)),
	)
	return nil
}

// resolve maps crop IDs to catalog entries, failing on any unknown ID.
func resolve(cat *crop.Catalog, ids []string) ([]crop.Crop, error) {
	found, missing := cat.Resolve(ids)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCrop, strings.Join(missing, ", "))
	}
	return found, nil
}

func lookup(cat *crop.Catalog, id string) (*crop.Crop, error) {
	c := cat.Lookup(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCrop, id)
	}
	return c, nil
}
