// Package petsite builds a static single-pet profile site from JSON data,
// photos and markdown pages, and serves it for local development.
//
// The browser side (lightbox, theme, menu) lives in the lightbox and theme
// packages and is compiled to WebAssembly by cmd/petsite-web.
package petsite

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// Progress receives image optimisation progress. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	ChangeMax(max int)
	Add(n int) error
}

// Site is a configured petsite project.
type Site struct {
	Config     SiteConfig
	Store      *Store // image manifest, nil when disabled
	Metrics    *Metrics
	Transforms *Transforms

	log        *slog.Logger
	now        func() time.Time
	progress   Progress
	noManifest bool

	buildMu sync.Mutex
}

// New validates cfg, applies opts and opens the image manifest.
func New(cfg SiteConfig, opts ...Option) (*Site, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Site{
		Config:     cfg,
		Metrics:    NewMetrics(),
		Transforms: &Transforms{},
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.noManifest {
		store, err := NewStore(filepath.Join(cfg.CacheDir, "manifest.db"))
		if err != nil {
			return nil, fmt.Errorf("petsite: init manifest: %w", err)
		}
		s.Store = store
	}

	s.Transforms.Add(MinifyHTML(cfg.Production()))
	if cfg.LiveReload && !cfg.Production() {
		s.Transforms.Add(LiveReload(liveReloadScriptPath))
	}
	return s, nil
}

// Close releases the image manifest.
func (s *Site) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// Logger returns the site's logger.
func (s *Site) Logger() *slog.Logger { return s.log }
