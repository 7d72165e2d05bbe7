package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"wonderland.co.zw/panels-web/internal/gallery"
)

// ErrNotFound is returned when a page slug does not exist.
var ErrNotFound = errors.New("content: not found")

const (
	siteFile = "site.yaml"
	pagesDir = "pages"
)

// Catalog is one immutable load of the content directory.
type Catalog struct {
	Site     Site
	Gallery  *gallery.Catalog
	pages    map[string]Page
	LoadedAt time.Time
}

// Page returns the markdown page with the given slug.
func (c *Catalog) Page(slug string) (Page, error) {
	p, ok := c.pages[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Page{}, fmt.Errorf("%w: page %q", ErrNotFound, slug)
	}
	return p, nil
}

// Load reads site.yaml and pages/*.md under dir.
func Load(dir string) (*Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(dir, siteFile))
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", siteFile, err)
	}
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", siteFile, err)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	if _, err := site.ReviewList(); err != nil {
		return nil, err
	}
	pairs, err := gallery.NewCatalog(site.Gallery)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	pages := map[string]Page{}
	files, err := filepath.Glob(filepath.Join(dir, pagesDir, "*.md"))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		p, err := readPage(f)
		if err != nil {
			return nil, err
		}
		pages[p.Slug] = p
	}
	return &Catalog{Site: site, Gallery: pairs, pages: pages, LoadedAt: time.Now()}, nil
}

// Source serves the current catalog and swaps it on reload. Readers never
// see a partially loaded catalog; a failed reload keeps the previous one.
type Source struct {
	dir      string
	logger   *zap.Logger
	onReload func(error)

	mu      sync.RWMutex
	current *Catalog
}

// SourceOption customises a Source.
type SourceOption func(*Source)

// WithSourceLogger sets the logger used for reload events.
func WithSourceLogger(logger *zap.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReloadHook is called after every reload attempt with its error.
func WithReloadHook(fn func(error)) SourceOption {
	return func(s *Source) {
		s.onReload = fn
	}
}

// NewSource performs the initial load.
func NewSource(dir string, opts ...SourceOption) (*Source, error) {
	s := &Source{dir: dir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	c, err := Load(dir)
	if err != nil {
		return nil, err
	}
	s.current = c
	return s, nil
}

// Current returns the catalog in effect.
func (s *Source) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the content directory.
func (s *Source) Reload() error {
	c, err := Load(s.dir)
	if err == nil {
		s.mu.Lock()
		s.current = c
		s.mu.Unlock()
		s.logger.Info("content reloaded", zap.String("dir", s.dir))
	} else {
		s.logger.Warn("content reload failed; keeping previous catalog", zap.Error(err))
	}
	if s.onReload != nil {
		s.onReload(err)
	}
	return err
}

// Watch reloads on file changes under the content directory until ctx is
// done. Bursts of events are coalesced by debounce.
func (s *Source) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watcher: %w", err)
	}
	defer w.Close()
	for _, d := range []string{s.dir, filepath.Join(s.dir, pagesDir)} {
		if err := w.Add(d); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("content: watch %s: %w", d, err)
		}
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_ = s.Reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}
