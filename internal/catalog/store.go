package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"tunematch/internal/logger"
	"tunematch/internal/metrics"
)

// reloadDelay coalesces the burst of events an editor or copy produces.
const reloadDelay = 250 * time.Millisecond

// Load reads a catalog from path, choosing the source by file extension.
func Load(ctx context.Context, path string, opts LoadOptions) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		src, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Load(ctx)
	default:
		return LoadCSVFile(path, opts)
	}
}

// Store publishes the current catalog snapshot. Readers take a snapshot with
// Current and keep using it for the whole request; a reload swaps in a new
// snapshot without touching the old one.
type Store struct {
	current atomic.Pointer[Catalog]
	path    string
	opts    LoadOptions
}

// NewStore publishes c. path and opts are used by Reload and Watch; path may
// be empty for a store that is only ever swapped by hand.
func NewStore(c *Catalog, path string, opts LoadOptions) *Store {
	s := &Store{path: path, opts: opts}
	s.Swap(c)
	return s
}

// Current returns the published snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap publishes c and returns the previous snapshot.
func (s *Store) Swap(c *Catalog) *Catalog {
	metrics.CatalogSongs.Set(float64(c.Len()))
	return s.current.Swap(c)
}

// Reload loads the catalog from the store path and publishes it. On failure
// the current snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("catalog: reload: store has no path")
	}
	start := time.Now()
	c, err := Load(ctx, s.path, s.opts)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return err
	}
	prev := s.Swap(c)
	metrics.CatalogReloads.WithLabelValues("ok").Inc()

	fields := []logger.Field{
		logger.String("path", s.path),
		logger.Int("songs", c.Len()),
		logger.Int("skipped", c.Skipped()),
		logger.String("version", c.Version()),
		logger.Duration("took", time.Since(start)),
	}
	if prev != nil {
		fields = append(fields, logger.String("previous_version", prev.Version()))
	}
	logger.Info("catalog reloaded", fields...)
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("catalog: watch: store has no path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and deploy tools often replace the file
	// instead of writing it in place.
	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching catalog for changes", logger.String("path", target))

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", logger.ErrorField(err))
		case <-timer.C:
			if err := s.Reload(ctx); err != nil {
				logger.Error("catalog reload failed, keeping previous snapshot",
					logger.String("path", target), logger.ErrorField(err))
			}
		}
	}
}
