package recommender

import (
	"context"

	"tunematch/internal/cache"
	"tunematch/internal/catalog"
	"tunematch/internal/logger"
	"tunematch/internal/matcher"
	"tunematch/internal/metrics"
	"tunematch/internal/models"
)

// Engine answers lookups and recommendations against the catalog published by
// a store. Every call pins the snapshot current at its start, so a concurrent
// reload never changes an answer halfway through.
type Engine struct {
	store    *catalog.Store
	matchOpt []matcher.Option
	cache    cache.RecommendationCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcherOptions passes opts to every resolver the engine builds.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(e *Engine) { e.matchOpt = append(e.matchOpt, opts...) }
}

// WithCache enables caching of single-song recommendations.
func WithCache(c cache.RecommendationCache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine returns an engine reading from store.
func NewEngine(store *catalog.Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog currently published.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.store.Current()
}

// Snapshot pins the current catalog for a sequence of calls.
func (e *Engine) Snapshot() *Snapshot {
	c := e.store.Current()
	return &Snapshot{
		catalog:  c,
		resolver: matcher.New(c, e.matchOpt...),
		cache:    e.cache,
	}
}

// Lookup resolves name and reports how it matched.
func (e *Engine) Lookup(name string) matcher.Match {
	return e.Snapshot().Lookup(name)
}

// SongDetails returns the short view of the song name resolves to.
func (e *Engine) SongDetails(name string) (models.SongDetails, bool) {
	return e.Snapshot().SongDetails(name)
}

// Recommend returns up to n songs closest to the song name resolves to.
func (e *Engine) Recommend(ctx context.Context, name string, n int) ([]models.Recommendation, error) {
	return e.Snapshot().Recommend(ctx, name, n)
}

// RecommendFromSongs returns up to n songs closest to the centroid of names.
func (e *Engine) RecommendFromSongs(ctx context.Context, names []string, n int) ([]models.Recommendation, error) {
	return e.Snapshot().RecommendFromSongs(ctx, names, n)
}

// Snapshot serves requests from one catalog version.
type Snapshot struct {
	catalog  *catalog.Catalog
	resolver *matcher.Resolver
	cache    cache.RecommendationCache
}

// Catalog is the pinned catalog.
func (s *Snapshot) Catalog() *catalog.Catalog { return s.catalog }

// Lookup resolves name and reports how it matched.
func (s *Snapshot) Lookup(name string) matcher.Match {
	return s.resolver.Match(name)
}

// SongDetails returns the short view of the song name resolves to.
func (s *Snapshot) SongDetails(name string) (models.SongDetails, bool) {
	m := s.resolver.Match(name)
	if !m.Found() {
		logger.Info("song not found", logger.String("query", name))
		return models.SongDetails{}, false
	}
	return m.Song.Details(), true
}

// Recommend returns up to n songs closest to the song name resolves to,
// reading through the cache when one is configured.
func (s *Snapshot) Recommend(ctx context.Context, name string, n int) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		key = cache.Key(s.catalog.Version(), n, name)
		recs, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.CacheRequests.WithLabelValues("error").Inc()
			logger.Warn("recommendation cache read failed", logger.String("key", key), logger.ErrorField(err))
		case ok:
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return recs, nil
		default:
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	recs, err := Recommend(s.catalog, s.resolver, name, n)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, recs); err != nil {
			logger.Warn("recommendation cache write failed", logger.String("key", key), logger.ErrorField(err))
		}
	}
	return recs, nil
}

// RecommendFromSongs returns up to n songs closest to the centroid of names.
func (s *Snapshot) RecommendFromSongs(ctx context.Context, names []string, n int) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return RecommendFromSongs(s.catalog, s.resolver, names, n)
}
