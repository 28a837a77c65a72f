// Package matcher resolves free-text song names against a catalog snapshot.
package matcher

import (
	"strings"

	"tunematch/internal/catalog"
	"tunematch/internal/metrics"
	"tunematch/internal/models"
)

// DefaultThreshold is the minimum fuzzy score accepted as a match.
const DefaultThreshold = 80

// Match statuses.
const (
	StatusExact    = "EXACT"
	StatusFuzzy    = "FUZZY"
	StatusNotFound = "NOT_FOUND"
)

// Match is the outcome of resolving one query. Index is -1 when nothing
// matched.
type Match struct {
	Song   models.Song
	Index  int
	Score  int
	Status string
}

// Found reports whether the query resolved to a song.
func (m Match) Found() bool { return m.Status != StatusNotFound }

// Resolver resolves names against one catalog snapshot. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	catalog   *catalog.Catalog
	scorer    Scorer
	threshold int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithScorer replaces the default WeightedRatio scorer.
func WithScorer(s Scorer) Option {
	return func(r *Resolver) { r.scorer = s }
}

// WithThreshold sets the minimum accepted fuzzy score.
func WithThreshold(threshold int) Option {
	return func(r *Resolver) { r.threshold = threshold }
}

// New returns a resolver over c.
func New(c *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:   c,
		scorer:    defaultScorer,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultScorer Scorer = NewWeightedRatio()

// Resolve returns the song query names, if any.
func (r *Resolver) Resolve(query string) (models.Song, bool) {
	m := r.Match(query)
	return m.Song, m.Found()
}

// Match resolves query in two phases. An exact, case- and
// whitespace-insensitive name match always wins, first in catalog order.
// Otherwise every trimmed name is scored and the best one is accepted when it
// reaches the threshold; duplicates of that name collapse to the first.
func (r *Resolver) Match(query string) Match {
	normalized := strings.ToLower(strings.TrimSpace(query))

	// ---- Exact phase ----
	for i := 0; i < r.catalog.Len(); i++ {
		song := r.catalog.Song(i)
		if strings.ToLower(strings.TrimSpace(song.Name)) == normalized {
			metrics.ResolveTotal.WithLabelValues("exact").Inc()
			return Match{Song: song, Index: i, Score: 100, Status: StatusExact}
		}
	}

	// ---- Fuzzy phase ----
	// Equal names score equally, so the first index holding the best score
	// is also the first song carrying the best name.
	bestIndex, bestScore := -1, -1
	for i := 0; i < r.catalog.Len(); i++ {
		score := r.scorer.Score(normalized, strings.TrimSpace(r.catalog.Song(i).Name))
		if score > bestScore {
			bestIndex, bestScore = i, score
		}
	}

	if bestIndex >= 0 && bestScore >= r.threshold {
		metrics.ResolveTotal.WithLabelValues("fuzzy").Inc()
		return Match{Song: r.catalog.Song(bestIndex), Index: bestIndex, Score: bestScore, Status: StatusFuzzy}
	}

	metrics.ResolveTotal.WithLabelValues("not_found").Inc()
	return Match{Index: -1, Score: max(bestScore, 0), Status: StatusNotFound}
}
