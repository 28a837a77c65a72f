// Package recommender ranks catalog songs by distance to a reference vector.
package recommender

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"tunematch/internal/catalog"
	"tunematch/internal/features"
	"tunematch/internal/metrics"
	"tunematch/internal/models"
)

// candidate is one ranked catalog row. Distances live here, per request,
// never on the catalog.
type candidate struct {
	index    int
	distance float64
}

// Recommend returns up to n songs of c closest to the song query resolves
// to, nearest first. Songs whose name equals the query are left out. An
// unresolvable query yields features.ErrEmptyInput.
func Recommend(c *catalog.Catalog, r features.Resolver, query string, n int) ([]models.Recommendation, error) {
	return rank(c, r, []string{query}, n, "single")
}

// RecommendFromSongs ranks c against the centroid of every resolvable name.
// Songs named like any input are left out.
func RecommendFromSongs(c *catalog.Catalog, r features.Resolver, names []string, n int) ([]models.Recommendation, error) {
	return rank(c, r, names, n, "batch")
}

func rank(c *catalog.Catalog, r features.Resolver, names []string, n int, mode string) ([]models.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	ref, err := features.Mean(r, names)
	if err != nil {
		return nil, fmt.Errorf("recommender: %w", err)
	}
	if n <= 0 {
		return []models.Recommendation{}, nil
	}

	excluded := make(map[string]struct{}, len(names))
	for _, name := range names {
		excluded[normalize(name)] = struct{}{}
	}

	candidates := make([]candidate, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if _, skip := excluded[normalize(c.Song(i).Name)]; skip {
			continue
		}
		candidates = append(candidates, candidate{
			index:    i,
			distance: features.Distance(c.Vector(i), ref),
		})
	}

	// Stable, so equal distances keep catalog order.
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(a.distance, b.distance)
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]models.Recommendation, n)
	for i, cand := range candidates[:n] {
		out[i] = c.Song(cand.index).Recommend(cand.distance)
	}
	return out, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
