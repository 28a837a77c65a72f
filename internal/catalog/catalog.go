// Package catalog holds the immutable song table the recommender reads from,
// and the sources it is loaded from.
package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"time"

	"tunematch/internal/features"
	"tunematch/internal/models"
)

var (
	// ErrMissingColumn means a source lacks a required column.
	ErrMissingColumn = errors.New("catalog: missing required column")
	// ErrMissingValue means a row has an empty required field.
	ErrMissingValue = errors.New("missing value")
	// ErrNotFinite means a feature parsed to NaN or an infinity.
	ErrNotFinite = errors.New("value is not finite")
)

// RowError describes a row rejected at load time.
type RowError struct {
	Line  int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("catalog: line %d: field %q: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Catalog is an ordered, read-only set of songs. It is never mutated after
// New returns, so one value may be shared by any number of readers.
type Catalog struct {
	songs    []models.Song
	vectors  []features.Vector
	version  string
	loadedAt time.Time
	skipped  int
}

// New validates songs and builds a catalog over a private copy of them.
func New(songs []models.Song) (*Catalog, error) {
	c := &Catalog{
		songs:    make([]models.Song, len(songs)),
		vectors:  make([]features.Vector, len(songs)),
		loadedAt: time.Now(),
	}
	copy(c.songs, songs)

	h := fnv.New64a()
	var buf [8]byte
	for i, s := range c.songs {
		v := features.Of(s)
		for d, f := range v {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, &RowError{Line: i + 1, Field: features.Names[d], Err: ErrNotFinite}
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			_, _ = h.Write(buf[:])
		}
		c.vectors[i] = v
		_, _ = h.Write([]byte(s.Name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(s.Artists))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(strconv.Itoa(s.Cluster)))
	}
	c.version = strconv.FormatUint(h.Sum64(), 16)
	return c, nil
}

// Len is the number of songs.
func (c *Catalog) Len() int { return len(c.songs) }

// Song returns the i-th song by value.
func (c *Catalog) Song(i int) models.Song { return c.songs[i] }

// Vector returns the feature vector of the i-th song.
func (c *Catalog) Vector(i int) features.Vector { return c.vectors[i] }

// Version identifies the catalog content. Equal content yields equal versions.
func (c *Catalog) Version() string { return c.version }

// LoadedAt is when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Skipped is the number of source rows dropped during load.
func (c *Catalog) Skipped() int { return c.skipped }

// Songs returns a copy of all songs in catalog order.
func (c *Catalog) Songs() []models.Song {
	out := make([]models.Song, len(c.songs))
	copy(out, c.songs)
	return out
}
