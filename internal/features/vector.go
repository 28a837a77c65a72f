// Package features turns catalog songs into fixed-order numeric vectors.
package features

import (
	"errors"
	"math"

	"tunematch/internal/models"
)

// Dimensions is the number of audio features in a Vector.
const Dimensions = 10

// Names lists the feature of each Vector dimension, in order.
var Names = [Dimensions]string{
	"valence",
	"acousticness",
	"danceability",
	"energy",
	"instrumentalness",
	"liveness",
	"loudness",
	"popularity",
	"speechiness",
	"tempo",
}

// ErrEmptyInput means a batch of names produced no resolvable song, so no
// centroid exists.
var ErrEmptyInput = errors.New("features: no valid song found in the list")

// Vector holds the audio features of one song, or a centroid of several.
type Vector [Dimensions]float64

// Resolver maps a free-text name to a catalog song.
type Resolver interface {
	Resolve(query string) (models.Song, bool)
}

// Of projects a song onto its feature vector.
func Of(s models.Song) Vector {
	return Vector{
		s.Valence,
		s.Acousticness,
		s.Danceability,
		s.Energy,
		s.Instrumentalness,
		s.Liveness,
		s.Loudness,
		s.Popularity,
		s.Speechiness,
		s.Tempo,
	}
}

// Mean resolves every name and averages the vectors of the ones found.
// Unresolvable names are skipped. If none resolve, Mean returns ErrEmptyInput.
func Mean(r Resolver, names []string) (Vector, error) {
	vectors := make([]Vector, 0, len(names))
	for _, name := range names {
		song, ok := r.Resolve(name)
		if !ok {
			continue
		}
		vectors = append(vectors, Of(song))
	}
	return Centroid(vectors)
}

// Centroid is the per-dimension arithmetic mean of vs.
func Centroid(vs []Vector) (Vector, error) {
	if len(vs) == 0 {
		return Vector{}, ErrEmptyInput
	}
	var sum Vector
	for _, v := range vs {
		for i := range v {
			sum[i] += v[i]
		}
	}
	n := float64(len(vs))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}

// Distance is the unweighted Euclidean distance between a and b.
// Features are compared in their stored scale, so loudness, popularity and
// tempo dominate.
func Distance(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Map returns v keyed by feature name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Dimensions)
	for i, name := range Names {
		m[name] = v[i]
	}
	return m
}
