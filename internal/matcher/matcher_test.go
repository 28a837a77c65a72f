package matcher

import (
	"testing"

	"tunematch/internal/catalog"
	"tunematch/internal/models"
)

func newCatalog(t *testing.T, names ...string) *catalog.Catalog {
	t.Helper()
	songs := make([]models.Song, len(names))
	for i, n := range names {
		songs[i] = models.Song{Name: n, Artists: "artist", Tempo: float64(100 + i), Cluster: i}
	}
	c, err := catalog.New(songs)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return c
}

// fixedScores scores candidates from a table and everything else as 0.
func fixedScores(scores map[string]int) Scorer {
	return ScorerFunc(func(query, candidate string) int {
		return scores[candidate]
	})
}

func TestResolver_Match(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		scores     map[string]int
		query      string
		wantStatus string
		wantIndex  int
	}{
		{
			name:       "exact match ignores case and surrounding space",
			names:      []string{"Other", "Song A"},
			query:      "  song a ",
			wantStatus: StatusExact,
			wantIndex:  1,
		},
		{
			name:       "exact match beats a higher fuzzy score",
			names:      []string{"Hello World", "hello"},
			scores:     map[string]int{"Hello World": 100},
			query:      "HELLO",
			wantStatus: StatusExact,
			wantIndex:  1,
		},
		{
			name:       "exact match on a padded catalog name",
			names:      []string{"  Padded  "},
			query:      "padded",
			wantStatus: StatusExact,
			wantIndex:  0,
		},
		{
			name:       "duplicate exact names resolve to the first",
			names:      []string{"x", "Dup", "dup"},
			query:      "DUP",
			wantStatus: StatusExact,
			wantIndex:  1,
		},
		{
			name:       "fuzzy score at threshold matches",
			names:      []string{"Near", "Far"},
			scores:     map[string]int{"Near": 80, "Far": 10},
			query:      "nearly",
			wantStatus: StatusFuzzy,
			wantIndex:  0,
		},
		{
			name:       "fuzzy score one below threshold is not found",
			names:      []string{"Near", "Far"},
			scores:     map[string]int{"Near": 79, "Far": 10},
			query:      "nearly",
			wantStatus: StatusNotFound,
			wantIndex:  -1,
		},
		{
			name:       "duplicate best fuzzy names collapse to the first",
			names:      []string{"Other", "Dup", "Dup"},
			scores:     map[string]int{"Dup": 90, "Other": 50},
			query:      "dupe",
			wantStatus: StatusFuzzy,
			wantIndex:  1,
		},
		{
			name:       "tied fuzzy names pick catalog order",
			names:      []string{"First", "Second"},
			scores:     map[string]int{"First": 85, "Second": 85},
			query:      "q",
			wantStatus: StatusFuzzy,
			wantIndex:  0,
		},
		{
			name:       "fuzzy candidates are trimmed",
			names:      []string{"  Spaced  "},
			scores:     map[string]int{"Spaced": 88},
			query:      "spacd",
			wantStatus: StatusFuzzy,
			wantIndex:  0,
		},
		{
			name:       "empty query is not found",
			names:      []string{"Song"},
			query:      "   ",
			wantStatus: StatusNotFound,
			wantIndex:  -1,
		},
		{
			name:       "empty query matches a literal empty name",
			names:      []string{"Song", ""},
			query:      "",
			wantStatus: StatusExact,
			wantIndex:  1,
		},
		{
			name:       "empty catalog",
			names:      nil,
			query:      "anything",
			wantStatus: StatusNotFound,
			wantIndex:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCatalog(t, tt.names...)
			var opts []Option
			if tt.scores != nil {
				opts = append(opts, WithScorer(fixedScores(tt.scores)))
			}
			r := New(c, opts...)

			m := r.Match(tt.query)
			if m.Status != tt.wantStatus {
				t.Fatalf("status: got %s, want %s", m.Status, tt.wantStatus)
			}
			if m.Index != tt.wantIndex {
				t.Fatalf("index: got %d, want %d", m.Index, tt.wantIndex)
			}
			if m.Found() && m.Song != c.Song(m.Index) {
				t.Fatalf("song does not match index %d", m.Index)
			}

			song, ok := r.Resolve(tt.query)
			if ok != m.Found() || (ok && song != m.Song) {
				t.Fatalf("Resolve disagrees with Match: %v %+v", ok, song)
			}
		})
	}
}

func TestResolver_WithThreshold(t *testing.T) {
	c := newCatalog(t, "Near")
	scorer := WithScorer(fixedScores(map[string]int{"Near": 70}))

	if _, ok := New(c, scorer).Resolve("q"); ok {
		t.Fatal("score 70 should miss the default threshold")
	}
	if _, ok := New(c, scorer, WithThreshold(70)).Resolve("q"); !ok {
		t.Fatal("score 70 should meet a threshold of 70")
	}
}

func TestResolver_DefaultScorer(t *testing.T) {
	c := newCatalog(t, "Bohemian Rhapsody", "Yesterday", "Yellow Submarine")
	r := New(c)

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{query: "yesterdy", want: "Yesterday", found: true},
		{query: "rhapsody bohemian", want: "Bohemian Rhapsody", found: true},
		{query: "stairway to heaven", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			song, ok := r.Resolve(tt.query)
			if ok != tt.found {
				t.Fatalf("found: got %v, want %v", ok, tt.found)
			}
			if ok && song.Name != tt.want {
				t.Fatalf("resolved to %q, want %q", song.Name, tt.want)
			}
		})
	}
}
