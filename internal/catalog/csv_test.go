package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "valence,year,acousticness,artists,danceability,energy,id,instrumentalness,liveness,loudness,name,popularity,speechiness,tempo,cluster\n"

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		strict      bool
		wantErr     error
		wantSongs   []string
		wantSkipped int
	}{
		{
			name: "loads every valid row in order",
			input: header +
				"0.5,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,Song A,50,0.04,120,3\n" +
				"0.6,2001,0.2,['B'],0.5,0.6,id2,0.0,0.2,-6.0,Song B,40,0.05,122,1\n",
			wantSongs: []string{"Song A", "Song B"},
		},
		{
			name: "drops a row with a missing feature",
			input: header +
				"0.5,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,Song A,50,0.04,120,3\n" +
				"0.6,2001,,['B'],0.5,0.6,id2,0.0,0.2,-6.0,Song B,40,0.05,122,1\n",
			wantSongs:   []string{"Song A"},
			wantSkipped: 1,
		},
		{
			name: "drops non-numeric and NaN features",
			input: header +
				"abc,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,Song A,50,0.04,120,3\n" +
				"0.6,2001,0.2,['B'],0.5,0.6,id2,0.0,0.2,NaN,Song B,40,0.05,122,1\n" +
				"0.6,2001,0.2,['C'],0.5,0.6,id3,0.0,0.2,-6.0,Song C,40,0.05,122,1\n",
			wantSongs:   []string{"Song C"},
			wantSkipped: 2,
		},
		{
			name: "drops a row without a name",
			input: header +
				"0.5,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,  ,50,0.04,120,3\n",
			wantSongs:   nil,
			wantSkipped: 1,
		},
		{
			name: "drops a short row",
			input: header +
				"0.5,1999,0.1\n" +
				"0.6,2001,0.2,['B'],0.5,0.6,id2,0.0,0.2,-6.0,Song B,40,0.05,122,1\n",
			wantSongs:   []string{"Song B"},
			wantSkipped: 1,
		},
		{
			name: "strict mode rejects a malformed row",
			input: header +
				"0.6,2001,,['B'],0.5,0.6,id2,0.0,0.2,-6.0,Song B,40,0.05,122,1\n",
			strict:  true,
			wantErr: ErrMissingValue,
		},
		{
			name:    "missing feature column",
			input:   "name,valence\nSong,0.5\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMissingColumn,
		},
		{
			name: "header aliases and cluster written as float",
			input: "Track Name,Artist,Valence,Acousticness,Danceability,Energy,Instrumentalness,Liveness,Loudness,Popularity,Speechiness,Tempo,Cluster\n" +
				"Aliased,X,0.1,0.2,0.3,0.4,0.5,0.6,-7,10,0.05,99.5,2.0\n",
			wantSongs: []string{"Aliased"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadCSV(strings.NewReader(tt.input), LoadOptions{Strict: tt.strict})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Len() != len(tt.wantSongs) {
				t.Fatalf("expected %d songs, got %d", len(tt.wantSongs), c.Len())
			}
			for i, name := range tt.wantSongs {
				if got := c.Song(i).Name; got != name {
					t.Fatalf("song %d: got %q, want %q", i, got, name)
				}
			}
			if c.Skipped() != tt.wantSkipped {
				t.Fatalf("skipped: got %d, want %d", c.Skipped(), tt.wantSkipped)
			}
		})
	}
}

func TestLoadCSV_Fields(t *testing.T) {
	input := header + "0.5,1999,0.1,['Frank Sinatra'],0.6,0.7,id1,0.01,0.1,-5.5,  Fly Me  ,50,0.04,120.25,3\n"
	c, err := LoadCSV(strings.NewReader(input), LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.Song(0)

	if s.Name != "  Fly Me  " {
		t.Errorf("name should be kept raw, got %q", s.Name)
	}
	if s.Artists != "['Frank Sinatra']" || s.ID != "id1" || s.Year != 1999 || s.Cluster != 3 {
		t.Errorf("metadata mismatch: %+v", s)
	}
	if s.Loudness != -5.5 || s.Tempo != 120.25 || s.Instrumentalness != 0.01 || s.Popularity != 50 {
		t.Errorf("feature mismatch: %+v", s)
	}
}

func TestLoadCSV_RowErrorLine(t *testing.T) {
	input := header +
		"0.5,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,Song A,50,0.04,120,3\n" +
		"0.6,2001,0.2,['B'],0.5,0.6,id2,0.0,0.2,-6.0,Song B,40,0.05,fast,1\n"

	_, err := LoadCSV(strings.NewReader(input), LoadOptions{Strict: true})
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected *RowError, got %v", err)
	}
	if rowErr.Line != 3 || rowErr.Field != "tempo" {
		t.Fatalf("got line %d field %q, want line 3 field tempo", rowErr.Line, rowErr.Field)
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.csv")
	data := header + "0.5,1999,0.1,['A'],0.6,0.7,id1,0.0,0.1,-5.0,Song A,50,0.04,120,3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	c, err := LoadCSVFile(path, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 song, got %d", c.Len())
	}

	if _, err := LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
