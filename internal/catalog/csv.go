package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"tunematch/internal/features"
	"tunematch/internal/logger"
	"tunematch/internal/models"
)

// canonical header mapping
var headerAliases = map[string]string{
	"name":       "name",
	"title":      "name",
	"track":      "name",
	"track_name": "name",
	"song":       "name",

	"artists":     "artists",
	"artist":      "artists",
	"artist_name": "artists",
	"performer":   "artists",

	"id":       "id",
	"track_id": "id",

	"year": "year",

	"cluster":       "cluster",
	"cluster_label": "cluster",

	"valence":          "valence",
	"acousticness":     "acousticness",
	"danceability":     "danceability",
	"energy":           "energy",
	"instrumentalness": "instrumentalness",
	"liveness":         "liveness",
	"loudness":         "loudness",
	"popularity":       "popularity",
	"speechiness":      "speechiness",
	"tempo":            "tempo",
}

// LoadOptions controls how malformed rows are handled.
type LoadOptions struct {
	// Strict rejects the whole load on the first malformed row instead of
	// dropping it.
	Strict bool
}

func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(path string, opts LoadOptions) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	c, err := LoadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", path, err)
	}
	return c, nil
}

// LoadCSV reads a header row followed by one song per row. Rows with a
// missing or non-numeric feature are dropped, or fail the load when
// opts.Strict is set.
func LoadCSV(r io.Reader, opts LoadOptions) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// ---- Read header row ----
	rawHeaders, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, err
	}

	columnMap := make(map[int]string)
	seen := make(map[string]bool)
	for i, h := range rawHeaders {
		canonical, ok := headerAliases[normalize(h)]
		if !ok || seen[canonical] {
			continue
		}
		columnMap[i] = canonical
		seen[canonical] = true
	}

	required := append([]string{"name"}, features.Names[:]...)
	for _, col := range required {
		if !seen[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var (
		songs   []models.Song
		skipped int
	)

	// ---- Read rows ----
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		song, rowErr := parseRow(record, columnMap, line)
		if rowErr != nil {
			if opts.Strict {
				return nil, rowErr
			}
			skipped++
			logger.Warn("dropping malformed catalog row",
				logger.Int("line", rowErr.Line),
				logger.String("field", rowErr.Field),
				logger.ErrorField(rowErr.Err))
			continue
		}
		songs = append(songs, song)
	}

	c, err := New(songs)
	if err != nil {
		return nil, err
	}
	c.skipped = skipped
	return c, nil
}

func parseRow(record []string, columnMap map[int]string, line int) (models.Song, *RowError) {
	var (
		s       models.Song
		present = make(map[string]bool, len(columnMap))
	)

	for i, field := range columnMap {
		if i >= len(record) {
			continue
		}
		val := strings.TrimSpace(record[i])

		switch field {
		case "name":
			// Keep the raw name; resolution trims on comparison.
			s.Name = record[i]
			present[field] = val != ""
			continue
		case "artists":
			s.Artists = val
			continue
		case "id":
			s.ID = val
			continue
		}

		if val == "" {
			continue
		}

		switch field {
		case "year":
			if n, err := parseInt(val); err == nil {
				s.Year = n
			}
		case "cluster":
			n, err := parseInt(val)
			if err != nil {
				return s, &RowError{Line: line, Field: field, Err: err}
			}
			s.Cluster = n
		default:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return s, &RowError{Line: line, Field: field, Err: err}
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return s, &RowError{Line: line, Field: field, Err: ErrNotFinite}
			}
			setFeature(&s, field, f)
			present[field] = true
		}
	}

	if !present["name"] {
		return s, &RowError{Line: line, Field: "name", Err: ErrMissingValue}
	}
	for _, name := range features.Names {
		if !present[name] {
			return s, &RowError{Line: line, Field: name, Err: ErrMissingValue}
		}
	}
	return s, nil
}

// parseInt accepts integers written as floats ("3.0"), which pandas emits
// for integer columns that once held a missing value.
func parseInt(val string) (int, error) {
	if n, err := strconv.Atoi(val); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", val)
	}
	return int(f), nil
}

func setFeature(s *models.Song, field string, f float64) {
	switch field {
	case "valence":
		s.Valence = f
	case "acousticness":
		s.Acousticness = f
	case "danceability":
		s.Danceability = f
	case "energy":
		s.Energy = f
	case "instrumentalness":
		s.Instrumentalness = f
	case "liveness":
		s.Liveness = f
	case "loudness":
		s.Loudness = f
	case "popularity":
		s.Popularity = f
	case "speechiness":
		s.Speechiness = f
	case "tempo":
		s.Tempo = f
	}
}
