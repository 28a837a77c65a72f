package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"tunematch/internal/models"
)

//go:embed schema.sql
var schema string

// SQLiteSource reads and writes a catalog in a SQLite database. Row order is
// preserved through the position column.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping sqlite %s: %w", path, err)
	}

	src := &SQLiteSource{db: db}
	if err := src.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: init sqlite schema: %w", err)
	}
	return src, nil
}

// init runs the embedded schema and sets performance PRAGMAs
func (s *SQLiteSource) init() error {
	if _, err := s.db.Exec("PRAGMA synchronous=NORMAL; PRAGMA cache_size=-2000;"); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Load reads every song in position order into a new Catalog.
func (s *SQLiteSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT IFNULL(song_id, ''), name, artists, year,
			valence, acousticness, danceability, energy, instrumentalness,
			liveness, loudness, popularity, speechiness, tempo, cluster
		FROM songs
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(
			&song.ID,
			&song.Name,
			&song.Artists,
			&song.Year,
			&song.Valence,
			&song.Acousticness,
			&song.Danceability,
			&song.Energy,
			&song.Instrumentalness,
			&song.Liveness,
			&song.Loudness,
			&song.Popularity,
			&song.Speechiness,
			&song.Tempo,
			&song.Cluster,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate songs: %w", err)
	}

	return New(songs)
}

// Import replaces the stored songs with the contents of c in one transaction.
func (s *SQLiteSource) Import(ctx context.Context, c *Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM songs"); err != nil {
		return fmt.Errorf("catalog: clear songs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO songs (
			position, song_id, name, artists, year,
			valence, acousticness, danceability, energy, instrumentalness,
			liveness, loudness, popularity, speechiness, tempo, cluster
		)
		VALUES (?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < c.Len(); i++ {
		song := c.Song(i)
		if _, err := stmt.ExecContext(ctx,
			i,
			song.ID,
			song.Name,
			song.Artists,
			song.Year,
			song.Valence,
			song.Acousticness,
			song.Danceability,
			song.Energy,
			song.Instrumentalness,
			song.Liveness,
			song.Loudness,
			song.Popularity,
			song.Speechiness,
			song.Tempo,
			song.Cluster,
		); err != nil {
			return fmt.Errorf("catalog: insert song %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit import: %w", err)
	}
	return nil
}
