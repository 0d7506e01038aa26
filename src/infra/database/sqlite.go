package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/absra47/song-managment/src/song"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteCatalog is a SQLite implementation of the song.Catalog interface.
// The underlying *sql.DB is a connection pool: every logical operation
// checks out its own connection, so the catalog is safe to share between
// request handlers and detached background tasks.
type SqliteCatalog struct {
	db *sql.DB
}

// NewSqliteCatalog creates a new SqliteCatalog.
func NewSqliteCatalog(path string) (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteCatalog{db: db}, nil
}

// Close releases the connection pool.
func (d *SqliteCatalog) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT,
			genre TEXT,
			release_year INTEGER,
			bpm INTEGER,
			mood TEXT,
			enriched_genre TEXT,
			added_date TEXT,
			modified_date TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title);
		CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist);
	`)
	return err
}

// AddSong inserts a song. A zero id lets SQLite assign the next one; a
// client-supplied id that already exists maps to song.ErrDuplicateID.
func (d *SqliteCatalog) AddSong(ctx context.Context, s *song.Song) (*song.Song, error) {
	if err := s.Validate(); err != nil {
		slog.Error("AddSong: validation failed", "error", err, "title", s.Title)
		return nil, err
	}

	now := time.Now().UTC()
	s.AddedDate = now
	s.ModifiedDate = now

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if s.ID != 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM songs WHERE id = ?)`, s.ID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, song.ErrDuplicateID
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO songs (id, title, artist, album, genre, release_year, bpm, mood, enriched_genre, added_date, modified_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Title, s.Artist, s.Album, s.Genre, s.ReleaseYear,
			s.BPM, s.Mood, s.EnrichedGenre, formatTime(s.AddedDate), formatTime(s.ModifiedDate))
		if err != nil {
			return nil, err
		}
	} else {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO songs (title, artist, album, genre, release_year, bpm, mood, enriched_genre, added_date, modified_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.Title, s.Artist, s.Album, s.Genre, s.ReleaseYear,
			s.BPM, s.Mood, s.EnrichedGenre, formatTime(s.AddedDate), formatTime(s.ModifiedDate))
		if err != nil {
			return nil, err
		}
		s.ID, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSong returns a song by id, or song.ErrNotFound.
func (d *SqliteCatalog) GetSong(ctx context.Context, id int64) (*song.Song, error) {
	row := d.db.QueryRowContext(ctx, selectColumns+` FROM songs WHERE id = ?`, id)
	return scanSong(row)
}

// UpdateSong fully replaces the record identified by s.ID, enriched
// metadata fields included.
func (d *SqliteCatalog) UpdateSong(ctx context.Context, s *song.Song) (*song.Song, error) {
	if err := s.Validate(); err != nil {
		slog.Error("UpdateSong: validation failed", "error", err, "id", s.ID)
		return nil, err
	}

	s.ModifiedDate = time.Now().UTC()

	result, err := d.db.ExecContext(ctx, `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, genre = ?, release_year = ?,
			bpm = ?, mood = ?, enriched_genre = ?, modified_date = ?
		WHERE id = ?
	`, s.Title, s.Artist, s.Album, s.Genre, s.ReleaseYear,
		s.BPM, s.Mood, s.EnrichedGenre, formatTime(s.ModifiedDate), s.ID)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, song.ErrNotFound
	}
	return d.GetSong(ctx, s.ID)
}

// PatchSong applies a partial update of the plain catalog fields in a
// single transaction.
func (d *SqliteCatalog) PatchSong(ctx context.Context, id int64, update song.Update) (*song.Song, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := scanSong(tx.QueryRowContext(ctx, selectColumns+` FROM songs WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		return current, nil
	}

	update.Apply(current)
	current.ModifiedDate = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, genre = ?, release_year = ?, modified_date = ?
		WHERE id = ?
	`, current.Title, current.Artist, current.Album, current.Genre, current.ReleaseYear,
		formatTime(current.ModifiedDate), id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return current, nil
}

// ApplyMetadata writes the set enrichment fields onto the stored song in a
// single transaction. An empty update is a no-op that still returns the
// current record.
func (d *SqliteCatalog) ApplyMetadata(ctx context.Context, id int64, update song.MetadataUpdate) (*song.Song, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := scanSong(tx.QueryRowContext(ctx, selectColumns+` FROM songs WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		return current, nil
	}

	update.Apply(current)
	current.ModifiedDate = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE songs
		SET bpm = ?, mood = ?, enriched_genre = ?, modified_date = ?
		WHERE id = ?
	`, current.BPM, current.Mood, current.EnrichedGenre, formatTime(current.ModifiedDate), id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteSong removes a song by id, or returns song.ErrNotFound.
func (d *SqliteCatalog) DeleteSong(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return song.ErrNotFound
	}
	return nil
}

// GetSongsPaginated returns a page of songs ordered by id.
func (d *SqliteCatalog) GetSongsPaginated(ctx context.Context, limit, offset int) ([]*song.Song, error) {
	rows, err := d.db.QueryContext(ctx,
		selectColumns+` FROM songs ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

// GetSongsCount returns the total number of songs.
func (d *SqliteCatalog) GetSongsCount(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count)
	return count, err
}

// SearchSongs returns a page of songs whose title, artist, album or genre
// contains the query, case-insensitively.
func (d *SqliteCatalog) SearchSongs(ctx context.Context, query string, limit, offset int) ([]*song.Song, error) {
	pattern := "%" + query + "%"
	rows, err := d.db.QueryContext(ctx, selectColumns+`
		FROM songs
		WHERE title LIKE ? OR artist LIKE ? OR album LIKE ? OR genre LIKE ?
		ORDER BY id LIMIT ? OFFSET ?
	`, pattern, pattern, pattern, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSongs(rows)
}

// SearchSongsCount returns the number of songs matching the query.
func (d *SqliteCatalog) SearchSongsCount(ctx context.Context, query string) (int, error) {
	pattern := "%" + query + "%"
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM songs
		WHERE title LIKE ? OR artist LIKE ? OR album LIKE ? OR genre LIKE ?
	`, pattern, pattern, pattern, pattern).Scan(&count)
	return count, err
}

const selectColumns = `SELECT id, title, artist, album, genre, release_year, bpm, mood, enriched_genre, added_date, modified_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*song.Song, error) {
	var s song.Song
	var bpm sql.NullInt64
	var mood, enrichedGenre, addedDate, modifiedDate sql.NullString

	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.ReleaseYear,
		&bpm, &mood, &enrichedGenre, &addedDate, &modifiedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, song.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	if bpm.Valid {
		v := int(bpm.Int64)
		s.BPM = &v
	}
	if mood.Valid {
		s.Mood = &mood.String
	}
	if enrichedGenre.Valid {
		s.EnrichedGenre = &enrichedGenre.String
	}
	s.AddedDate = parseTime(addedDate)
	s.ModifiedDate = parseTime(modifiedDate)

	return &s, nil
}

func scanSongs(rows *sql.Rows) ([]*song.Song, error) {
	var songs []*song.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
