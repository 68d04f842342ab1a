package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
)

const songColumns = `id, video_id, title, artist, album, year, duration, path, size_bytes, created_at, last_played_at`

// SongCacheRepository implements [models.Repository] for [models.CachedSong].
type SongCacheRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedSong] = (*SongCacheRepository)(nil)

// NewSongCacheRepository creates a new [SongCacheRepository] with the given database connection
func NewSongCacheRepository(db *sql.DB) *SongCacheRepository {
	return &SongCacheRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (*models.CachedSong, error) {
	var (
		id, path            string
		song                models.Song
		size                int64
		createdAt, playedAt time.Time
	)
	err := row.Scan(&id, &song.VideoID, &song.Title, &song.Artist, &song.Album, &song.Year, &song.Duration,
		&path, &size, &createdAt, &playedAt)
	if err != nil {
		return nil, err
	}
	return models.RestoreCachedSong(id, song, path, size, createdAt, playedAt), nil
}

// Create inserts a new entry with a generated ID.
func (r *SongCacheRepository) Create(c *models.CachedSong) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c.SetID(shared.GenerateID())
	s := c.Song()
	_, err := r.db.Exec(`INSERT INTO songs_cache (`+songColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID(), s.VideoID, s.Title, s.Artist, s.Album, s.Year, s.Duration, c.Path(), c.Size(), c.CreatedAt(), c.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert cached song: %w", err)
	}
	return nil
}

// Put inserts c, or replaces the entry with the same video id keeping its ID and creation time.
func (r *SongCacheRepository) Put(c *models.CachedSong) error {
	existing, err := r.GetByVideoID(c.VideoID())
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return r.Create(c)
	case err != nil:
		return err
	}
	c.SetID(existing.ID())
	return r.Update(c)
}

// Get retrieves an entry by ID.
func (r *SongCacheRepository) Get(id string) (*models.CachedSong, error) {
	c, err := scanSong(r.db.QueryRow(`SELECT `+songColumns+` FROM songs_cache WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cached song %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached song: %w", err)
	}
	return c, nil
}

// GetByVideoID retrieves the entry for a video.
func (r *SongCacheRepository) GetByVideoID(videoID string) (*models.CachedSong, error) {
	c, err := scanSong(r.db.QueryRow(`SELECT `+songColumns+` FROM songs_cache WHERE video_id = ?`, videoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: video %s is not cached", shared.ErrNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached song: %w", err)
	}
	return c, nil
}

// Update rewrites an existing entry and marks it played now.
func (r *SongCacheRepository) Update(c *models.CachedSong) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c.Touch()
	s := c.Song()
	result, err := r.db.Exec(`
		UPDATE songs_cache
		SET video_id = ?, title = ?, artist = ?, album = ?, year = ?, duration = ?, path = ?, size_bytes = ?, last_played_at = ?
		WHERE id = ?`,
		s.VideoID, s.Title, s.Artist, s.Album, s.Year, s.Duration, c.Path(), c.Size(), c.UpdatedAt(), c.ID())
	if err != nil {
		return fmt.Errorf("failed to update cached song: %w", err)
	}
	return requireRow(result, c.ID())
}

// MarkPlayed bumps the last played time of a video.
func (r *SongCacheRepository) MarkPlayed(videoID string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE songs_cache SET last_played_at = ? WHERE video_id = ?`, at.UTC(), videoID)
	if err != nil {
		return fmt.Errorf("failed to update cached song: %w", err)
	}
	return requireRow(result, videoID)
}

// Delete removes an entry by ID.
func (r *SongCacheRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM songs_cache WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cached song: %w", err)
	}
	return requireRow(result, id)
}

// List retrieves entries, most recently played first.
//
// Supported criteria: "artist" (exact match), "limit" (int).
func (r *SongCacheRepository) List(criteria map[string]any) ([]*models.CachedSong, error) {
	query := `SELECT ` + songColumns + ` FROM songs_cache WHERE 1 = 1`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY last_played_at DESC, created_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.query(query, args...)
}

// Prune removes entries not played since before and returns them so their files can be removed.
func (r *SongCacheRepository) Prune(before time.Time) ([]*models.CachedSong, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT `+songColumns+` FROM songs_cache WHERE last_played_at < ? ORDER BY last_played_at`, before.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query stale songs: %w", err)
	}
	stale, err := collect(rows)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`DELETE FROM songs_cache WHERE last_played_at < ?`, before.UTC()); err != nil {
		return nil, fmt.Errorf("failed to prune cached songs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit prune: %w", err)
	}
	return stale, nil
}

// TotalSize sums the size of all cached files.
func (r *SongCacheRepository) TotalSize() (int64, error) {
	var total int64
	if err := r.db.QueryRow(`SELECT COALESCE(SUM(size_bytes), 0) FROM songs_cache`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum cache size: %w", err)
	}
	return total, nil
}

func (r *SongCacheRepository) query(query string, args ...any) ([]*models.CachedSong, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached songs: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]*models.CachedSong, error) {
	defer rows.Close()

	var songs []*models.CachedSong
	for rows.Next() {
		c, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached song: %w", err)
		}
		songs = append(songs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return songs, nil
}

func requireRow(result sql.Result, key string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: cached song %s", shared.ErrNotFound, key)
	}
	return nil
}
