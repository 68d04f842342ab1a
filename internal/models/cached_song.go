package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/ytui/internal/shared"
)

// CachedSong is a downloaded song stored in the local media cache.
//
// UpdatedAt doubles as the last time the song was played; pruning removes the
// entries that have gone unplayed longest.
type CachedSong struct {
	id        string
	song      Song
	path      string
	size      int64
	createdAt time.Time
	updatedAt time.Time
}

var _ Record = (*CachedSong)(nil)

// NewCachedSong creates a cache entry for a song written to path.
func NewCachedSong(song Song, path string, size int64) *CachedSong {
	now := time.Now().UTC()
	return &CachedSong{song: song, path: path, size: size, createdAt: now, updatedAt: now}
}

// RestoreCachedSong rebuilds an entry read from storage.
func RestoreCachedSong(id string, song Song, path string, size int64, createdAt, updatedAt time.Time) *CachedSong {
	return &CachedSong{id: id, song: song, path: path, size: size, createdAt: createdAt, updatedAt: updatedAt}
}

func (c *CachedSong) ID() string           { return c.id }
func (c *CachedSong) VideoID() string      { return c.song.VideoID }
func (c *CachedSong) Song() Song           { return c.song }
func (c *CachedSong) Path() string         { return c.path }
func (c *CachedSong) Size() int64          { return c.size }
func (c *CachedSong) CreatedAt() time.Time { return c.createdAt }
func (c *CachedSong) UpdatedAt() time.Time { return c.updatedAt }

// SetID assigns the storage id.
func (c *CachedSong) SetID(id string) { c.id = id }

// Touch marks the entry as played now.
func (c *CachedSong) Touch() { c.updatedAt = time.Now().UTC() }

// Validate checks required fields.
func (c *CachedSong) Validate() error {
	switch {
	case c.song.VideoID == "":
		return fmt.Errorf("%w: video id is required", shared.ErrInvalidInput)
	case c.song.Title == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	case c.path == "":
		return fmt.Errorf("%w: path is required", shared.ErrInvalidInput)
	case c.size < 0:
		return fmt.Errorf("%w: size must not be negative", shared.ErrInvalidInput)
	}
	return nil
}
