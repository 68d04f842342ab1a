package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
)

// MockCatalogue is a test double for [services.Catalogue] backed by maps. A nil map entry
// yields [shared.ErrNotFound]. When Gate is set, every call waits for it to be closed or for
// the context to end.
type MockCatalogue struct {
	Artists     map[string][]models.Artist
	Suggestions map[string][]models.SearchSuggestion
	Pages       map[string]*models.ArtistPage
	AlbumLists  map[string][]models.AlbumRef
	Albums      map[string]*models.Album
	Err         error // returned by every call when set
	Gate        chan struct{}

	mu       sync.Mutex
	calls    []string
	canceled int
}

func (m *MockCatalogue) enter(ctx context.Context, call string) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			m.mu.Lock()
			m.canceled++
			m.mu.Unlock()
			return ctx.Err()
		}
	}
	return m.Err
}

// Calls returns the calls made so far, e.g. "search:radiohead".
func (m *MockCatalogue) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Canceled counts calls that returned because their context ended while gated.
func (m *MockCatalogue) Canceled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canceled
}

func (m *MockCatalogue) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	if err := m.enter(ctx, "search:"+query); err != nil {
		return nil, err
	}
	return m.Artists[query], nil
}

func (m *MockCatalogue) GetSearchSuggestions(ctx context.Context, query string) ([]models.SearchSuggestion, error) {
	if err := m.enter(ctx, "suggest:"+query); err != nil {
		return nil, err
	}
	return m.Suggestions[query], nil
}

func (m *MockCatalogue) GetArtist(ctx context.Context, channelID string) (*models.ArtistPage, error) {
	if err := m.enter(ctx, "artist:"+channelID); err != nil {
		return nil, err
	}
	if p, ok := m.Pages[channelID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFound, channelID)
}

func (m *MockCatalogue) GetArtistAlbums(ctx context.Context, browseID, params string) ([]models.AlbumRef, error) {
	if err := m.enter(ctx, "albums:"+browseID); err != nil {
		return nil, err
	}
	if refs, ok := m.AlbumLists[browseID]; ok {
		return refs, nil
	}
	return nil, fmt.Errorf("%w: album list %s", shared.ErrNotFound, browseID)
}

func (m *MockCatalogue) GetAlbum(ctx context.Context, browseID string) (*models.Album, error) {
	if err := m.enter(ctx, "album:"+browseID); err != nil {
		return nil, err
	}
	if a, ok := m.Albums[browseID]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: album %s", shared.ErrNotFound, browseID)
}

// MockMedia is a test double for [services.MediaFetcher]. Audio for a video is delivered in
// Chunks progress steps. With UnknownLength the total is reported as -1.
type MockMedia struct {
	Audio         map[string][]byte
	Chunks        int
	UnknownLength bool

	mu      sync.Mutex
	fetched []string
}

// Fetched returns the video ids requested so far.
func (m *MockMedia) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

func (m *MockMedia) FetchAudio(ctx context.Context, videoID string, progress func(received, total int64)) ([]byte, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, videoID)
	m.mu.Unlock()

	data, ok := m.Audio[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
	}

	chunks := max(m.Chunks, 1)
	size := int64(len(data))
	total := size
	if m.UnknownLength {
		total = -1
	}
	for i := 1; i <= chunks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(size*int64(i)/int64(chunks), total)
		}
	}
	return data, nil
}

// MemoryCache is an in-memory song cache index.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*models.CachedSong
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*models.CachedSong)}
}

func (c *MemoryCache) GetByVideoID(videoID string) (*models.CachedSong, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[videoID]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: video %s is not cached", shared.ErrNotFound, videoID)
}

func (c *MemoryCache) Put(e *models.CachedSong) error {
	if err := e.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.VideoID()] = e
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
