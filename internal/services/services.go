// package services defines the YouTube Music catalogue and media clients
package services

import (
	"context"

	"github.com/desertthunder/ytui/internal/models"
)

// Catalogue is the read side of YouTube Music used by the browser.
type Catalogue interface {
	// SearchArtists returns artists matching query, best match first.
	SearchArtists(ctx context.Context, query string) ([]models.Artist, error)

	// GetSearchSuggestions returns completions for a partially typed query.
	GetSearchSuggestions(ctx context.Context, query string) ([]models.SearchSuggestion, error)

	// GetArtist fetches an artist's channel page.
	GetArtist(ctx context.Context, channelID string) (*models.ArtistPage, error)

	// GetArtistAlbums lists every album linked from an artist page.
	GetArtistAlbums(ctx context.Context, browseID, params string) ([]models.AlbumRef, error)

	// GetAlbum fetches an album with its tracks.
	GetAlbum(ctx context.Context, browseID string) (*models.Album, error)
}

// ProgressFunc receives the number of bytes received so far and the expected total.
// total is -1 when the server did not announce a length.
type ProgressFunc = func(received, total int64)

// MediaFetcher downloads the audio stream for a video.
type MediaFetcher interface {
	FetchAudio(ctx context.Context, videoID string, progress ProgressFunc) ([]byte, error)
}
