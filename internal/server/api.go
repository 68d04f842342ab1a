package server

import (
	"context"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/services"
	"golang.org/x/sync/errgroup"
)

// api handles catalogue requests.
type api struct {
	srv         *Server
	catalogue   services.Catalogue
	concurrency int
}

func (a *api) searchArtists(ctx context.Context, r NewArtistSearch) error {
	artists, err := a.catalogue.SearchArtists(ctx, r.Query)
	if err != nil {
		a.srv.logger.Warn("artist search failed", "query", r.Query, "err", err)
		a.srv.emit(ctx, r.Task.Cancel, SearchArtistError{Task: r.Task.ID})
		return nil
	}
	a.srv.emit(ctx, r.Task.Cancel, ReplaceArtistList{Artists: artists, Task: r.Task.ID})
	return nil
}

// searchSuggestions emits nothing on failure; the box keeps its previous suggestions.
func (a *api) searchSuggestions(ctx context.Context, r GetSearchSuggestions) error {
	suggestions, err := a.catalogue.GetSearchSuggestions(ctx, r.Query)
	if err != nil {
		a.srv.logger.Warn("search suggestions failed", "query", r.Query, "err", err)
		return nil
	}
	a.srv.emit(ctx, r.Task.Cancel, ReplaceSearchSuggestions{Suggestions: suggestions, Query: r.Query, Task: r.Task.ID})
	return nil
}

// artistSongs emits SongListLoading, then either a terminal NoSongsFound or
// SearchArtistError, or SongsFound, one AppendSongList per album and SongListLoaded.
func (a *api) artistSongs(ctx context.Context, r SearchSelectedArtist) error {
	rx, id := r.Task.Cancel, r.Task.ID
	if !a.srv.emit(ctx, rx, SongListLoading{Task: id}) {
		return nil
	}

	page, err := a.catalogue.GetArtist(ctx, r.ChannelID)
	if err != nil {
		a.srv.logger.Warn("artist lookup failed", "channel", r.ChannelID, "err", err)
		a.srv.emit(ctx, rx, NoSongsFound{Task: id})
		return nil
	}
	if !page.HasAlbums() {
		a.srv.emit(ctx, rx, NoSongsFound{Task: id})
		return nil
	}

	refs, err := a.catalogue.GetArtistAlbums(ctx, page.AlbumsBrowseID, page.AlbumsParams)
	if err != nil {
		a.srv.logger.Warn("album listing failed", "channel", r.ChannelID, "err", err)
		a.srv.emit(ctx, rx, SearchArtistError{Task: id})
		return nil
	}

	if !a.srv.emit(ctx, rx, SongsFound{Task: id}) {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			album, err := a.catalogue.GetAlbum(gctx, ref.BrowseID)
			if err != nil {
				a.srv.logger.Warn("album fetch failed", "album", ref.BrowseID, "err", err)
				return nil
			}
			year := album.Year
			if year == "" {
				year = ref.Year
			}
			songs := make([]models.Song, len(album.Tracks))
			for i, s := range album.Tracks {
				s.Artist, s.Year = page.Name, year
				songs[i] = s
			}
			a.srv.emit(gctx, rx, AppendSongList{Songs: songs, Album: album.Title, Year: year, Artist: page.Name, Task: id})
			return nil
		})
	}
	g.Wait()

	a.srv.emit(ctx, rx, SongListLoaded{Task: id})
	return nil
}
