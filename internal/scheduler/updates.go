package scheduler

import (
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/server"
)

// StateUpdate is a validated server response with its task identity removed.
type StateUpdate interface{ isStateUpdate() }

type (
	ArtistsReplaced struct{ Artists []models.Artist }

	// ArtistSearchFailed reports a failed artist search or album listing.
	ArtistSearchFailed struct{}

	SuggestionsReplaced struct {
		Suggestions []models.SearchSuggestion
		Query       string
	}

	SongListLoading struct{}
	SongsFound      struct{}
	NoSongsFound    struct{}

	SongsAppended struct {
		Songs  []models.Song
		Album  string
		Year   string
		Artist string
	}

	SongListLoaded struct{}

	DownloadProgress struct {
		Song   models.ListSongID
		Update server.DownloadUpdate
	}

	Playing     struct{ Song models.ListSongID }
	Paused      struct{ Song models.ListSongID }
	DonePlaying struct{ Song models.ListSongID }
	Stopped     struct{}

	Progress struct {
		Song    models.ListSongID
		Elapsed time.Duration
	}

	VolumeUpdated struct{ Volume models.Percentage }
)

func (ArtistsReplaced) isStateUpdate()     {}
func (ArtistSearchFailed) isStateUpdate()  {}
func (SuggestionsReplaced) isStateUpdate() {}
func (SongListLoading) isStateUpdate()     {}
func (SongsFound) isStateUpdate()          {}
func (NoSongsFound) isStateUpdate()        {}
func (SongsAppended) isStateUpdate()       {}
func (SongListLoaded) isStateUpdate()      {}
func (DownloadProgress) isStateUpdate()    {}
func (Playing) isStateUpdate()             {}
func (Paused) isStateUpdate()              {}
func (DonePlaying) isStateUpdate()         {}
func (Stopped) isStateUpdate()             {}
func (Progress) isStateUpdate()            {}
func (VolumeUpdated) isStateUpdate()       {}

// toStateUpdate strips task identity from resp. TaskFinished has no update.
func toStateUpdate(resp server.Response) (StateUpdate, bool) {
	switch r := resp.(type) {
	case server.ReplaceArtistList:
		return ArtistsReplaced{Artists: r.Artists}, true
	case server.SearchArtistError:
		return ArtistSearchFailed{}, true
	case server.ReplaceSearchSuggestions:
		return SuggestionsReplaced{Suggestions: r.Suggestions, Query: r.Query}, true
	case server.SongListLoading:
		return SongListLoading{}, true
	case server.SongsFound:
		return SongsFound{}, true
	case server.NoSongsFound:
		return NoSongsFound{}, true
	case server.AppendSongList:
		return SongsAppended{Songs: r.Songs, Album: r.Album, Year: r.Year, Artist: r.Artist}, true
	case server.SongListLoaded:
		return SongListLoaded{}, true
	case server.SongDownloadProgress:
		return DownloadProgress{Song: r.Song, Update: r.Update}, true
	case server.VolumeUpdate:
		return VolumeUpdated{Volume: r.Volume}, true
	case server.Playing:
		return Playing{Song: r.Song}, true
	case server.Paused:
		return Paused{Song: r.Song}, true
	case server.DonePlaying:
		return DonePlaying{Song: r.Song}, true
	case server.Stopped:
		return Stopped{}, true
	case server.PlayProgress:
		return Progress{Song: r.Song, Elapsed: r.Elapsed}, true
	default:
		return nil, false
	}
}
