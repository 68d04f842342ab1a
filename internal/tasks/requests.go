package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/ytui/internal/models"
)

// AppRequest is a request issued by the presentation layer.
//
// The set of implementations is closed; each variant carries exactly the data its worker needs.
type AppRequest interface {
	Category() RequestCategory
	fmt.Stringer
	appRequest()
}

// SearchArtists searches the catalogue for artists matching Query.
type SearchArtists struct{ Query string }

// GetSearchSuggestions fetches completions for a partially typed query.
type GetSearchSuggestions struct{ Query string }

// GetArtistSongs fetches every album track of an artist.
type GetArtistSongs struct{ ChannelID string }

// DownloadSong fetches a song's audio into the media cache. Info describes the song for the
// cache index and may be left empty.
type DownloadSong struct {
	VideoID string
	Song    models.ListSongID
	Info    models.Song
}

// IncreaseVolume nudges the volume by a signed delta.
type IncreaseVolume struct{ Delta int8 }

// GetVolume queries the current volume.
type GetVolume struct{}

// PlaySong starts playback of downloaded audio.
type PlaySong struct {
	Data     []byte
	Song     models.ListSongID
	Duration time.Duration
}

// GetProgress queries playback progress of the current song.
type GetProgress struct{ Song models.ListSongID }

// Stop stops playback.
type Stop struct{}

// PausePlay toggles between paused and playing.
type PausePlay struct{}

func (SearchArtists) Category() RequestCategory        { return Search }
func (GetSearchSuggestions) Category() RequestCategory { return SuggestionLookup }
func (GetArtistSongs) Category() RequestCategory       { return MetadataFetch }
func (DownloadSong) Category() RequestCategory         { return Download }
func (IncreaseVolume) Category() RequestCategory       { return VolumeChange }
func (GetVolume) Category() RequestCategory            { return VolumeQuery }
func (PlaySong) Category() RequestCategory             { return Unkillable }
func (GetProgress) Category() RequestCategory          { return Unkillable }
func (Stop) Category() RequestCategory                 { return Unkillable }
func (PausePlay) Category() RequestCategory            { return Unkillable }

func (r SearchArtists) String() string        { return fmt.Sprintf("search_artists(%q)", r.Query) }
func (r GetSearchSuggestions) String() string { return fmt.Sprintf("get_search_suggestions(%q)", r.Query) }
func (r GetArtistSongs) String() string       { return fmt.Sprintf("get_artist_songs(%s)", r.ChannelID) }
func (r DownloadSong) String() string         { return fmt.Sprintf("download_song(%s, song=%d)", r.VideoID, r.Song) }
func (r IncreaseVolume) String() string       { return fmt.Sprintf("increase_volume(%+d)", r.Delta) }
func (GetVolume) String() string              { return "get_volume" }
func (r PlaySong) String() string             { return fmt.Sprintf("play_song(song=%d, %d bytes)", r.Song, len(r.Data)) }
func (r GetProgress) String() string          { return fmt.Sprintf("get_progress(song=%d)", r.Song) }
func (Stop) String() string                   { return "stop" }
func (PausePlay) String() string              { return "pause_play" }

func (SearchArtists) appRequest()        {}
func (GetSearchSuggestions) appRequest() {}
func (GetArtistSongs) appRequest()       {}
func (DownloadSong) appRequest()         {}
func (IncreaseVolume) appRequest()       {}
func (GetVolume) appRequest()            {}
func (PlaySong) appRequest()             {}
func (GetProgress) appRequest()          {}
func (Stop) appRequest()                 {}
func (PausePlay) appRequest()            {}
