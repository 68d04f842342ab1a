package server

import (
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/tasks"
)

// Request is a unit of work dispatched to the server.
type Request interface{ isRequest() }

type (
	// NewArtistSearch searches for artists.
	NewArtistSearch struct {
		Query string
		Task  tasks.KillableTask
	}

	// GetSearchSuggestions looks up completions for a query.
	GetSearchSuggestions struct {
		Query string
		Task  tasks.KillableTask
	}

	// SearchSelectedArtist loads every album track of an artist.
	SearchSelectedArtist struct {
		ChannelID string
		Task      tasks.KillableTask
	}

	// DownloadSong fetches audio, from the media cache when possible.
	DownloadSong struct {
		VideoID string
		Song    models.ListSongID
		Info    models.Song
		Task    tasks.KillableTask
	}

	// IncreaseVolume changes the volume. It can be blocked but not killed.
	IncreaseVolume struct {
		Delta int8
		Task  tasks.TaskID
	}

	// GetVolume reports the volume.
	GetVolume struct {
		Task tasks.KillableTask
	}

	// PlaySong replaces the current track. Play identifies this play request.
	PlaySong struct {
		Data     []byte
		Song     models.ListSongID
		Duration time.Duration
		Play     tasks.TaskID
	}

	// GetProgress reports the position of Song if it is the current track.
	GetProgress struct {
		Song models.ListSongID
	}

	// Stop stops playback.
	Stop struct{}

	// PausePlay toggles pause.
	PausePlay struct{}
)

func (NewArtistSearch) isRequest()      {}
func (GetSearchSuggestions) isRequest() {}
func (SearchSelectedArtist) isRequest() {}
func (DownloadSong) isRequest()         {}
func (IncreaseVolume) isRequest()       {}
func (GetVolume) isRequest()            {}
func (PlaySong) isRequest()             {}
func (GetProgress) isRequest()          {}
func (Stop) isRequest()                 {}
func (PausePlay) isRequest()            {}

// Response is an event produced by a worker.
type Response interface{ isResponse() }

// Tracked is a response to a registered task. The scheduler discards it once TaskID is no
// longer registered.
type Tracked interface {
	Response
	TaskID() tasks.TaskID
}

// Playback is an event about a specific play request. The scheduler discards it once a newer
// play request has been admitted.
type Playback interface {
	Response
	PlayID() tasks.TaskID
}

type (
	// ReplaceArtistList carries artist search results.
	ReplaceArtistList struct {
		Artists []models.Artist
		Task    tasks.TaskID
	}

	// SearchArtistError reports a failed artist search or album listing.
	SearchArtistError struct {
		Task tasks.TaskID
	}

	// ReplaceSearchSuggestions carries suggestions for Query.
	ReplaceSearchSuggestions struct {
		Suggestions []models.SearchSuggestion
		Query       string
		Task        tasks.TaskID
	}

	// SongListLoading is the first event of an artist song lookup.
	SongListLoading struct{ Task tasks.TaskID }

	// NoSongsFound ends an artist song lookup with no albums.
	NoSongsFound struct{ Task tasks.TaskID }

	// SongsFound announces that albums follow.
	SongsFound struct{ Task tasks.TaskID }

	// AppendSongList carries the tracks of one album.
	AppendSongList struct {
		Songs  []models.Song
		Album  string
		Year   string
		Artist string
		Task   tasks.TaskID
	}

	// SongListLoaded ends an artist song lookup.
	SongListLoaded struct{ Task tasks.TaskID }

	// SongDownloadProgress reports the state of a download.
	SongDownloadProgress struct {
		Update DownloadUpdate
		Song   models.ListSongID
		Task   tasks.TaskID
	}

	// VolumeUpdate reports the volume after a change or query.
	VolumeUpdate struct {
		Volume models.Percentage
		Task   tasks.TaskID
	}

	// TaskFinished acknowledges that a task's job returned and will emit nothing more.
	TaskFinished struct{ Task tasks.TaskID }
)

func (r ReplaceArtistList) TaskID() tasks.TaskID        { return r.Task }
func (r SearchArtistError) TaskID() tasks.TaskID        { return r.Task }
func (r ReplaceSearchSuggestions) TaskID() tasks.TaskID { return r.Task }
func (r SongListLoading) TaskID() tasks.TaskID          { return r.Task }
func (r NoSongsFound) TaskID() tasks.TaskID             { return r.Task }
func (r SongsFound) TaskID() tasks.TaskID               { return r.Task }
func (r AppendSongList) TaskID() tasks.TaskID           { return r.Task }
func (r SongListLoaded) TaskID() tasks.TaskID           { return r.Task }
func (r SongDownloadProgress) TaskID() tasks.TaskID     { return r.Task }
func (r VolumeUpdate) TaskID() tasks.TaskID             { return r.Task }

type (
	// Playing reports that Song started or resumed.
	Playing struct {
		Song models.ListSongID
		Play tasks.TaskID
	}

	// Paused reports that Song was paused.
	Paused struct {
		Song models.ListSongID
		Play tasks.TaskID
	}

	// DonePlaying reports that Song played to the end.
	DonePlaying struct {
		Song models.ListSongID
		Play tasks.TaskID
	}

	// Stopped reports that playback was stopped. It is untagged.
	Stopped struct{}

	// PlayProgress reports the position within Song. It is untagged.
	PlayProgress struct {
		Song    models.ListSongID
		Elapsed time.Duration
	}
)

func (r Playing) PlayID() tasks.TaskID     { return r.Play }
func (r Paused) PlayID() tasks.TaskID      { return r.Play }
func (r DonePlaying) PlayID() tasks.TaskID { return r.Play }

func (ReplaceArtistList) isResponse()        {}
func (SearchArtistError) isResponse()        {}
func (ReplaceSearchSuggestions) isResponse() {}
func (SongListLoading) isResponse()          {}
func (NoSongsFound) isResponse()             {}
func (SongsFound) isResponse()               {}
func (AppendSongList) isResponse()           {}
func (SongListLoaded) isResponse()           {}
func (SongDownloadProgress) isResponse()     {}
func (VolumeUpdate) isResponse()             {}
func (TaskFinished) isResponse()             {}
func (Playing) isResponse()                  {}
func (Paused) isResponse()                   {}
func (DonePlaying) isResponse()              {}
func (Stopped) isResponse()                  {}
func (PlayProgress) isResponse()             {}

// DownloadStage is the phase of a download.
type DownloadStage int

const (
	DownloadStarted DownloadStage = iota
	Downloading
	DownloadCompleted
	DownloadFailed
)

func (s DownloadStage) String() string {
	switch s {
	case DownloadStarted:
		return "started"
	case Downloading:
		return "downloading"
	case DownloadCompleted:
		return "completed"
	case DownloadFailed:
		return "failed"
	default:
		return ""
	}
}

// DownloadUpdate is one step of a download. Percent is set while Downloading; Data once
// Completed.
type DownloadUpdate struct {
	Stage   DownloadStage
	Percent models.Percentage
	Data    []byte
}
