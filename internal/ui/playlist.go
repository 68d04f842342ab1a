package ui

import (
	"fmt"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/server"
)

type downloadStatus int

const (
	downloadIdle downloadStatus = iota
	downloadQueued
	downloadRunning
	downloadDone
	downloadFailed
)

type playState int

const (
	stateStopped playState = iota
	statePlaying
	statePaused
)

func (s playState) String() string {
	switch s {
	case statePlaying:
		return "playing"
	case statePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// defaultTrackLength is used when the catalogue gives no parseable duration.
const defaultTrackLength = 3 * time.Minute

// songsToBuffer is how many entries, starting at the one being played, are kept downloaded.
const songsToBuffer = 3

// entry is one song in the playlist.
type entry struct {
	id      models.ListSongID
	song    models.Song
	status  downloadStatus
	percent models.Percentage
	data    []byte
}

func (e *entry) statusText() string {
	switch e.status {
	case downloadRunning:
		return fmt.Sprintf("downloading %d%%", e.percent)
	case downloadDone:
		return "ready"
	case downloadFailed:
		return "download failed"
	case downloadQueued:
		return "queued"
	default:
		return ""
	}
}

func (e *entry) length() time.Duration {
	if secs := e.song.DurationSeconds(); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultTrackLength
}

// applyDownload folds a download update into the entry.
func (e *entry) applyDownload(u server.DownloadUpdate) {
	switch u.Stage {
	case server.DownloadStarted:
		e.status, e.percent = downloadRunning, 0
	case server.Downloading:
		e.status, e.percent = downloadRunning, u.Percent
	case server.DownloadCompleted:
		e.status, e.percent, e.data = downloadDone, 100, u.Data
	case server.DownloadFailed:
		e.status = downloadFailed
	}
}

// needsDownload reports whether no download of e is pending or finished.
func (e *entry) needsDownload() bool {
	return e.status == downloadIdle || e.status == downloadFailed
}
