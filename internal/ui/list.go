package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytui/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = songItem{}
	_ list.Item = entryItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string { return i.artist.Subscribers }

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.Album
	if i.song.Year != "" {
		desc = fmt.Sprintf("%s (%s)", desc, i.song.Year)
	}
	if i.song.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Duration)
	}
	return desc
}

// entryItem wraps a playlist [entry] to implement [list.Item].
type entryItem struct {
	e       *entry
	current bool
	state   playState
}

func (i entryItem) FilterValue() string { return i.e.song.Title }

func (i entryItem) Title() string {
	title := i.e.song.Title
	if i.current {
		switch i.state {
		case statePlaying:
			title = "▶ " + title
		case statePaused:
			title = "⏸ " + title
		}
	}
	return title
}

func (i entryItem) Description() string {
	desc := i.e.song.Artist
	if i.e.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.e.song.Album)
	}
	if status := i.e.statusText(); status != "" {
		desc = fmt.Sprintf("%s • %s", desc, status)
	}
	return desc
}
