package models

import (
	"fmt"
	"strings"
)

// ListSongID identifies a song within the UI's song lists. It is local to the UI and never reused.
type ListSongID int

// Percentage is a whole-number percentage in [0, 100].
type Percentage uint8

// ClampPercentage converts any integer into a [Percentage], clamping to [0, 100].
func ClampPercentage(v int) Percentage {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return Percentage(v)
}

// TextRun is a fragment of text with emphasis, as returned by search suggestions.
type TextRun struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// SearchSuggestion is one suggestion line.
type SearchSuggestion struct {
	Runs []TextRun `json:"runs"`
}

// Text joins the runs without emphasis.
func (s SearchSuggestion) Text() string {
	var b strings.Builder
	for _, r := range s.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Artist is an artist search result.
type Artist struct {
	ChannelID   string `json:"channel_id"`
	Name        string `json:"name"`
	Subscribers string `json:"subscribers,omitempty"`
}

// ArtistPage is an artist's browse page reduced to what is needed to list their albums.
type ArtistPage struct {
	ChannelID      string `json:"channel_id"`
	Name           string `json:"name"`
	AlbumsBrowseID string `json:"albums_browse_id,omitempty"`
	AlbumsParams   string `json:"albums_params,omitempty"`
}

// HasAlbums reports whether the page links to a full album listing.
func (a ArtistPage) HasAlbums() bool {
	return a.AlbumsBrowseID != "" && a.AlbumsParams != ""
}

// AlbumRef is an entry of an artist's album listing.
type AlbumRef struct {
	BrowseID string `json:"browse_id"`
	Title    string `json:"title"`
	Year     string `json:"year,omitempty"`
}

// Album is a fully fetched album.
type Album struct {
	BrowseID string `json:"browse_id"`
	Title    string `json:"title"`
	Year     string `json:"year,omitempty"`
	Tracks   []Song `json:"tracks"`
}

// Song is a playable track.
type Song struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Album    string `json:"album,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Year     string `json:"year,omitempty"`
	Duration string `json:"duration,omitempty"` // "m:ss" as displayed by the catalogue
	TrackNo  int    `json:"track_no,omitempty"`
}

// DurationSeconds parses Duration ("m:ss" or "h:mm:ss"). Unparseable values yield 0.
func (s Song) DurationSeconds() int {
	if s.Duration == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(s.Duration, ":") {
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
