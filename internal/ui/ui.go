package ui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/scheduler"
	"github.com/desertthunder/ytui/internal/tasks"
)

// ViewContext is the top-level screen.
type ViewContext int

const (
	BrowserContext ViewContext = iota
	PlaylistContext
)

type browserPane int

const (
	searchPane browserPane = iota
	artistPane
	songPane
)

const progressPoll = 500 * time.Millisecond

// Options tunes a [Model].
type Options struct {
	Tick          time.Duration
	VolumeStep    int
	InitialVolume models.Percentage
}

// Model represents the TUI application state.
type Model struct {
	ctx   context.Context
	sched *scheduler.Scheduler
	opts  Options

	view ViewContext
	pane browserPane

	search      textinput.Model
	suggestions []models.SearchSuggestion
	artists     list.Model
	songs       list.Model
	artistName  string
	loading     bool

	playlist    list.Model
	entries     []*entry
	nextSong    models.ListSongID
	pendingPlay models.ListSongID
	current     models.ListSongID
	state       playState
	elapsed     time.Duration
	lastPoll    time.Time
	volume      models.Percentage

	status string
	width  int
	height int
	help   help.Model
	keys   keyMap
	err    error
}

// NewModel creates a TUI model that issues every request through sched.
func NewModel(ctx context.Context, sched *scheduler.Scheduler, opts Options) *Model {
	if opts.Tick <= 0 {
		opts.Tick = 50 * time.Millisecond
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 5
	}

	search := textinput.New()
	search.Placeholder = "Search artists"
	search.CharLimit = 128
	search.Focus()

	m := &Model{
		ctx:      ctx,
		sched:    sched,
		opts:     opts,
		search:   search,
		artists:  newList("Artists"),
		songs:    newList("Songs"),
		playlist: newList("Playlist"),
		volume:   opts.InitialVolume,
		help:     help.New(),
		keys:     newKeyMap(),
	}
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error { return m.err }

// Init starts the scheduler tick and syncs the volume with the player.
func (m *Model) Init() tea.Cmd {
	m.enqueue(tasks.GetVolume{})
	return tea.Batch(textinput.Blink, tick(m.opts.Tick))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, l := range []*list.Model{&m.artists, &m.songs, &m.playlist} {
			l.SetSize(msg.Width-4, max(msg.Height-10, 4))
		}
		m.search.Width = max(msg.Width-8, 10)
		return m, nil

	case tickMsg:
		return m, m.onTick(time.Time(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.tab) {
			m.toggleView()
			return m, nil
		}
		if m.view == PlaylistContext {
			return m.handlePlaylistKeys(msg)
		}
		return m.handleBrowserKeys(msg)
	}
	return m, nil
}

// onTick admits queued requests and applies the updates drained from the server.
func (m *Model) onTick(now time.Time) tea.Cmd {
	m.sched.ProcessRequests(m.ctx)

	updates, err := m.sched.ProcessMessages()
	for _, u := range updates {
		m.apply(u)
	}
	if err != nil {
		m.err = err
		return tea.Quit
	}

	if m.state == statePlaying && now.Sub(m.lastPoll) >= progressPoll {
		m.lastPoll = now
		m.enqueue(tasks.GetProgress{Song: m.current})
	}
	return tick(m.opts.Tick)
}

func (m *Model) enqueue(req tasks.AppRequest) {
	if !m.sched.Enqueue(req) {
		m.status = "busy, request dropped"
	}
}

func (m *Model) toggleView() {
	if m.view == BrowserContext {
		m.view = PlaylistContext
		m.search.Blur()
		return
	}
	m.view = BrowserContext
	if m.pane == searchPane {
		m.search.Focus()
	}
}

func (m *Model) focusPane(p browserPane) {
	m.pane = p
	if p == searchPane {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
}

func (m *Model) handleBrowserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pane == searchPane {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.focusPane(searchPane)
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.pane == songPane {
			m.focusPane(artistPane)
		} else {
			m.focusPane(searchPane)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.pane {
	case artistPane:
		if key.Matches(msg, m.keys.enter) {
			if it, ok := m.artists.SelectedItem().(artistItem); ok {
				m.artistName = it.artist.Name
				m.enqueue(tasks.GetArtistSongs{ChannelID: it.artist.ChannelID})
				m.focusPane(songPane)
			}
			return m, nil
		}
		m.artists, cmd = m.artists.Update(msg)
	case songPane:
		switch {
		case key.Matches(msg, m.keys.enter):
			if it, ok := m.songs.SelectedItem().(songItem); ok {
				m.queueSongs(it.song)
			}
			return m, nil
		case key.Matches(msg, m.keys.addAll):
			var all []models.Song
			for _, item := range m.songs.Items() {
				all = append(all, item.(songItem).song)
			}
			m.queueSongs(all...)
			return m, nil
		}
		m.songs, cmd = m.songs.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if q := m.search.Value(); q != "" {
			m.enqueue(tasks.SearchArtists{Query: q})
			m.suggestions = nil
			m.focusPane(artistPane)
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		if len(m.artists.Items()) > 0 {
			m.focusPane(artistPane)
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		if q == "" {
			m.suggestions = nil
		} else {
			m.enqueue(tasks.GetSearchSuggestions{Query: q})
		}
	}
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.playlist.SelectedItem().(entryItem); ok {
			m.playEntry(it.e)
		}
		return m, nil
	case key.Matches(msg, m.keys.pause):
		if m.state != stateStopped {
			m.enqueue(tasks.PausePlay{})
		}
		return m, nil
	case key.Matches(msg, m.keys.stop):
		m.pendingPlay = 0
		m.enqueue(tasks.Stop{})
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.skip(1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.skip(-1)
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.reset()
		return m, nil
	case key.Matches(msg, m.keys.volUp):
		m.changeVolume(m.opts.VolumeStep)
		return m, nil
	case key.Matches(msg, m.keys.volDown):
		m.changeVolume(-m.opts.VolumeStep)
		return m, nil
	}

	var cmd tea.Cmd
	m.playlist, cmd = m.playlist.Update(msg)
	return m, cmd
}

// changeVolume updates the displayed volume immediately; the player's answer replaces it.
func (m *Model) changeVolume(delta int) {
	delta = max(min(delta, 127), -128)
	m.volume = models.ClampPercentage(int(m.volume) + delta)
	m.enqueue(tasks.IncreaseVolume{Delta: int8(delta)})
}

// queueSongs appends songs to the playlist. If nothing is playing the first one starts;
// otherwise the new songs are downloaded once they come within reach of the current one.
func (m *Model) queueSongs(songs ...models.Song) {
	if len(songs) == 0 {
		return
	}
	var first *entry
	for _, s := range songs {
		m.nextSong++
		e := &entry{id: m.nextSong, song: s}
		m.entries = append(m.entries, e)
		if first == nil {
			first = e
		}
	}

	if active := m.active(); active != 0 {
		m.downloadUpcoming(active)
	} else {
		m.playEntry(first)
	}
	m.refreshPlaylist()
	m.status = ""
}

// active is the entry being played or waited on, or 0.
func (m *Model) active() models.ListSongID {
	if m.pendingPlay != 0 {
		return m.pendingPlay
	}
	if m.state != stateStopped {
		return m.current
	}
	return 0
}

func (m *Model) indexOf(id models.ListSongID) int {
	return slices.IndexFunc(m.entries, func(e *entry) bool { return e.id == id })
}

// downloadUpcoming starts downloads for id and the entries following it, up to songsToBuffer.
func (m *Model) downloadUpcoming(id models.ListSongID) {
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	for _, e := range m.entries[i:min(i+songsToBuffer, len(m.entries))] {
		if !e.needsDownload() {
			continue
		}
		e.status = downloadQueued
		m.enqueue(tasks.DownloadSong{VideoID: e.song.VideoID, Song: e.id, Info: e.song})
	}
}

// playEntry plays e now if it is downloaded, otherwise once its download completes.
func (m *Model) playEntry(e *entry) {
	m.downloadUpcoming(e.id)
	if e.status == downloadDone {
		m.pendingPlay = 0
		m.enqueue(tasks.PlaySong{Data: e.data, Song: e.id, Duration: e.length()})
		return
	}
	m.pendingPlay = e.id
}

// skip moves playback by offset entries from the active one. It does nothing when stopped or
// when the move leaves the playlist.
func (m *Model) skip(offset int) {
	active := m.active()
	if active == 0 {
		return
	}
	cur := m.indexOf(active)
	if cur < 0 {
		return
	}
	i := cur + offset
	if i < 0 || i >= len(m.entries) {
		m.status = "no more songs"
		return
	}
	m.playEntry(m.entries[i])
	m.refreshPlaylist()
}

// playNext moves on to the entry after the current one.
func (m *Model) playNext() {
	i := m.indexOf(m.current)
	if i < 0 || i+1 >= len(m.entries) {
		return
	}
	m.playEntry(m.entries[i+1])
}

// reset stops playback and empties the playlist. Song ids keep increasing, so late download
// updates for removed entries are ignored.
func (m *Model) reset() {
	m.enqueue(tasks.Stop{})
	m.entries = nil
	m.pendingPlay, m.current = 0, 0
	m.state, m.elapsed = stateStopped, 0
	m.refreshPlaylist()
	m.playlist.Select(0)
}

func (m *Model) entry(id models.ListSongID) *entry {
	for _, e := range m.entries {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (m *Model) refreshPlaylist() {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = entryItem{e: e, current: e.id == m.current, state: m.state}
	}
	m.playlist.SetItems(items)
}

// apply folds one scheduler update into the model.
func (m *Model) apply(u scheduler.StateUpdate) {
	switch u := u.(type) {
	case scheduler.ArtistsReplaced:
		items := make([]list.Item, len(u.Artists))
		for i, a := range u.Artists {
			items[i] = artistItem{artist: a}
		}
		m.artists.SetItems(items)
		m.artists.Select(0)
		if len(items) == 0 {
			m.status = "no artists found"
		} else {
			m.status = ""
		}
	case scheduler.ArtistSearchFailed:
		m.loading = false
		m.status = "search failed"
	case scheduler.SuggestionsReplaced:
		if u.Query == m.search.Value() {
			m.suggestions = u.Suggestions
		}
	case scheduler.SongListLoading:
		m.loading = true
		m.songs.SetItems(nil)
		m.status = ""
	case scheduler.NoSongsFound:
		m.loading = false
		m.status = "no songs found"
	case scheduler.SongsFound:
	case scheduler.SongsAppended:
		for _, s := range u.Songs {
			if s.Album == "" {
				s.Album = u.Album
			}
			m.songs.InsertItem(len(m.songs.Items()), songItem{song: s})
		}
	case scheduler.SongListLoaded:
		m.loading = false
	case scheduler.DownloadProgress:
		e := m.entry(u.Song)
		if e == nil {
			return
		}
		e.applyDownload(u.Update)
		if e.status == downloadDone && m.pendingPlay == e.id {
			m.playEntry(e)
		}
		m.refreshPlaylist()
	case scheduler.Playing:
		m.current, m.state = u.Song, statePlaying
		if m.pendingPlay == u.Song {
			m.pendingPlay = 0
		}
		m.refreshPlaylist()
	case scheduler.Paused:
		m.current, m.state = u.Song, statePaused
		m.refreshPlaylist()
	case scheduler.DonePlaying:
		m.state, m.elapsed = stateStopped, 0
		m.playNext()
		m.refreshPlaylist()
	case scheduler.Stopped:
		m.state, m.elapsed = stateStopped, 0
		m.refreshPlaylist()
	case scheduler.Progress:
		if u.Song == m.current {
			m.elapsed = u.Elapsed
		}
	case scheduler.VolumeUpdated:
		m.volume = u.Volume
	}
}
