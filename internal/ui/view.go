package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
)

// View renders the UI based on the current context.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var body string
	switch m.view {
	case PlaylistContext:
		body = m.renderPlaylist()
	default:
		body = m.renderBrowser()
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", m.renderTabs(), body, m.renderStatus(), m.renderHelp())
}

func (m *Model) renderTabs() string {
	browser, playlist := styles.help.Render("Browser"), styles.help.Render("Playlist")
	if m.view == BrowserContext {
		browser = styles.active.Render("Browser")
	} else {
		playlist = styles.active.Render("Playlist")
	}
	return styles.title.Render("ytui") + "  " + browser + " | " + playlist
}

func (m *Model) renderBrowser() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")
	if len(m.suggestions) > 0 && m.pane == searchPane {
		lines := make([]string, 0, len(m.suggestions))
		for _, s := range m.suggestions {
			var line strings.Builder
			for _, r := range s.Runs {
				if r.Bold {
					line.WriteString(styles.ok.Render(r.Text))
				} else {
					line.WriteString(r.Text)
				}
			}
			lines = append(lines, "  "+line.String())
		}
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	switch m.pane {
	case songPane:
		if m.loading {
			b.WriteString(styles.warn.Render(fmt.Sprintf("Loading songs for %s...", m.artistName)))
			b.WriteString("\n")
		}
		m.songs.Title = fmt.Sprintf("Songs by %s", m.artistName)
		b.WriteString(m.songs.View())
	default:
		b.WriteString(m.artists.View())
	}
	return b.String()
}

func (m *Model) renderPlaylist() string {
	if len(m.entries) == 0 {
		return styles.help.Render("Playlist is empty. Select songs in the browser to queue them.")
	}
	return m.playlist.View()
}

func (m *Model) renderStatus() string {
	var now string
	if e := m.entry(m.current); e != nil && m.state != stateStopped {
		now = fmt.Sprintf("%s %s [%s / %s]", m.state, e.song.Title, formatElapsed(m.elapsed), formatElapsed(e.length()))
	} else {
		now = "stopped"
	}
	line := fmt.Sprintf("%s  •  vol %d%%", now, m.volume)
	if m.status != "" {
		line += "  •  " + styles.warn.Render(m.status)
	}
	return styles.status.Render(line)
}

func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch {
	case m.view == PlaylistContext:
		keys = []key.Binding{m.keys.enter, m.keys.pause, m.keys.stop, m.keys.volUp, m.keys.volDown, m.keys.tab, m.keys.quit}
	case m.pane == searchPane:
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.tab}
	case m.pane == songPane:
		keys = []key.Binding{m.keys.enter, m.keys.addAll, m.keys.back, m.keys.search, m.keys.tab, m.keys.quit}
	default:
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.search, m.keys.tab, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}
