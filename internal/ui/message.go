package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the scheduler. It carries the time of the tick.
type tickMsg time.Time

var _ tea.Msg = tickMsg{}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}
