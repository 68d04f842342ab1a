// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two contexts, switched with tab:
//  1. [BrowserContext] : search box with live suggestions, artist results and an artist's songs
//  2. [PlaylistContext] : queued songs with download status, playback state and volume
//
// The [Model] never calls the catalogue or the player directly. Every action is queued on the
// [scheduler.Scheduler]; a periodic tick admits queued requests and applies the validated
// updates the scheduler drains from the server. A terminal scheduler error ends the program.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
