// Package scheduler admits presentation-layer requests, applies the category supersession
// policies from package tasks, dispatches work to the server and filters the server's
// responses so only results of still-valid tasks reach the UI.
//
// A [Scheduler] is owned by a single goroutine (the UI's tick). Only [Scheduler.Enqueue] and
// the channel returned by [Scheduler.Sender] may be used from elsewhere.
package scheduler
