// Package server runs the workers behind the scheduler.
//
// [Server.Run] consumes [Request] values and routes each to one of three handlers:
//
//   - api: catalogue lookups through a [services.Catalogue]
//   - downloader: audio downloads through a [services.MediaFetcher], backed by the media cache
//   - player: playback through a [player.Engine], handled in order by a single goroutine
//
// Every handler reports back on the single response channel given to [New]. Responses produced
// for a tracked task carry its [tasks.TaskID]; playback events carry the id of the play request
// they belong to; the remaining events are untagged.
//
// Killable jobs run under [tasks.RunOrKill] and gate each emission with [tasks.Send], so a
// killed or blocked job stops emitting. A job that returns normally is acknowledged with
// [TaskFinished] after its last emission, which lets the scheduler forget the task.
//
// When the context passed to Run is cancelled or the request channel is closed, Run waits for
// its workers and closes the response channel.
package server
