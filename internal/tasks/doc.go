// Package tasks holds the building blocks of request scheduling: task identity, the
// cancellation token pair, the cancellable job runner, the category policy table and the
// task registry.
//
// # Cancellation
//
// [NewCancelPair] creates a one-shot pair. The [Registry] keeps the [CancelSender]; the worker
// that performs the request receives the [CancelReceiver] inside a [KillableTask].
// Killing sends an explicit signal ([ErrKilled]); blocking drops the sender ([ErrSenderDropped]).
// Both abort [RunOrKill].
//
// # Jobs
//
// [RunOrKill] races a unit of work against its receiver. Cancellation wins ties.
// Multi-stage jobs emit each output with [Send], which refuses to emit once the receiver fired.
// Outputs already emitted are not retracted; the scheduler discards them when their task is
// no longer registered.
//
// # Policies
//
// Every [AppRequest] maps to a [RequestCategory] and [PolicyFor] maps a category to the
// categories it blocks and kills on admission:
//
//   - Search, SuggestionLookup, MetadataFetch : kill older tasks of the same category
//   - Download : no supersession
//   - VolumeChange : block VolumeChange, kill VolumeQuery
//   - VolumeQuery : block VolumeChange, kill VolumeQuery
//   - Unkillable : never tracked
package tasks
