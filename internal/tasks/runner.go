package tasks

import (
	"context"
)

// KillableTask is handed to a worker at dispatch time. The worker owns Cancel exclusively.
type KillableTask struct {
	ID     TaskID
	Cancel *CancelReceiver
}

// NewKillableTask pairs an id with its cancellation receiver.
func NewKillableTask(id TaskID, rx *CancelReceiver) KillableTask {
	return KillableTask{ID: id, Cancel: rx}
}

// RunOrKill runs work until it returns or rx fires, whichever comes first.
//
// When rx fires, the work's context is cancelled and RunOrKill returns immediately with the
// receiver's error ([ErrKilled] or [ErrSenderDropped]) without waiting for work to unwind.
// If the work finishes and rx is also ready, cancellation wins and the result is discarded.
// A nil rx never fires.
func RunOrKill[T any](ctx context.Context, rx *CancelReceiver, work func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := rx.Err(); err != nil {
		return zero, err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		val T
		err error
	}
	finished := make(chan result, 1)
	go func() {
		v, err := work(jobCtx)
		finished <- result{v, err}
	}()

	select {
	case <-rx.Done():
		return zero, rx.Err()
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-finished:
		if err := rx.Err(); err != nil {
			return zero, err
		}
		return res.val, res.err
	}
}

// Send emits a single output from a running job.
//
// It returns false without sending if rx has fired or ctx is done. A ready receiver is
// checked before the channel so that a killed task never emits when both are ready.
func Send[T any](ctx context.Context, rx *CancelReceiver, out chan<- T, v T) bool {
	if rx.Err() != nil || ctx.Err() != nil {
		return false
	}
	select {
	case <-rx.Done():
		return false
	case <-ctx.Done():
		return false
	case out <- v:
		return true
	}
}
