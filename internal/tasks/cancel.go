package tasks

import (
	"errors"
)

var (
	// ErrKilled is returned by a receiver that observed an explicit kill signal.
	ErrKilled = errors.New("task killed")
	// ErrSenderDropped is returned by a receiver whose sender was released without signalling.
	ErrSenderDropped = errors.New("task cancel sender dropped")
)

// cancelState is shared by both halves of a pair. killed is written before done is closed,
// so any reader that has observed done sees the final value.
type cancelState struct {
	done   chan struct{}
	killed bool
}

// CancelSender is the half of a cancellation pair owned by the [Registry].
//
// It is single-use: the first call to [CancelSender.Kill] or [CancelSender.Drop] consumes it.
type CancelSender struct {
	st    *cancelState
	spent bool
}

// CancelReceiver is the half of a cancellation pair owned by a dispatched worker.
type CancelReceiver struct {
	st *cancelState
}

// NewCancelPair creates a connected sender/receiver pair.
func NewCancelPair() (*CancelSender, *CancelReceiver) {
	st := &cancelState{done: make(chan struct{})}
	return &CancelSender{st: st}, &CancelReceiver{st: st}
}

// Kill delivers the cancellation signal and reports whether this call consumed the sender.
func (s *CancelSender) Kill() bool {
	if s == nil || s.spent {
		return false
	}
	s.spent = true
	s.st.killed = true
	close(s.st.done)
	return true
}

// Drop releases the sender without a signal. A receiver sees [ErrSenderDropped].
func (s *CancelSender) Drop() bool {
	if s == nil || s.spent {
		return false
	}
	s.spent = true
	close(s.st.done)
	return true
}

// Spent reports whether the sender has been consumed.
func (s *CancelSender) Spent() bool {
	return s == nil || s.spent
}

// Done returns a channel closed once the sender is killed or dropped.
// A nil receiver never fires.
func (r *CancelReceiver) Done() <-chan struct{} {
	if r == nil {
		return nil
	}
	return r.st.done
}

// Killed reports whether an explicit kill signal was delivered.
func (r *CancelReceiver) Killed() bool {
	if r == nil {
		return false
	}
	select {
	case <-r.st.done:
		return r.st.killed
	default:
		return false
	}
}

// Err returns nil while the sender is live, otherwise [ErrKilled] or [ErrSenderDropped].
func (r *CancelReceiver) Err() error {
	if r == nil {
		return nil
	}
	select {
	case <-r.st.done:
		if r.st.killed {
			return ErrKilled
		}
		return ErrSenderDropped
	default:
		return nil
	}
}
