package tasks

import (
	"errors"
	"testing"
)

func TestCancelPair(t *testing.T) {
	t.Run("Kill signals receiver", func(t *testing.T) {
		tx, rx := NewCancelPair()

		if rx.Err() != nil {
			t.Fatalf("expected live receiver, got %v", rx.Err())
		}
		if !tx.Kill() {
			t.Fatal("expected first Kill to consume the sender")
		}

		select {
		case <-rx.Done():
		default:
			t.Fatal("expected Done to be closed after Kill")
		}
		if !rx.Killed() {
			t.Error("expected Killed to be true")
		}
		if !errors.Is(rx.Err(), ErrKilled) {
			t.Errorf("expected ErrKilled, got %v", rx.Err())
		}
	})

	t.Run("Kill is one-shot", func(t *testing.T) {
		tx, _ := NewCancelPair()
		tx.Kill()

		if tx.Kill() {
			t.Error("expected second Kill to be a no-op")
		}
		if tx.Drop() {
			t.Error("expected Drop after Kill to be a no-op")
		}
		if !tx.Spent() {
			t.Error("expected sender to be spent")
		}
	})

	t.Run("Drop is distinguishable from Kill", func(t *testing.T) {
		tx, rx := NewCancelPair()
		tx.Drop()

		select {
		case <-rx.Done():
		default:
			t.Fatal("expected Done to be closed after Drop")
		}
		if rx.Killed() {
			t.Error("expected Killed to be false after Drop")
		}
		if !errors.Is(rx.Err(), ErrSenderDropped) {
			t.Errorf("expected ErrSenderDropped, got %v", rx.Err())
		}
	})

	t.Run("nil halves are inert", func(t *testing.T) {
		var tx *CancelSender
		var rx *CancelReceiver

		if tx.Kill() || tx.Drop() {
			t.Error("expected nil sender to report nothing consumed")
		}
		if rx.Done() != nil {
			t.Error("expected nil receiver to have a nil Done channel")
		}
		if rx.Err() != nil || rx.Killed() {
			t.Error("expected nil receiver to never fire")
		}
	})
}
