// Package player defines the playback [Engine] used by the server and a [Clock]
// implementation that tracks playback position without producing sound.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/desertthunder/ytui/internal/models"
)

var (
	ErrEmptyTrack      = errors.New("player: no audio data")
	ErrInvalidDuration = errors.New("player: track duration must be positive")
)

// Engine plays one track at a time.
type Engine interface {
	// Play replaces the current track. The returned channel receives true if the track
	// plays to the end, or false if it is stopped or replaced, and is then closed.
	Play(data []byte, duration time.Duration) (<-chan bool, error)

	// TogglePause pauses or resumes. ok is false when nothing is loaded.
	TogglePause() (paused, ok bool)

	// Stop ends the current track. It reports whether anything was playing.
	Stop() bool

	// Elapsed is the position within the current track.
	Elapsed() time.Duration

	Volume() models.Percentage

	// AdjustVolume adds delta to the volume, clamping to [0, 100], and returns the result.
	AdjustVolume(delta int) models.Percentage
}

type session struct {
	duration time.Duration
	played   time.Duration // accumulated up to resumed
	resumed  time.Time
	paused   bool
	timer    *time.Timer
	outcome  chan bool
}

func (s *session) elapsed(now time.Time) time.Duration {
	e := s.played
	if !s.paused {
		e += now.Sub(s.resumed)
	}
	return min(e, s.duration)
}

// end reports the outcome once. Callers hold the clock's lock.
func (s *session) end(natural bool) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.outcome <- natural
	close(s.outcome)
}

// Clock is an [Engine] driven by wall-clock timers.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	volume  models.Percentage
	current *session
}

// NewClock returns an idle engine at the given volume.
func NewClock(volume models.Percentage) *Clock {
	return &Clock{now: time.Now, volume: min(volume, 100)}
}

// Play implements [Engine].
func (c *Clock) Play(data []byte, duration time.Duration) (<-chan bool, error) {
	if len(data) == 0 {
		return nil, ErrEmptyTrack
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.end(false)
	}
	s := &session{duration: duration, resumed: c.now(), outcome: make(chan bool, 1)}
	s.timer = time.AfterFunc(duration, func() { c.finish(s) })
	c.current = s
	return s.outcome, nil
}

func (c *Clock) finish(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != s {
		return
	}
	c.current = nil
	s.end(true)
}

// TogglePause implements [Engine].
func (c *Clock) TogglePause() (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.current
	if s == nil {
		return false, false
	}

	now := c.now()
	if s.paused {
		s.paused = false
		s.resumed = now
		s.timer.Reset(s.duration - s.played)
		return false, true
	}

	s.played = s.elapsed(now)
	s.paused = true
	s.timer.Stop()
	return true, true
}

// Stop implements [Engine].
func (c *Clock) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return false
	}
	c.current.end(false)
	c.current = nil
	return true
}

// Elapsed implements [Engine].
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return 0
	}
	return c.current.elapsed(c.now())
}

// Volume implements [Engine].
func (c *Clock) Volume() models.Percentage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// AdjustVolume implements [Engine].
func (c *Clock) AdjustVolume(delta int) models.Percentage {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = models.ClampPercentage(int(c.volume) + delta)
	return c.volume
}
