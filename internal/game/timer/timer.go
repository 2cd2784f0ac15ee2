// Package timer implements the per-round countdown. One Timer serves
// the whole game; starting a round invalidates any countdown left over
// from a previous one, so at most one live countdown exists at a time.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quizmasters/rupee-rumble/internal/cues"
)

// TierFor maps remaining whole seconds to an urgency tier.
func TierFor(remaining int) cues.Tier {
	switch {
	case remaining > 20:
		return cues.TierNormal
	case remaining > 10:
		return cues.TierCaution
	default:
		return cues.TierUrgent
	}
}

// Timer counts down from a configured duration in whole seconds.
// It publishes started/tick/expired cues and invokes the expiry
// callback exactly once per countdown. Remaining is never negative.
type Timer struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	sink      cues.Sink
	onExpire  func()
	duration  int
	remaining int
	active    bool
	gen       int
	done      chan struct{}
}

// New creates an idle timer. onExpire runs on the countdown goroutine
// when the counter reaches zero; it is never called after Stop.
func New(clock clockwork.Clock, durationSec int, sink cues.Sink, onExpire func()) *Timer {
	if sink == nil {
		sink = cues.NopSink{}
	}
	return &Timer{
		clock:     clock,
		sink:      sink,
		onExpire:  onExpire,
		duration:  durationSec,
		remaining: durationSec,
	}
}

// Start begins the countdown from the full duration. No-op while a
// countdown is already running.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.gen++
	gen := t.gen
	t.remaining = t.duration
	t.active = true
	t.done = make(chan struct{})
	duration := t.duration
	done := t.done
	t.mu.Unlock()

	t.sink.TimerStarted(duration)
	go t.run(gen, done)
}

func (t *Timer) run(gen int, done chan struct{}) {
	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
		}

		t.mu.Lock()
		if !t.active || t.gen != gen {
			t.mu.Unlock()
			return
		}
		t.remaining--
		remaining := t.remaining
		expired := remaining <= 0
		if expired {
			t.remaining = 0
			t.active = false
		}
		t.mu.Unlock()

		if expired {
			t.sink.TimerExpired()
			if t.onExpire != nil {
				t.onExpire()
			}
			return
		}
		t.sink.TimerTick(remaining, TierFor(remaining))
	}
}

// Stop cancels a running countdown without firing the expiry callback.
// The caller decides what a manual stop means for the round.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.active = false
	t.gen++
	close(t.done)
}

// Reset cancels any countdown and restores the full duration.
func (t *Timer) Reset() {
	t.Stop()
	t.mu.Lock()
	t.remaining = t.duration
	t.mu.Unlock()
}

// SetDuration changes the configured duration. Ignored while the
// countdown is running; resizing mid-flight is not supported.
func (t *Timer) SetDuration(durationSec int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active || durationSec <= 0 {
		return
	}
	t.duration = durationSec
	t.remaining = durationSec
}

// Duration returns the configured countdown length in seconds.
func (t *Timer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Remaining returns the seconds left on the counter.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
