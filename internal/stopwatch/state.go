// Package stopwatch is a start/pause/reset stopwatch with centisecond display.
package stopwatch

import "time"

// State is a stopwatch at one instant. Transitions return a new State and
// never modify the receiver.
type State struct {
	Elapsed time.Duration
	Running bool
	// Anchor is now-Elapsed at the moment the stopwatch last started. It is
	// only meaningful while Running.
	Anchor time.Time
	// Resumed is set once the stopwatch has been paused.
	Resumed bool
}

// Start begins or resumes counting from s.Elapsed. It is a no-op while running.
func (s State) Start(now time.Time) State {
	if s.Running {
		return s
	}
	s.Running = true
	s.Anchor = now.Add(-s.Elapsed)
	return s
}

// Pause freezes the elapsed time. It is a no-op while stopped.
func (s State) Pause(now time.Time) State {
	if !s.Running {
		return s
	}
	s.Elapsed = s.ElapsedAt(now)
	s.Running = false
	s.Anchor = time.Time{}
	s.Resumed = true
	return s
}

func (s State) Reset() State {
	return State{}
}

// ElapsedAt is the elapsed time as seen at now.
func (s State) ElapsedAt(now time.Time) time.Duration {
	if !s.Running {
		return s.Elapsed
	}
	d := now.Sub(s.Anchor)
	if d < 0 {
		return 0
	}
	return d
}

// Label is the caption of the start/pause button.
func (s State) Label() string {
	switch {
	case s.Running:
		return "Pause"
	case s.Resumed:
		return "Resume"
	default:
		return "Start"
	}
}

// CanReset reports whether there is anything to reset.
func (s State) CanReset() bool {
	return s.Running || s.Elapsed > 0
}
