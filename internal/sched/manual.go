package sched

import (
	"sync"
	"time"

	"clickclock/internal/clock"
)

// Manual fires callbacks only when Advance moves its clock past their due
// time. Callbacks run on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	clock  *clock.Manual
	timers []*manualTimer
}

var _ Scheduler = (*Manual)(nil)

func NewManual(c *clock.Manual) *Manual {
	return &Manual{clock: c}
}

type manualTimer struct {
	s       *Manual
	at      time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	return m.add(d, 0, fn)
}

func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	return m.add(interval, interval, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{s: m, at: m.clock.Now().Add(d), period: period, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every callback that falls due
// on the way in time order.
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.timers = m.live()
			m.mu.Unlock()
			m.clock.Advance(target.Sub(m.clock.Now()))
			return
		}
		m.clock.Advance(next.at.Sub(m.clock.Now()))
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) {
			next = t
		}
	}
	return next
}

func (m *Manual) live() []*manualTimer {
	out := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}
