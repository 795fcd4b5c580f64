package stopwatch

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"clickclock/internal/clock"
	"clickclock/internal/sched"
)

// DefaultTick is the interval at which a running stopwatch recomputes its
// elapsed time.
const DefaultTick = 10 * time.Millisecond

// Engine drives a State from a clock and a periodic tick.
type Engine struct {
	mu     sync.RWMutex
	state  State
	clock  clock.Clock
	sched  sched.Scheduler
	tick   time.Duration
	ticker sched.Handle
	// gen changes whenever the tick source is replaced so a late tick from a
	// stopped source is dropped.
	gen    uint64
	onTick func(time.Duration)
	logger *log.Logger
}

type Option func(*Engine)

func WithTick(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tick = d
		}
	}
}

// WithOnTick registers fn to receive the elapsed time on every tick. fn runs
// without the engine lock held.
func WithOnTick(fn func(time.Duration)) Option {
	return func(e *Engine) { e.onTick = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(c clock.Clock, s sched.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		clock:  c,
		sched:  s,
		tick:   DefaultTick,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOnTick replaces the tick observer.
func (e *Engine) SetOnTick(fn func(time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// Toggle starts a stopped stopwatch and pauses a running one.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Running {
		e.pause()
	} else {
		e.start()
	}
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.start()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pause()
}

// Reset stops the stopwatch and zeroes it. It returns false and does nothing
// when there is nothing to reset.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CanReset() {
		return false
	}
	e.stopTicker()
	e.state = e.state.Reset()
	e.logger.Debug("stopwatch reset")
	return true
}

func (e *Engine) start() {
	if e.state.Running {
		return
	}
	e.state = e.state.Start(e.clock.Now())

	e.gen++
	gen := e.gen
	e.ticker = e.sched.Every(e.tick, func() { e.onTickFired(gen) })
	e.logger.Debug("stopwatch started", "elapsed", e.state.Elapsed)
}

func (e *Engine) pause() {
	if !e.state.Running {
		return
	}
	e.stopTicker()
	e.state = e.state.Pause(e.clock.Now())
	e.logger.Debug("stopwatch paused", "elapsed", e.state.Elapsed)
}

func (e *Engine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	e.gen++
}

func (e *Engine) onTickFired(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || !e.state.Running {
		e.mu.Unlock()
		return
	}
	e.state.Elapsed = e.state.ElapsedAt(e.clock.Now())
	elapsed := e.state.Elapsed
	fn := e.onTick
	e.mu.Unlock()

	if fn != nil {
		fn(elapsed)
	}
}

// Elapsed is the elapsed time right now.
func (e *Engine) Elapsed() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.ElapsedAt(e.clock.Now())
}

func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Running
}

func (e *Engine) Label() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Label()
}

func (e *Engine) CanReset() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.CanReset()
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}
