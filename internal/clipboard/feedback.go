package clipboard

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"clickclock/internal/sched"
)

// DefaultResetAfter is how long the button keeps saying "Copied!".
const DefaultResetAfter = 2 * time.Second

type State int

const (
	Idle State = iota
	Copied
)

func (s State) String() string {
	if s == Copied {
		return "copied"
	}
	return "idle"
}

// Label is the copy button caption for s.
func (s State) Label() string {
	if s == Copied {
		return "Copied!"
	}
	return "Copy"
}

// Feedback copies text and drives the Idle/Copied cycle of the copy button.
// At most one reset is pending at a time; a new copy replaces it.
type Feedback struct {
	mu         sync.Mutex
	writer     Writer
	sched      sched.Scheduler
	resetAfter time.Duration
	state      State
	pending    sched.Handle
	gen        uint64
	onChange   func(State)
	logger     *log.Logger
}

type FeedbackOption func(*Feedback)

// WithOnChange registers fn to be called after every state change, including
// the timed reset. fn runs without the lock held.
func WithOnChange(fn func(State)) FeedbackOption {
	return func(f *Feedback) { f.onChange = fn }
}

func WithLogger(l *log.Logger) FeedbackOption {
	return func(f *Feedback) { f.logger = l }
}

func NewFeedback(w Writer, s sched.Scheduler, resetAfter time.Duration, opts ...FeedbackOption) *Feedback {
	if resetAfter <= 0 {
		resetAfter = DefaultResetAfter
	}
	f := &Feedback{
		writer:     w,
		sched:      s,
		resetAfter: resetAfter,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetOnChange replaces the change observer.
func (f *Feedback) SetOnChange(fn func(State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

func (f *Feedback) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Feedback) Label() string {
	return f.State().Label()
}

// Copy writes text to the clipboard. Blank text returns ErrNothingToCopy
// without touching the clipboard. A failed write returns a *CopyError and
// leaves the state Idle.
func (f *Feedback) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNothingToCopy
	}

	f.mu.Lock()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}

	if err := f.writer.WriteText(text); err != nil {
		f.logger.Warn("clipboard write failed", "err", err)
		changed := f.set(Idle)
		fn := f.onChange
		f.mu.Unlock()
		notify(fn, changed, Idle)
		return &CopyError{Reason: err}
	}

	changed := f.set(Copied)
	f.gen++
	gen := f.gen
	f.pending = f.sched.AfterFunc(f.resetAfter, func() { f.reset(gen) })
	fn := f.onChange
	f.mu.Unlock()

	f.logger.Debug("copied to clipboard", "bytes", len(text), "state", Copied.String())
	notify(fn, changed, Copied)
	return nil
}

func (f *Feedback) reset(gen uint64) {
	f.mu.Lock()
	if f.gen != gen || f.pending == nil {
		f.mu.Unlock()
		return
	}
	f.pending = nil
	changed := f.set(Idle)
	fn := f.onChange
	f.mu.Unlock()

	f.logger.Debug("copy feedback reset", "state", Idle.String())
	notify(fn, changed, Idle)
}

func (f *Feedback) set(s State) bool {
	if f.state == s {
		return false
	}
	f.state = s
	return true
}

func notify(fn func(State), changed bool, s State) {
	if fn != nil && changed {
		fn(s)
	}
}
