package internal

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"clickclock/internal/clipboard"
	"clickclock/internal/clock"
	"clickclock/internal/history"
	"clickclock/internal/stopwatch"
	"clickclock/internal/timeinfo"
)

const historyLimit = 20

type Screen int

const (
	ScreenWorld Screen = iota
	ScreenStopwatch
	ScreenHistory
)

var screenNames = []string{"World", "Stopwatch", "History"}

func (s Screen) String() string {
	return screenNames[s]
}

// TimeLookup fetches the current time in a city.
type TimeLookup interface {
	Lookup(ctx context.Context, city string) (timeinfo.Result, error)
}

// MsgLookupDone carries the outcome of one lookup. Seq identifies the request
// so that only the latest one is shown.
type MsgLookupDone struct {
	Seq    int
	City   string
	Result timeinfo.Result
	Err    error
}

// MsgStopwatchTick is posted by the stopwatch on every tick.
type MsgStopwatchTick struct {
	Elapsed time.Duration
}

// MsgCopyState is posted whenever the copy button changes state.
type MsgCopyState struct {
	State clipboard.State
}

// Deps are the collaborators of the model. History may be nil.
type Deps struct {
	Lookup    TimeLookup
	Feedback  *clipboard.Feedback
	Stopwatch *stopwatch.Engine
	History   *history.Repository
	Clock     clock.Clock
	Logger    *log.Logger
}

type Model struct {
	Screen Screen

	// World screen
	Input   textinput.Model
	Result  *timeinfo.Result
	Status  string
	Loading bool
	seq     int

	// Stopwatch screen
	runStartedAt time.Time

	// History screen
	Lookups       []history.Lookup
	Sessions      []history.Session
	HistoryErr    error
	HistoryScroll int

	lookup    TimeLookup
	feedback  *clipboard.Feedback
	stopwatch *stopwatch.Engine
	repo      *history.Repository
	clock     clock.Clock
	logger    *log.Logger
}

func NewModel(d Deps) *Model {
	input := textinput.New()
	input.Placeholder = "Enter a city name..."
	input.Prompt = "› "
	input.CharLimit = 64
	input.Width = 40
	input.Focus()

	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}

	return &Model{
		Screen:    ScreenWorld,
		Input:     input,
		lookup:    d.Lookup,
		feedback:  d.Feedback,
		stopwatch: d.Stopwatch,
		repo:      d.History,
		clock:     d.Clock,
		logger:    d.Logger,
	}
}

// Bind routes the stopwatch ticks and copy button changes into a running
// program. The copy observer may fire from inside Update, so it never sends
// on the caller's goroutine.
func (m *Model) Bind(send func(tea.Msg)) {
	m.stopwatch.SetOnTick(func(d time.Duration) {
		send(MsgStopwatchTick{Elapsed: d})
	})
	m.feedback.SetOnChange(func(s clipboard.State) {
		go send(MsgCopyState{State: s})
	})
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgLookupDone:
		m.handleLookupDone(msg)
		return m, nil
	case MsgStopwatchTick, MsgCopyState:
		// state is read from the engine and the feedback at render time
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}

	if m.Screen == ScreenWorld {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.Screen {
	case ScreenStopwatch:
		return m.stopwatchView()
	case ScreenHistory:
		return m.historyView()
	default:
		return m.worldView()
	}
}

// CopyText is the text the copy action puts on the clipboard, empty when
// nothing has been fetched.
func (m *Model) CopyText() string {
	if m.Result == nil {
		return ""
	}
	return timeinfo.CopyText(*m.Result)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.switchScreen((m.Screen + 1) % Screen(len(screenNames)))
		return m, nil
	case "shift+tab":
		m.switchScreen((m.Screen + Screen(len(screenNames)) - 1) % Screen(len(screenNames)))
		return m, nil
	}

	switch m.Screen {
	case ScreenStopwatch:
		return m.handleStopwatchInput(msg)
	case ScreenHistory:
		return m.handleHistoryInput(msg)
	default:
		return m.handleWorldInput(msg)
	}
}

func (m *Model) switchScreen(s Screen) {
	m.Screen = s
	m.logger.Debug("switched screen", "screen", s.String())
	if s == ScreenWorld {
		m.Input.Focus()
	} else {
		m.Input.Blur()
	}
	if s == ScreenHistory {
		m.loadHistory()
	}
}

func (m *Model) handleWorldInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		return m, m.submit()
	case "ctrl+y":
		m.copyResult()
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// submit starts a lookup for the typed city. The previous result is dropped
// either way so that nothing stale can be copied while the lookup runs.
func (m *Model) submit() tea.Cmd {
	city := strings.TrimSpace(m.Input.Value())
	if city == "" {
		m.Result = nil
		m.Loading = false
		m.Status = "Please enter a city name."
		return nil
	}

	m.seq++
	seq := m.seq
	m.Result = nil
	m.Loading = true
	m.Status = ""
	lookup := m.lookup
	m.logger.Debug("lookup started", "city", city, "seq", seq)

	return func() tea.Msg {
		r, err := lookup.Lookup(context.Background(), city)
		return MsgLookupDone{Seq: seq, City: city, Result: r, Err: err}
	}
}

func (m *Model) handleLookupDone(msg MsgLookupDone) {
	if msg.Seq != m.seq {
		m.logger.Debug("dropping stale lookup", "city", msg.City, "seq", msg.Seq)
		return
	}
	m.Loading = false

	if msg.Err != nil {
		m.logger.Warn("lookup failed", "city", msg.City, "err", msg.Err)
		m.Result = nil
		m.Status = describeError(msg.Err)
		return
	}

	r := msg.Result
	m.Result = &r
	m.Status = ""

	if m.repo != nil {
		l := &history.Lookup{
			City:       r.City,
			Timezone:   r.Region + "/" + r.City,
			UTCLabel:   r.UTCLabel,
			Time:       r.Time,
			Date:       r.Date,
			LookedUpAt: m.clock.Now(),
		}
		if err := m.repo.SaveLookup(l); err != nil {
			m.logger.Error("saving lookup", "err", err)
		}
	}
}

func (m *Model) copyResult() {
	if err := m.feedback.Copy(m.CopyText()); err != nil {
		m.Status = describeError(err)
		return
	}
	m.Status = ""
}

func (m *Model) handleStopwatchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ", "s", "enter":
		if !m.stopwatch.Running() && !m.stopwatch.CanReset() {
			m.runStartedAt = m.clock.Now()
		}
		m.stopwatch.Toggle()
	case "r":
		m.resetStopwatch()
	}
	return m, nil
}

// resetStopwatch zeroes the stopwatch and records the run that ended.
func (m *Model) resetStopwatch() {
	elapsed := m.stopwatch.Elapsed()
	if !m.stopwatch.Reset() {
		return
	}
	m.saveSession(elapsed)
	m.runStartedAt = time.Time{}
}

func (m *Model) saveSession(elapsed time.Duration) {
	if m.repo == nil || elapsed <= 0 {
		return
	}
	s := &history.Session{
		StartedAt: m.runStartedAt,
		StoppedAt: m.clock.Now(),
		Elapsed:   elapsed,
	}
	if err := m.repo.SaveSession(s); err != nil {
		m.logger.Error("saving stopwatch session", "err", err)
	}
}

func (m *Model) handleHistoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.HistoryScroll > 0 {
			m.HistoryScroll--
		}
	case "down", "j":
		maxScroll := max(len(m.Lookups)+len(m.Sessions)-1, 0)
		if m.HistoryScroll < maxScroll {
			m.HistoryScroll++
		}
	case "R":
		m.loadHistory()
	}
	return m, nil
}

func (m *Model) loadHistory() {
	m.HistoryScroll = 0
	m.Lookups, m.Sessions, m.HistoryErr = nil, nil, nil
	if m.repo == nil {
		return
	}

	lookups, err := m.repo.RecentLookups(historyLimit)
	if err != nil {
		m.HistoryErr = err
		m.logger.Error("loading lookups", "err", err)
		return
	}
	sessions, err := m.repo.RecentSessions(historyLimit)
	if err != nil {
		m.HistoryErr = err
		m.logger.Error("loading stopwatch sessions", "err", err)
		return
	}
	m.Lookups, m.Sessions = lookups, sessions
}

// Close pauses the stopwatch, records an unfinished run and closes the
// history store.
func (m *Model) Close() error {
	m.stopwatch.Pause()
	if m.stopwatch.CanReset() {
		m.saveSession(m.stopwatch.Elapsed())
	}
	if m.repo != nil {
		return m.repo.Close()
	}
	return nil
}

// describeError turns an error into the status line text.
func describeError(err error) string {
	if errors.Is(err, clipboard.ErrNothingToCopy) {
		return "Nothing to copy: fetch a time first."
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
