package internal

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickclock/internal/clipboard"
	"clickclock/internal/clock"
	"clickclock/internal/fetch"
	"clickclock/internal/history"
	"clickclock/internal/sched"
	"clickclock/internal/stopwatch"
	"clickclock/internal/timeinfo"
)

type lookupFunc func(ctx context.Context, city string) (timeinfo.Result, error)

func (f lookupFunc) Lookup(ctx context.Context, city string) (timeinfo.Result, error) {
	return f(ctx, city)
}

type harness struct {
	m         *Model
	sched     *sched.Manual
	clipboard *string
	writes    *int
	repo      *history.Repository
}

var dubai = timeinfo.Result{Region: "Asia", City: "Dubai", UTCLabel: "UTC+04:00", Time: "14:00", Date: "2024-01-01"}

func newHarness(t *testing.T, lookup TimeLookup) *harness {
	t.Helper()
	c := clock.NewManual(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	s := sched.NewManual(c)

	var text string
	writes := 0
	fb := clipboard.NewFeedback(clipboard.WriterFunc(func(v string) error {
		writes++
		text = v
		return nil
	}), s, 2*time.Second)

	repo, err := history.Open(":memory:")
	require.NoError(t, err)

	m := NewModel(Deps{
		Lookup:    lookup,
		Feedback:  fb,
		Stopwatch: stopwatch.New(c, s),
		History:   repo,
		Clock:     c,
	})
	t.Cleanup(func() { m.Close() })
	return &harness{m: m, sched: s, clipboard: &text, writes: &writes, repo: repo}
}

func (h *harness) key(t *testing.T, k string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+y":
		msg = tea.KeyMsg{Type: tea.KeyCtrlY}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := h.m.Update(msg)
	return cmd
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	h.m.Update(cmd())
}

func TestWorld_lookupAndCopy(t *testing.T) {
	var asked string
	h := newHarness(t, lookupFunc(func(_ context.Context, city string) (timeinfo.Result, error) {
		asked = city
		return dubai, nil
	}))

	h.key(t, " Dubai ")
	cmd := h.key(t, "enter")
	require.NotNil(t, cmd)
	require.True(t, h.m.Loading)
	h.run(cmd)

	assert.Equal(t, "Dubai", asked)
	require.NotNil(t, h.m.Result)
	assert.False(t, h.m.Loading)
	view := h.m.View()
	for _, want := range []string{"Time in Dubai", "Time: 14:00", "Region: Asia", "Timezone: UTC+04:00", "Date: 2024-01-01", "Copy"} {
		assert.Contains(t, view, want)
	}

	h.key(t, "ctrl+y")
	assert.Equal(t, "Time: 14:00\nRegion: Asia\nTimezone: UTC+04:00\nDate: 2024-01-01", *h.clipboard)
	assert.Contains(t, h.m.View(), "Copied!")

	h.sched.Advance(2 * time.Second)
	assert.NotContains(t, h.m.View(), "Copied!")

	lookups, err := h.repo.RecentLookups(10)
	require.NoError(t, err)
	require.Len(t, lookups, 1)
	assert.Equal(t, "Asia/Dubai", lookups[0].Timezone)
}

func TestWorld_emptyCity(t *testing.T) {
	called := false
	h := newHarness(t, lookupFunc(func(context.Context, string) (timeinfo.Result, error) {
		called = true
		return dubai, nil
	}))
	h.m.Result = &dubai

	cmd := h.key(t, "enter")

	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Nil(t, h.m.Result)
	assert.Equal(t, "Please enter a city name.", h.m.Status)
}

func TestWorld_copyWithoutResult(t *testing.T) {
	h := newHarness(t, lookupFunc(func(context.Context, string) (timeinfo.Result, error) { return dubai, nil }))

	h.key(t, "ctrl+y")

	assert.Zero(t, *h.writes)
	assert.Equal(t, "Nothing to copy: fetch a time first.", h.m.Status)
}

func TestWorld_copyWhileLoading(t *testing.T) {
	h := newHarness(t, lookupFunc(func(context.Context, string) (timeinfo.Result, error) { return dubai, nil }))
	h.key(t, "Dubai")
	h.run(h.key(t, "enter"))
	require.NotNil(t, h.m.Result)

	h.m.Input.SetValue("London")
	cmd := h.key(t, "enter")
	require.NotNil(t, cmd)
	require.True(t, h.m.Loading)
	assert.Nil(t, h.m.Result)

	h.key(t, "ctrl+y")

	assert.Zero(t, *h.writes)
	assert.Empty(t, *h.clipboard)
	assert.Equal(t, "Nothing to copy: fetch a time first.", h.m.Status)
	assert.Contains(t, h.m.View(), "Fetching time...")
}

func TestWorld_errorClearsResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"remote", &fetch.RemoteError{Status: 400, Body: "city 'Atlantis' not found"}, "Remote fetch failed: status 400: city 'Atlantis' not found"},
		{"timezone", fmt.Errorf("%w: %q", timeinfo.ErrMalformedTimezone, "UTC"), `Malformed timezone: "UTC"`},
		{"payload", fmt.Errorf("%w: missing %q", timeinfo.ErrMalformedPayload, "date"), `Malformed payload: missing "date"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, lookupFunc(func(context.Context, string) (timeinfo.Result, error) {
				return timeinfo.Result{}, tc.err
			}))
			h.m.Result = &dubai

			h.key(t, "Atlantis")
			h.run(h.key(t, "enter"))

			assert.Nil(t, h.m.Result)
			assert.Equal(t, tc.want, h.m.Status)
			assert.Contains(t, h.m.View(), "Result Here")
		})
	}
}

func TestWorld_staleLookupDropped(t *testing.T) {
	h := newHarness(t, lookupFunc(func(_ context.Context, city string) (timeinfo.Result, error) {
		if city == "Dubai" {
			return dubai, nil
		}
		return timeinfo.Result{Region: "Europe", City: "London", UTCLabel: "UTC+00:00", Time: "10:00", Date: "2024-01-01"}, nil
	}))

	h.key(t, "Dubai")
	first := h.key(t, "enter")
	h.m.Input.SetValue("London")
	second := h.key(t, "enter")

	h.run(second)
	h.run(first)

	require.NotNil(t, h.m.Result)
	assert.Equal(t, "London", h.m.Result.City)
}

func TestStopwatch_flow(t *testing.T) {
	h := newHarness(t, nil)
	h.key(t, "tab")
	require.Equal(t, ScreenStopwatch, h.m.Screen)
	assert.Contains(t, h.m.View(), "0:00.00")
	assert.Contains(t, h.m.View(), "Start")

	h.key(t, " ")
	h.sched.Advance(61230 * time.Millisecond)
	assert.Contains(t, h.m.View(), "1:01.23")
	assert.Contains(t, h.m.View(), "Pause")

	h.key(t, "s")
	assert.Contains(t, h.m.View(), "Resume")

	h.key(t, "r")
	assert.Contains(t, h.m.View(), "0:00.00")
	assert.Contains(t, h.m.View(), "Start")

	sessions, err := h.repo.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 61230*time.Millisecond, sessions[0].Elapsed)
}

func TestStopwatch_resetWhenZeroIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.key(t, "tab")

	h.key(t, "r")

	sessions, err := h.repo.RecentSessions(10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestHistory_view(t *testing.T) {
	h := newHarness(t, lookupFunc(func(context.Context, string) (timeinfo.Result, error) { return dubai, nil }))
	h.key(t, "Dubai")
	h.run(h.key(t, "enter"))

	h.key(t, "tab")
	h.key(t, "tab")

	require.Equal(t, ScreenHistory, h.m.Screen)
	require.Len(t, h.m.Lookups, 1)
	assert.Contains(t, h.m.View(), "Asia/Dubai")
}

func TestSwitchScreen_logsName(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, nil)
	h.m.logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	h.key(t, "tab")
	h.key(t, "tab")

	assert.Equal(t, "History", ScreenHistory.String())
	assert.Contains(t, buf.String(), "screen=Stopwatch")
	assert.Contains(t, buf.String(), "screen=History")
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.key(t, "esc")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	h.key(t, "tab")
	cmd = h.key(t, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
