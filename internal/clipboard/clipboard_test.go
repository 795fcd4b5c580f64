package clipboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clickclock/internal/clipboard"
	"clickclock/internal/sched"
)

func TestSystem_roundTrip(t *testing.T) {
	var sys clipboard.System
	if err := sys.WriteText("probe"); err != nil {
		t.Skipf("no usable system clipboard: %v", err)
	}
	text := "Time: 14:00\nRegion: Asia\nTimezone: UTC+04:00\nDate: 2024-01-01"

	f := clipboard.NewFeedback(sys, sched.Real{}, time.Minute)
	require.NoError(t, f.Copy(text))

	got, err := sys.ReadText()
	require.NoError(t, err)
	require.Equal(t, text, got)
}
