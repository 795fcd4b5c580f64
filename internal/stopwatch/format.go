package stopwatch

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as M:SS.CC, or H:MM:SS.CC from one hour up.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	centis := (ms % 1000) / 10

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
	}
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, centis)
}
