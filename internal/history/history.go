package history

import "time"

// Lookup is a successful city time lookup.
type Lookup struct {
	ID         int64
	SessionID  string
	City       string
	Timezone   string
	UTCLabel   string
	Time       string
	Date       string
	LookedUpAt time.Time
}

// Session is a stopwatch run that was reset or still on the clock at exit.
type Session struct {
	ID        int64
	SessionID string
	StartedAt time.Time
	StoppedAt time.Time
	Elapsed   time.Duration
}
