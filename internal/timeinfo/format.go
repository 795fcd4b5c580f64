package timeinfo

import "strings"

// Line is one captioned value of a formatted result.
type Line struct {
	Caption string
	Value   string
}

func (l Line) String() string {
	return l.Caption + ": " + l.Value
}

// DisplayLines are the Time, Region, Timezone and Date lines, in that order.
type DisplayLines []Line

// Strings renders every line as "Caption: Value".
func (d DisplayLines) Strings() []string {
	out := make([]string, len(d))
	for i, l := range d {
		out[i] = l.String()
	}
	return out
}

func Format(r Result) DisplayLines {
	return DisplayLines{
		{Caption: "Time", Value: r.Time},
		{Caption: "Region", Value: r.Region},
		{Caption: "Timezone", Value: r.UTCLabel},
		{Caption: "Date", Value: r.Date},
	}
}

// CopyText is the exact text put on the clipboard for r. It never contains
// styling from the view.
func CopyText(r Result) string {
	return strings.TrimSpace(strings.Join(Format(r).Strings(), "\n"))
}
