// Package timeinfo turns the time service payload into the result shown to
// the user and the text placed on the clipboard.
package timeinfo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Raw is the payload returned by GET /time.
type Raw struct {
	Timezone  string `json:"timezone"`
	UTCOffset string `json:"utc_offset"`
	Time      string `json:"time"`
	Date      string `json:"date"`
}

// Result is a parsed Raw with the timezone split into region and city.
type Result struct {
	Region   string
	City     string
	UTCLabel string
	Time     string
	Date     string
}

var requiredFields = []string{"timezone", "utc_offset", "time", "date"}

// Parse validates a raw response body and builds a Result from it.
func Parse(body []byte) (Result, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if obj == nil {
		return Result{}, fmt.Errorf("%w: not an object", ErrMalformedPayload)
	}

	fields := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		v, ok := obj[name]
		if !ok {
			return Result{}, fmt.Errorf("%w: missing %q", ErrMalformedPayload, name)
		}
		s, ok := v.(string)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q is not a string", ErrMalformedPayload, name)
		}
		fields[name] = s
	}

	return FromRaw(Raw{
		Timezone:  fields["timezone"],
		UTCOffset: fields["utc_offset"],
		Time:      fields["time"],
		Date:      fields["date"],
	})
}

// FromRaw builds a Result from an already decoded payload.
func FromRaw(raw Raw) (Result, error) {
	for _, f := range []struct{ name, value string }{
		{"timezone", raw.Timezone},
		{"utc_offset", raw.UTCOffset},
		{"time", raw.Time},
		{"date", raw.Date},
	} {
		if f.value == "" {
			return Result{}, fmt.Errorf("%w: %q is empty", ErrMalformedPayload, f.name)
		}
	}

	region, city, err := SplitTimezone(raw.Timezone)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Region:   region,
		City:     city,
		UTCLabel: "UTC" + raw.UTCOffset,
		Time:     raw.Time,
		Date:     raw.Date,
	}, nil
}

// SplitTimezone splits "Region/City" at the first slash. Later slashes stay
// in the city, so "America/Argentina/Buenos_Aires" has city
// "Argentina/Buenos_Aires".
func SplitTimezone(tz string) (region, city string, err error) {
	region, city, ok := strings.Cut(tz, "/")
	if !ok || region == "" || city == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedTimezone, tz)
	}
	return region, city, nil
}

// Heading is the title shown above the result lines.
func (r Result) Heading() string {
	return "Time in " + r.City
}
