package fetch

import (
	"errors"
	"fmt"
)

// ErrEmptyCity is returned when the city query is blank.
var ErrEmptyCity = errors.New("please enter a city name")

// ErrRemoteFetchFailed is returned when the time service could not be reached
// or answered with a non-2xx status.
var ErrRemoteFetchFailed = errors.New("remote fetch failed")

// RemoteError carries the status and body of a non-2xx response.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote fetch failed: status %d", e.Status)
	}
	return fmt.Sprintf("remote fetch failed: status %d: %s", e.Status, e.Body)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFetchFailed
}
