// Package clipboard writes results to the system clipboard and tracks the
// short-lived "Copied!" feedback shown on the copy button.
package clipboard

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
)

// ErrNothingToCopy is returned when there is no text to copy.
var ErrNothingToCopy = errors.New("nothing to copy")

// ErrCopyFailed is matched by every error from a clipboard write.
var ErrCopyFailed = errors.New("copy failed")

type CopyError struct {
	Reason error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy failed: %v", e.Reason)
}

func (e *CopyError) Is(target error) bool {
	return target == ErrCopyFailed
}

func (e *CopyError) Unwrap() error {
	return e.Reason
}

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(string) error

func (f WriterFunc) WriteText(text string) error {
	return f(text)
}

// System is the desktop clipboard. It needs xclip, xsel or wl-clipboard on
// Linux.
type System struct{}

func (System) WriteText(text string) error {
	if atotto.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return atotto.WriteAll(text)
}

// ReadText returns the current clipboard contents.
func (System) ReadText() (string, error) {
	return atotto.ReadAll()
}
