package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoWorkspace is returned when no repository root can be resolved.
var ErrNoWorkspace = errors.New("not inside a git repository")

// CommandError is returned when the git binary exits non-zero or cannot be
// started at all.
type CommandError struct {
	Args    []string
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Message)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Detail returns the message git printed, falling back to the underlying error.
func (e *CommandError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// ErrorDetail extracts the most useful text from err: git's own message for
// a CommandError, the error string otherwise.
func ErrorDetail(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Detail()
	}
	return err.Error()
}
