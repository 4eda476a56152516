package source

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// NotFoundError is returned when a local repository or sub-directory does
// not exist or is not a directory.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("repository not found: %s", e.Path)
	}
	return fmt.Sprintf("repository not found: %s: %s", e.Path, e.Reason)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// CloneError is returned when a remote repository could not be cloned:
// git is missing, exits non-zero, or runs past its timeout.
type CloneError struct {
	URL    string
	Output string
	Err    error
}

func (e *CloneError) Error() string {
	msg := fmt.Sprintf("failed to clone %s: %v", e.URL, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// IsCloneError reports whether err is, or wraps, a CloneError.
func IsCloneError(err error) bool {
	var target *CloneError
	return errors.As(err, &target)
}
