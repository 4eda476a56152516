package installer

import (
	"fmt"

	"github.com/pkg/errors"
)

// WriteError is a failure to write one file or directory at the
// destination. Other files of the same skill are still attempted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err is, or wraps, a WriteError.
func IsWriteError(err error) bool {
	var target *WriteError
	return errors.As(err, &target)
}
