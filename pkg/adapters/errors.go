package adapters

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// UnknownAdapterError is returned for CLI identifiers with no registered adapter.
type UnknownAdapterError struct {
	Names     []string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown CLI %s (supported: %s)",
		strings.Join(e.Names, ", "), strings.Join(e.Available, ", "))
}

// IsUnknownAdapter reports whether err is, or wraps, an UnknownAdapterError.
func IsUnknownAdapter(err error) bool {
	var target *UnknownAdapterError
	return errors.As(err, &target)
}
