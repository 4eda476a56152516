package manifest

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedManifestError reports a front-matter block that is present but
// cannot be parsed.
type MalformedManifestError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedManifestError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("malformed manifest %s: %s", e.Path, msg)
	}
	return "malformed manifest: " + msg
}

func (e *MalformedManifestError) Unwrap() error {
	return e.Err
}

// IsMalformedManifest reports whether err is, or wraps, a MalformedManifestError.
func IsMalformedManifest(err error) bool {
	var target *MalformedManifestError
	return errors.As(err, &target)
}

// WithPath sets the manifest path on err if it is a MalformedManifestError
// without one, and returns err unchanged otherwise.
func WithPath(err error, path string) error {
	var target *MalformedManifestError
	if errors.As(err, &target) && target.Path == "" {
		target.Path = path
	}
	return err
}
