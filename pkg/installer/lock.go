package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// Lock takes an advisory cross-process lock for dest. The lock file lives
// in the temp directory so nothing extra is written under the target, and
// it is removed again on unlock.
func Lock(dest string) (unlock func(), err error) {
	lockPath, err := lockPathFor(dest)
	if err != nil {
		return nil, err
	}

	for {
		f, err := lockedfile.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to lock %s", dest)
		}

		// The previous holder may have removed the file while we waited;
		// a lock on an unlinked file excludes nobody.
		if isCurrent(f, lockPath) {
			return func() {
				os.Remove(lockPath)
				f.Close()
			}, nil
		}
		f.Close()
	}
}

func lockPathFor(dest string) (string, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dest)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "skillxfer-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

func isCurrent(f *lockedfile.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, onDisk)
}
