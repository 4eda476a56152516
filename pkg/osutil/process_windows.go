//go:build windows

package osutil

import (
	"os"
	"os/exec"
	"time"
)

// GracefulShutdownDelay is defined for API parity with unix; Windows has no
// SIGTERM so the process is killed directly.
const GracefulShutdownDelay = 2 * time.Second

// SetProcessGroup is a no-op on Windows.
func SetProcessGroup(_ *exec.Cmd) {}

// SetProcessGroupKill sets up a cancel function that kills the process.
// Child processes may outlive it on Windows.
func SetProcessGroupKill(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		err := cmd.Process.Signal(os.Kill)
		if err == os.ErrProcessDone {
			return nil
		}
		return err
	}
	cmd.WaitDelay = GracefulShutdownDelay
}
