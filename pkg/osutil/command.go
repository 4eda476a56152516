// Package osutil holds the small amount of OS-specific plumbing skillxfer
// needs to run external tools such as git.
package osutil

import (
	"context"
	"os/exec"
)

// CommandContext builds an exec.Cmd bound to ctx whose whole process tree
// is torn down when ctx is cancelled or times out.
func CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	SetProcessGroup(cmd)
	SetProcessGroupKill(cmd)
	return cmd
}
