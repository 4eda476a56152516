package source

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/osutil"
	"github.com/pkg/errors"
)

// gitBinary is the git executable, resolved through PATH.
var gitBinary = "git"

// retryDelay is the first back-off delay between clone attempts.
var retryDelay = time.Second

func clone(ctx context.Context, url string, o *options) (*Repository, error) {
	log := logger.G(ctx).WithField("repo", url)

	if _, err := exec.LookPath(gitBinary); err != nil {
		return nil, &CloneError{URL: url, Err: errors.New("git is not installed")}
	}

	scratch, err := os.MkdirTemp("", "skillxfer-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	root := filepath.Join(scratch, "repo")

	var output string
	err = retry.Do(
		func() error {
			// a failed attempt can leave a partial checkout behind
			if err := os.RemoveAll(root); err != nil {
				return retry.Unrecoverable(err)
			}
			out, err := runClone(ctx, url, root, o)
			output = out
			return err
		},
		retry.Attempts(o.attempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).WithField("attempt", n+1).WithField("max_attempts", o.attempts).Warn("retrying git clone")
		}),
	)
	if err != nil {
		os.RemoveAll(scratch)
		return nil, &CloneError{URL: url, Output: output, Err: err}
	}

	log.WithField("path", root).Debug("cloned repository")
	return &Repository{
		Ref:       url,
		Root:      root,
		Path:      root,
		Origin:    OriginCloned,
		scratch:   scratch,
		keepClone: o.keepClone,
		log:       log,
	}, nil
}

func runClone(ctx context.Context, url, dest string, o *options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := []string{"clone", "--quiet"}
	if o.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(o.depth))
	}
	if o.ref != "" {
		args = append(args, "--branch", o.ref)
	}
	args = append(args, "--", url, dest)

	var out bytes.Buffer
	cmd := osutil.CommandContext(ctx, gitBinary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// never block on a credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out.String(), errors.Errorf("timed out after %s", o.timeout)
		}
		return out.String(), err
	}
	return out.String(), nil
}
