// Package installer writes a transformed skill to its destination
// directory: the rewritten manifest, generated files and copied assets.
package installer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/transform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Installer writes skills to disk
type Installer struct {
	clean  bool
	ignore *IgnorePolicy
}

// Option configures an Installer instance
type Option func(*Installer) error

// WithClean removes the destination before writing so files that no
// longer exist in the source do not linger.
func WithClean(clean bool) Option {
	return func(i *Installer) error {
		i.clean = clean
		return nil
	}
}

// WithIgnore adds source-relative globs to the ignore policy.
func WithIgnore(patterns ...string) Option {
	return func(i *Installer) error {
		policy, err := NewIgnorePolicy(patterns...)
		if err != nil {
			return err
		}
		i.ignore = policy
		return nil
	}
}

// NewInstaller creates a new skill installer
func NewInstaller(opts ...Option) (*Installer, error) {
	policy, err := NewIgnorePolicy()
	if err != nil {
		return nil, err
	}

	i := &Installer{ignore: policy}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Result lists what happened to each file, by destination-relative path
// for written files and source-relative path for skipped ones.
type Result struct {
	Destination string
	Written     []string
	Skipped     []string
	Failed      []*WriteError
}

// Install writes out under dest, creating it if needed. Existing files are
// overwritten. A file that fails to write is recorded and the rest are
// still attempted; the returned error aggregates every WriteError.
func (i *Installer) Install(ctx context.Context, out *transform.Output, dest string) (*Result, error) {
	log := logger.G(ctx).WithFields(logrus.Fields{
		"skill":   out.Skill.Name,
		"adapter": out.Adapter.Name(),
		"path":    dest,
	})

	result := &Result{Destination: dest}

	if err := checkOverlap(out.Skill.AssetRoot, dest); err != nil {
		werr := &WriteError{Path: dest, Err: err}
		result.Failed = append(result.Failed, werr)
		return result, werr
	}

	if i.clean {
		if err := os.RemoveAll(dest); err != nil {
			werr := &WriteError{Path: dest, Err: errors.Wrap(err, "failed to remove existing destination")}
			result.Failed = append(result.Failed, werr)
			return result, werr
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		werr := &WriteError{Path: dest, Err: err}
		result.Failed = append(result.Failed, werr)
		return result, werr
	}

	var errs *multierror.Error
	record := func(rel string, err error) {
		if err == nil {
			result.Written = append(result.Written, rel)
			return
		}
		werr := &WriteError{Path: filepath.Join(dest, filepath.FromSlash(rel)), Err: err}
		result.Failed = append(result.Failed, werr)
		errs = multierror.Append(errs, werr)
		log.WithError(err).WithField("file", rel).Warn("failed to write file")
	}

	record(out.ManifestName, writeFile(filepath.Join(dest, out.ManifestName), out.Manifest, 0o644))

	for _, g := range out.Generated {
		record(g.Dest, writeFile(filepath.Join(dest, filepath.FromSlash(g.Dest)), g.Content, 0o644))
	}

	for _, f := range out.Files {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		if i.ignore.Match(f.Rel) {
			result.Skipped = append(result.Skipped, f.Rel)
			continue
		}
		record(f.Dest, copyFile(f.Source, filepath.Join(dest, filepath.FromSlash(f.Dest))))
	}

	log.WithFields(logrus.Fields{
		"written": len(result.Written),
		"skipped": len(result.Skipped),
		"failed":  len(result.Failed),
	}).Debug("installed skill")

	return result, errs.ErrorOrNil()
}

// checkOverlap rejects a destination that is the skill's own directory,
// sits inside it, or contains it. Writing there would truncate the source
// files before they are read.
func checkOverlap(assetRoot, dest string) error {
	src, err := resolvePath(assetRoot)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", assetRoot)
	}
	dst, err := resolvePath(dest)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", dest)
	}
	if within(src, dst) || within(dst, src) {
		return errors.Errorf("destination overlaps the skill source %s", assetRoot)
	}
	return nil
}

// resolvePath evaluates symlinks in the longest existing prefix of p, so
// destinations that do not exist yet still resolve.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(abs)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return filepath.Join(append([]string{abs}, rest...)...), nil
		}
		rest = append([]string{filepath.Base(abs)}, rest...)
		abs = parent
	}
}

// within reports whether p is root or below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func writeFile(dst string, content []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, content, mode)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return errors.Errorf("%s is the source file", dst)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	// O_CREATE only applies the mode to new files
	return os.Chmod(dst, srcInfo.Mode().Perm())
}
