// Package source turns a repository reference, either a git URL or a local
// path, into a directory on disk that can be scanned for skills.
package source

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Origin records how a repository got onto the local filesystem.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginCloned Origin = "cloned"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultAttempts = 3
	DefaultDepth    = 1
)

var remoteSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"git":   true,
	"ssh":   true,
	"file":  true,
}

// Repository is a resolved repository. Close must be called once the
// repository is no longer needed; it removes temporary clones.
type Repository struct {
	Ref    string // What the caller asked for
	Root   string // Repository root on disk
	Path   string // Directory to scan: Root joined with SubDir
	SubDir string
	Origin Origin

	scratch   string
	keepClone bool
	closed    bool
	log       *logrus.Entry
}

type options struct {
	keepClone bool
	subDir    string
	ref       string
	timeout   time.Duration
	attempts  uint
	depth     int
}

// Option configures Resolve.
type Option func(*options)

// WithKeepClone leaves a cloned repository on disk after Close.
func WithKeepClone(keep bool) Option {
	return func(o *options) { o.keepClone = keep }
}

// WithSubDir scans a directory inside the repository instead of its root.
func WithSubDir(subDir string) Option {
	return func(o *options) { o.subDir = subDir }
}

// WithRef clones the given branch or tag instead of the default branch.
func WithRef(ref string) Option {
	return func(o *options) { o.ref = ref }
}

// WithTimeout bounds each clone attempt. Zero means DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithAttempts sets how many times a clone is tried. Zero means
// DefaultAttempts.
func WithAttempts(attempts uint) Option {
	return func(o *options) { o.attempts = attempts }
}

// WithDepth sets the clone depth. Zero clones the full history.
func WithDepth(depth int) Option {
	return func(o *options) { o.depth = depth }
}

// IsRemote reports whether ref names a repository that has to be cloned.
func IsRemote(ref string) bool {
	if strings.HasPrefix(ref, "git@") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return remoteSchemes[strings.ToLower(u.Scheme)]
}

// Resolve clones ref when it is remote or validates it as a local directory,
// then applies the optional sub-directory.
func Resolve(ctx context.Context, ref string, opts ...Option) (*Repository, error) {
	o := &options{
		timeout:  DefaultTimeout,
		attempts: DefaultAttempts,
		depth:    DefaultDepth,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.attempts == 0 {
		o.attempts = DefaultAttempts
	}

	if strings.TrimSpace(ref) == "" {
		return nil, errors.New("repository reference is required")
	}

	var (
		repo *Repository
		err  error
	)
	if IsRemote(ref) {
		repo, err = clone(ctx, ref, o)
	} else {
		repo, err = openLocal(ref)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.applySubDir(o.subDir); err != nil {
		repo.Close()
		return nil, err
	}

	logger.G(ctx).WithField("repo", ref).WithField("path", repo.Path).Debug("resolved repository")
	return repo, nil
}

func openLocal(ref string) (*Repository, error) {
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve path %s", ref)
	}
	if err := checkDir(abs); err != nil {
		return nil, err
	}
	return &Repository{
		Ref:    ref,
		Root:   abs,
		Path:   abs,
		Origin: OriginLocal,
	}, nil
}

func (r *Repository) applySubDir(subDir string) error {
	subDir = strings.Trim(filepath.ToSlash(subDir), "/")
	if subDir == "" {
		return nil
	}

	p := filepath.Join(r.Root, filepath.FromSlash(subDir))
	rel, err := filepath.Rel(r.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &NotFoundError{Path: subDir, Reason: "sub-directory escapes the repository"}
	}
	if err := checkDir(p); err != nil {
		return err
	}

	r.SubDir = subDir
	r.Path = p
	return nil
}

func checkDir(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: p}
		}
		return errors.Wrapf(err, "failed to stat %s", p)
	}
	if !info.IsDir() {
		return &NotFoundError{Path: p, Reason: "not a directory"}
	}
	return nil
}

// Close removes a temporary clone unless it was kept. It is safe to call
// more than once and does nothing for local repositories.
func (r *Repository) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true

	if r.Origin != OriginCloned || r.scratch == "" {
		return nil
	}
	log := r.log
	if log == nil {
		log = logger.L
	}
	if r.keepClone {
		log.WithField("path", r.Root).Info("keeping cloned repository")
		return nil
	}
	if err := os.RemoveAll(r.scratch); err != nil {
		return errors.Wrapf(err, "failed to remove cloned repository %s", r.scratch)
	}
	log.WithField("path", r.scratch).Debug("removed cloned repository")
	return nil
}

// Kept reports whether Close leaves the clone on disk.
func (r *Repository) Kept() bool {
	return r.Origin == OriginCloned && r.keepClone
}
