package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/pkg/errors"
)

const (
	nestedDirName = "skills"
	hooksDirName  = "hooks"
	hooksConfig   = "hooks.json"
)

// DefaultExcludedDirs are candidate directory names that are never skills.
// Names starting with "." are always excluded as well.
var DefaultExcludedDirs = []string{"node_modules", "__pycache__"}

// Discovery scans a directory tree for skills.
type Discovery struct {
	excluded map[string]bool
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithExcludedDirs adds directory names that are skipped during the scan.
func WithExcludedDirs(names ...string) Option {
	return func(d *Discovery) error {
		for _, name := range names {
			if name == "" || strings.ContainsAny(name, `/\`) {
				return errors.Errorf("invalid excluded directory name %q", name)
			}
			d.excluded[name] = true
		}
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{excluded: make(map[string]bool)}
	for _, name := range DefaultExcludedDirs {
		d.excluded[name] = true
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Discover scans root with the default settings.
func Discover(ctx context.Context, root string) ([]*Source, error) {
	d, err := NewDiscovery()
	if err != nil {
		return nil, err
	}
	return d.Discover(ctx, root)
}

// Discover returns the skills under root in lexicographic order. When root
// itself is a skill it is the only result. Otherwise each child directory
// is a candidate and candidates matching no layout are skipped.
func (d *Discovery) Discover(ctx context.Context, root string) ([]*Source, error) {
	log := logger.G(ctx).WithField("path", root)

	if src, ok := detect(root, filepath.Base(root)); ok {
		log.WithField("layout", src.Layout).Debug("scan root is a single skill")
		src.Root = root
		return []*Source{src}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", root)
	}

	var found []*Source
	for _, entry := range entries {
		if d.isExcluded(entry.Name()) {
			continue
		}

		entryPath := filepath.Join(root, entry.Name())
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		src, ok := detect(entryPath, entry.Name())
		if !ok {
			log.WithField("candidate", entry.Name()).Debug("no skill layout matched, skipping")
			continue
		}
		src.Root = root
		found = append(found, src)
	}

	if len(found) == 0 {
		return nil, &NoSkillsFoundError{Root: root}
	}
	return found, nil
}

func (d *Discovery) isExcluded(name string) bool {
	return strings.HasPrefix(name, ".") || d.excluded[name]
}

// detect applies the layout rules to one candidate directory. A top-level
// manifest takes priority over a nested one.
func detect(dir, name string) (*Source, bool) {
	top := filepath.Join(dir, manifest.FileName)
	if isFile(top) {
		layout := LayoutDirect
		if hasHookScripts(filepath.Join(dir, hooksDirName)) {
			layout = LayoutHooks
		}
		return &Source{
			Name:         name,
			Dir:          dir,
			AssetRoot:    dir,
			ManifestPath: top,
			Layout:       layout,
		}, true
	}

	nestedRoot := filepath.Join(dir, nestedDirName)
	nested := filepath.Join(nestedRoot, manifest.FileName)
	if isFile(nested) {
		return &Source{
			Name:         name,
			Dir:          dir,
			AssetRoot:    nestedRoot,
			ManifestPath: nested,
			Layout:       LayoutNested,
		}, true
	}

	return nil, false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// hasHookScripts reports whether dir holds at least one regular file other
// than the Claude Code hooks.json registration.
func hasHookScripts(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	found := false
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.Type().IsRegular() && !(filepath.Dir(path) == dir && entry.Name() == hooksConfig) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
