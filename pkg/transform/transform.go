// Package transform turns one discovered skill into the output for one
// target CLI: the rewritten manifest plus the list of files to copy.
package transform

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jingkaihe/skillxfer/pkg/adapters"
	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/jingkaihe/skillxfer/pkg/skills"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	scriptsDir = "scripts"
	hooksDir   = "hooks"
)

// FileCopy is a single copy instruction. Rel is relative to the skill's
// asset root and Dest to the install destination, both slash separated.
type FileCopy struct {
	Source string
	Rel    string
	Dest   string
}

// GeneratedFile is a file produced by the transform rather than copied.
type GeneratedFile struct {
	Dest    string
	Content []byte
}

// Output is a skill ready to install for one adapter.
type Output struct {
	Skill        *skills.Source
	Adapter      adapters.Adapter
	ManifestName string
	Manifest     []byte
	Files        []FileCopy
	Generated    []GeneratedFile
	// RemovedKeys lists the Claude Code only front-matter keys dropped.
	RemovedKeys []string
}

// Transform reads the skill's manifest, rewrites it for a and plans the
// asset copies.
func Transform(ctx context.Context, src *skills.Source, a adapters.Adapter) (*Output, error) {
	log := logger.G(ctx).WithFields(logrus.Fields{
		"skill":   src.Name,
		"adapter": a.Name(),
	})

	content, err := os.ReadFile(src.ManifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", src.ManifestPath)
	}

	m, err := manifest.Parse(content)
	if err != nil {
		return nil, manifest.WithPath(err, src.ManifestPath)
	}

	removed := manifest.ApplyCommon(m)
	if len(removed) > 0 {
		log.WithField("keys", removed).Debug("dropped Claude Code only front-matter keys")
	}

	rendered, err := a.Transform(m, src.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render manifest for %s", a.Name())
	}

	files, err := planCopies(ctx, src, a.DirectoryMap())
	if err != nil {
		return nil, err
	}

	out := &Output{
		Skill:        src,
		Adapter:      a,
		ManifestName: a.ManifestFileName(src.Name),
		Manifest:     rendered,
		Files:        files,
		RemovedKeys:  removed,
	}

	if readme := scriptsReadme(src.Name, files); readme != nil {
		out.Generated = append(out.Generated, *readme)
	}

	log.WithField("files", len(files)).Debug("transformed skill")
	return out, nil
}

// planCopies lists every asset file except the manifest, mapping hook
// scripts into scripts/ and renaming top-level directories per dirMap.
// When two sources land on the same destination the first one wins.
func planCopies(ctx context.Context, src *skills.Source, dirMap map[string]string) ([]FileCopy, error) {
	manifestRel := src.ManifestRel()
	taken := make(map[string]string)

	bound := src.Root
	if bound == "" {
		bound = src.AssetRoot
	}
	bound, err := resolveDir(bound)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", src.AssetRoot)
	}

	var files []FileCopy
	err = filepath.WalkDir(src.AssetRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if !linksInside(p, bound) {
				logger.G(ctx).WithFields(logrus.Fields{
					"skill": src.Name,
					"path":  p,
				}).Warn("skipping symlink that does not resolve to a file inside the repository")
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src.AssetRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == manifestRel {
			return nil
		}

		dest := rel
		if src.Layout == skills.LayoutHooks {
			dest = hookDest(rel)
		}
		dest = renameTopDir(dest, dirMap)

		if prev, ok := taken[dest]; ok {
			logger.G(ctx).WithFields(logrus.Fields{
				"skill": src.Name,
				"path":  rel,
				"kept":  prev,
			}).Warn("skipping file that maps onto an existing destination")
			return nil
		}
		taken[dest] = rel

		files = append(files, FileCopy{Source: p, Rel: rel, Dest: dest})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk skill directory %s", src.AssetRoot)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// linksInside reports whether the symlink at p resolves to a regular file
// under root. root must already be resolved.
func linksInside(p, root string) bool {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return false
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hookDest moves hooks/scripts/** and other files under hooks/ into
// scripts/. The hooks.json registration keeps its path so the installer's
// ignore policy can drop it.
func hookDest(rel string) string {
	rest, ok := strings.CutPrefix(rel, hooksDir+"/")
	if !ok || rest == "hooks.json" {
		return rel
	}
	rest = strings.TrimPrefix(rest, scriptsDir+"/")
	return path.Join(scriptsDir, rest)
}

func renameTopDir(rel string, dirMap map[string]string) string {
	top, rest, found := strings.Cut(rel, "/")
	if !found {
		return rel
	}
	if renamed, ok := dirMap[top]; ok {
		return path.Join(renamed, rest)
	}
	return rel
}

// Destination is the directory a skill is installed into: the adapter's
// install root when targetRoot is empty, else
// targetRoot/<relative install path>/<skill>.
func Destination(a adapters.Adapter, env adapters.Env, skill, targetRoot string) string {
	if targetRoot == "" {
		return filepath.Join(adapters.InstallRoot(a, env), skill)
	}
	return filepath.Join(env.Expand(targetRoot), filepath.FromSlash(a.RelativeInstallPath()), skill)
}
