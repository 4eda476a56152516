package skills

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Describe reads the name and description of a skill for listings. The
// directory name stands in when the manifest has no name.
func Describe(src *Source) (Metadata, error) {
	md := Metadata{Name: src.Name}

	content, err := os.ReadFile(src.ManifestPath)
	if err != nil {
		return md, errors.Wrap(err, "failed to read skill file")
	}

	gm := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := gm.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return md, errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return md, errors.Wrapf(err, "invalid frontmatter in %s", src.ManifestPath)
	}

	if name, _ := metaData["name"].(string); name != "" {
		md.Name = name
	}
	if description, _ := metaData["description"].(string); description != "" {
		md.Description = strings.Join(strings.Fields(description), " ")
	}

	return md, nil
}
