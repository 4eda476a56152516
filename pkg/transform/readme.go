package transform

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
)

const scriptsReadmeName = "README.md"

// scriptsReadme documents the scripts a skill ships, for CLIs that do not
// run them through hooks. Nothing is generated when there are no scripts
// or the skill already has a scripts/README.md.
func scriptsReadme(skill string, files []FileCopy) *GeneratedFile {
	var scripts []FileCopy
	for _, f := range files {
		dir, name := path.Split(f.Dest)
		if dir != scriptsDir+"/" {
			continue
		}
		if name == scriptsReadmeName {
			return nil
		}
		scripts = append(scripts, f)
	}
	if len(scripts) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s scripts\n\n", skill)
	sb.WriteString("In Claude Code these scripts may run automatically through hooks. ")
	sb.WriteString("Other CLIs do not run them for you, so invoke them by hand from the skill directory.\n\n")
	sb.WriteString("## Available scripts\n\n")
	for _, s := range scripts {
		name := path.Base(s.Dest)
		if summary := scriptSummary(s.Source); summary != "" {
			fmt.Fprintf(&sb, "- `%s` - %s\n", name, summary)
		} else {
			fmt.Fprintf(&sb, "- `%s`\n", name)
		}
	}
	sb.WriteString("\n## Running\n\n")
	sb.WriteString("```bash\n")
	fmt.Fprintf(&sb, "%s\n", runHint(path.Base(scripts[0].Dest)))
	sb.WriteString("```\n")

	return &GeneratedFile{
		Dest:    path.Join(scriptsDir, scriptsReadmeName),
		Content: []byte(sb.String()),
	}
}

func runHint(name string) string {
	switch path.Ext(name) {
	case ".py":
		return "python scripts/" + name + " [arguments]"
	case ".js", ".mjs":
		return "node scripts/" + name + " [arguments]"
	case ".sh", ".bash":
		return "bash scripts/" + name + " [arguments]"
	default:
		return "./scripts/" + name + " [arguments]"
	}
}

// scriptSummary returns the first line of a Python docstring or the first
// comment after the shebang, whichever comes first in the file head.
func scriptSummary(file string) string {
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 20 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#!"):
			continue
		case strings.HasPrefix(line, `"""`) || strings.HasPrefix(line, `'''`):
			text := strings.Trim(line, `"' `)
			if text == "" && scanner.Scan() {
				text = strings.TrimSpace(scanner.Text())
			}
			return strings.Trim(text, `"' `)
		case strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//"):
			text := strings.TrimSpace(strings.TrimLeft(line, "#/"))
			if strings.HasPrefix(text, "-*-") || text == "" {
				continue
			}
			return text
		default:
			return ""
		}
	}
	return ""
}
