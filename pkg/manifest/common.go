package manifest

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ClaudeOnlyKeys are front-matter keys that only Claude Code understands.
// They are dropped for every target; all other keys pass through.
var ClaudeOnlyKeys = []string{
	"allowed-tools",
	"argument-hint",
	"disable-model-invocation",
	"user-invocable",
	"model",
	"context",
	"agent",
	"hooks",
}

// PluginRootMarker is the Claude Code plugin root placeholder.
const PluginRootMarker = "${CLAUDE_PLUGIN_ROOT}"

// skillInvocation matches Skill(skill="name") and Skill(skill="name", args="...").
var skillInvocation = regexp.MustCompile(`Skill\(\s*skill\s*=\s*"([^"]+)"\s*(?:,\s*args\s*=\s*"([^"]*)"\s*)?\)`)

// ApplyCommon strips Claude Code only keys and rewrites Claude Code body
// markers into their portable form. It returns the removed keys.
func ApplyCommon(m *Manifest) []string {
	var removed []string
	for _, key := range ClaudeOnlyKeys {
		if m.Delete(key) {
			removed = append(removed, key)
		}
	}

	m.Body = RewriteBody(m.Body)
	return removed
}

// RewriteBody replaces the plugin root placeholder with "." and Skill(...)
// invocations with "@name args".
func RewriteBody(body string) string {
	body = strings.ReplaceAll(body, PluginRootMarker, ".")
	return skillInvocation.ReplaceAllStringFunc(body, func(match string) string {
		groups := skillInvocation.FindStringSubmatch(match)
		invocation := "@" + groups[1]
		if args := strings.TrimSpace(groups[2]); args != "" {
			invocation += " " + args
		}
		return invocation
	})
}

// EnsureSection appends section to the body unless a line equal to heading
// is already present.
func EnsureSection(m *Manifest, heading, section string) {
	for _, line := range strings.Split(m.Body, "\n") {
		if strings.TrimSpace(line) == heading {
			return
		}
	}

	body := strings.TrimRight(m.Body, "\n")
	if body != "" {
		body += "\n\n"
	}
	m.Body = body + strings.TrimRight(section, "\n") + "\n"
}

// FirstHeading returns the text of the first level-one heading in the body.
// Lines inside code blocks are not headings.
func FirstHeading(body string) string {
	source := []byte(body)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var heading string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		heading = inlineText(h, source)
		return ast.WalkStop, nil
	})
	return strings.TrimSpace(heading)
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
