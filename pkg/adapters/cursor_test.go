package adapters

import (
	"strings"
	"testing"

	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func cursorRender(t *testing.T, content string) string {
	t.Helper()
	m, err := manifest.Parse([]byte(content))
	require.NoError(t, err)
	manifest.ApplyCommon(m)

	out, err := NewCursor().Transform(m, "example")
	require.NoError(t, err)
	return string(out)
}

func header(rendered string) string {
	parts := strings.SplitN(rendered, "---\n\n", 2)
	return parts[0] + "---\n"
}

func TestCursorTransform_MDCHeader(t *testing.T) {
	out := cursorRender(t, "---\nname: example\ndescription: Lint Go code\nallowed-tools: Bash\nglobs:\n  - \"**/*.go\"\n  - \"go.mod\"\n---\n\n# Example\n\nRun scripts/run.sh.\n")

	assert.Equal(t, "---\ndescription: Lint Go code\nglobs: **/*.go, go.mod\nalwaysApply: false\n---\n", header(out))
	assert.Contains(t, out, "# Example\n\nRun scripts/run.sh.\n\n## Cursor Usage\n")
	assert.NotContains(t, out, "allowed-tools")
	assert.NotContains(t, out, "name: example")
}

func TestCursorDescription(t *testing.T) {
	long := strings.Repeat("word ", 60)

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"from front-matter", "---\ndescription: Does things\n---\n# Heading\n", "Does things"},
		{"folded multi-line", "---\ndescription: >\n  Does\n  many   things\n---\n", "Does many things"},
		{"from heading", "---\nname: x\n---\n\nintro\n# PDF Helper\n", "PDF Helper"},
		{"fallback to skill name", "just text\n", "example"},
		{"heading in code fence ignored", "```sh\n# comment\n```\n\n# Title\n", "Title"},
		{"truncated", "---\ndescription: " + long + "\n---\n", strings.TrimSpace(long[:200])},
		{"quoted when needed", "---\ndescription: 'Usage: run it'\n---\n", `'Usage: run it'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := cursorRender(t, tt.content)
			assert.Contains(t, header(out), "description: "+tt.expected+"\n")
		})
	}
}

func TestCursorGlobs(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"default", "---\nname: x\n---\n", "**/*"},
		{"comma string", "---\nfiles: \"src/**/*.ts, *.json\"\n---\n", "src/**/*.ts, *.json"},
		{"json array string", "---\npatterns: '[\"*.py\", \"*.pyi\"]'\n---\n", "*.py, *.pyi"},
		{"globs preferred over files", "---\nfiles: \"*.txt\"\nglobs: \"*.md\"\n---\n", "*.md"},
		{"invalid patterns dropped", "---\nglobs:\n  - \"[bad\"\n  - \"*.go\"\n---\n", "*.go"},
		{"all invalid falls back", "---\nglobs: \"[bad\"\n---\n", "**/*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := cursorRender(t, tt.content)
			assert.Contains(t, header(out), "globs: "+tt.expected+"\n")
		})
	}
}

func TestYAMLInline(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain", value: "plain text", want: "plain text"},
		{name: "empty", value: "", want: `""`},
		{name: "bool keyword", value: "true", want: `"true"`},
		{name: "null keyword", value: "null", want: `"null"`},
		{name: "number", value: "1.5", want: `"1.5"`},
		{name: "leading dash", value: "- dash"},
		{name: "comment marker", value: "has # comment"},
		{name: "trailing colon", value: "ends with:"},
		{name: "inner colon", value: "Usage: run it"},
		{name: "quotes", value: `say "hi" it's fine`},
		{name: "long", value: strings.TrimSpace(strings.Repeat("lorem ipsum ", 18))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := yamlInline(tt.value)
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			assert.NotContains(t, got, "\n")

			var decoded map[string]any
			require.NoError(t, yaml.Unmarshal([]byte("description: "+got+"\n"), &decoded))
			assert.Equal(t, tt.value, decoded["description"])
		})
	}
}

func TestCursorTransform_KeywordDescription(t *testing.T) {
	out := cursorRender(t, "---\nname: example\ndescription: \"true\"\n---\n\nBody\n")
	assert.Contains(t, header(out), "description: \"true\"\n")
}

func TestCursorTransform_ReplacesMetadata(t *testing.T) {
	m, err := manifest.Parse([]byte("---\nname: example\ndescription: Lint\nlicense: MIT\n---\n\nBody\n"))
	require.NoError(t, err)

	_, err = NewCursor().Transform(m, "example")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}
