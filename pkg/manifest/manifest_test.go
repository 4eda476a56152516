package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		keys    []string
		body    string
		errMsg  string
		malform bool
	}{
		{
			name:    "front-matter and body",
			content: "---\nname: example\ndescription: Does things\n---\n\n# Example\n\nBody text.\n",
			keys:    []string{"name", "description"},
			body:    "# Example\n\nBody text.\n",
		},
		{
			name:    "no front-matter",
			content: "# Plain\n\nJust markdown.\n",
			keys:    []string{},
			body:    "# Plain\n\nJust markdown.\n",
		},
		{
			name:    "empty front-matter",
			content: "---\n---\nBody\n",
			keys:    []string{},
			body:    "Body\n",
		},
		{
			name:    "crlf line endings",
			content: "---\r\nname: crlf\r\n---\r\nBody\r\n",
			keys:    []string{"name"},
			body:    "Body\n",
		},
		{
			name:    "delimiter with trailing spaces",
			content: "---  \nname: spaced\n---\t\nBody\n",
			keys:    []string{"name"},
			body:    "Body\n",
		},
		{
			name:    "unterminated",
			content: "---\nname: broken\n\n# Body\n",
			malform: true,
			errMsg:  "unterminated front-matter block",
		},
		{
			name:    "invalid yaml",
			content: "---\nname: [unclosed\n---\nBody\n",
			malform: true,
			errMsg:  "invalid YAML in front-matter",
		},
		{
			name:    "duplicate key",
			content: "---\nname: x\nallowed-tools: Bash\nallowed-tools: Read\n---\nbody\n",
			malform: true,
			errMsg:  `duplicate front-matter key "allowed-tools"`,
		},
		{
			name:    "not a mapping",
			content: "---\n- a\n- b\n---\nBody\n",
			malform: true,
			errMsg:  "not a key/value mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.content))
			if tt.malform {
				require.Error(t, err)
				assert.True(t, IsMalformedManifest(err))
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.keys, m.Keys())
			assert.Equal(t, tt.body, m.Body)
		})
	}
}

func TestMalformedManifestError_WithPath(t *testing.T) {
	_, err := Parse([]byte("---\nname: x\n"))
	require.Error(t, err)

	err = WithPath(err, "/repo/example/SKILL.md")
	assert.Equal(t, "malformed manifest /repo/example/SKILL.md: unterminated front-matter block", err.Error())
}

func TestMetadataOperations(t *testing.T) {
	m, err := Parse([]byte("---\nname: example\nglobs:\n  - \"*.go\"\n  - \"*.md\"\nfiles: \"src/**, docs/**\"\nversion: 2\n---\nBody\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	name, ok := m.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "example", name)

	version, ok := m.Get("version")
	assert.True(t, ok)
	assert.Equal(t, "2", version)

	_, ok = m.Get("globs")
	assert.False(t, ok, "sequence values are not scalars")

	assert.Equal(t, []string{"*.go", "*.md"}, m.GetStrings("globs"))
	assert.Equal(t, []string{"src/**", "docs/**"}, m.GetStrings("files"))
	assert.Nil(t, m.GetStrings("missing"))

	assert.Equal(t, []string{"name", "globs", "files", "version"}, m.Keys())

	m.Set("version", "3")
	m.Set("license", "MIT")
	assert.Equal(t, []string{"name", "globs", "files", "version", "license"}, m.Keys())
	v, _ := m.Get("version")
	assert.Equal(t, "3", v)

	assert.True(t, m.Delete("globs"))
	assert.False(t, m.Delete("globs"))
	assert.Equal(t, []string{"name", "files", "version", "license"}, m.Keys())

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestGetStrings_BracketedString(t *testing.T) {
	m, err := Parse([]byte("---\nglobs: '[\"*.ts\", \"*.tsx\"]'\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"*.ts", "*.tsx"}, m.GetStrings("globs"))
}

func TestSet_OnEmptyManifest(t *testing.T) {
	m := &Manifest{Body: "Body\n"}
	m.Set("description", "added")

	out, err := m.Render()
	require.NoError(t, err)
	assert.Equal(t, "---\ndescription: added\n---\n\nBody\n", string(out))
}

func TestRender_PreservesOrderAndStyle(t *testing.T) {
	content := "---\nname: example\ndescription: |\n  Multi-line\n  description.\ntags:\n  - a\n  - b\n---\n\n# Example\n"
	m, err := Parse([]byte(content))
	require.NoError(t, err)

	out, err := m.Render()
	require.NoError(t, err)
	assert.Equal(t, content, string(out))
}

func TestRender_NoMetadata(t *testing.T) {
	m, err := Parse([]byte("---\nallowed-tools: Bash\n---\n\n# Body\n"))
	require.NoError(t, err)
	m.Delete("allowed-tools")

	out, err := m.Render()
	require.NoError(t, err)
	assert.Equal(t, "# Body\n", string(out))
}
