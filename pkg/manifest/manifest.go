// Package manifest parses and renders SKILL.md style manifests: an optional
// YAML front-matter block delimited by "---" lines followed by a markdown
// body. Front-matter keys keep their original order through a round trip.
package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file name skills are authored with.
const FileName = "SKILL.md"

const delimiter = "---"

// Manifest is a parsed manifest. The zero value has no metadata and an
// empty body.
type Manifest struct {
	meta *yaml.Node
	Body string
}

// Parse splits content into front-matter metadata and body. Content that
// does not start with a "---" line has no metadata and is all body.
func Parse(content []byte) (*Manifest, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return &Manifest{Body: text}, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, &MalformedManifestError{Reason: "unterminated front-matter block"}
	}

	block := strings.Join(lines[1:end], "")
	body := strings.TrimLeft(strings.Join(lines[end+1:], ""), "\n")

	meta, err := parseMetadata(block)
	if err != nil {
		return nil, err
	}
	return &Manifest{meta: meta, Body: body}, nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\n") == delimiter
}

func parseMetadata(block string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, &MalformedManifestError{Reason: "invalid YAML in front-matter", Err: err}
	}

	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch {
	case root.Kind == yaml.MappingNode:
		seen := make(map[string]bool, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i].Value
			if seen[key] {
				return nil, &MalformedManifestError{Reason: fmt.Sprintf("duplicate front-matter key %q", key)}
			}
			seen[key] = true
		}
		return root, nil
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		return nil, nil
	default:
		return nil, &MalformedManifestError{Reason: "front-matter is not a key/value mapping"}
	}
}

// Len returns the number of metadata keys.
func (m *Manifest) Len() int {
	if m.meta == nil {
		return 0
	}
	return len(m.meta.Content) / 2
}

// Keys returns metadata keys in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		keys = append(keys, m.meta.Content[2*i].Value)
	}
	return keys
}

func (m *Manifest) index(key string) int {
	for i := 0; i < m.Len(); i++ {
		if m.meta.Content[2*i].Value == key {
			return 2 * i
		}
	}
	return -1
}

// Has reports whether key is present.
func (m *Manifest) Has(key string) bool {
	return m.index(key) >= 0
}

// Node returns the raw value node for key, or nil.
func (m *Manifest) Node(key string) *yaml.Node {
	i := m.index(key)
	if i < 0 {
		return nil
	}
	return m.meta.Content[i+1]
}

// Get returns the value of a scalar key. Non-scalar values report false.
func (m *Manifest) Get(key string) (string, bool) {
	n := m.Node(key)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// GetStrings returns the value of key as a list of strings. A sequence
// yields its scalar items, and a scalar is split on commas so that
// "a, b" and "[a, b]" written as plain strings both work.
func (m *Manifest) GetStrings(key string) []string {
	n := m.Node(key)
	if n == nil {
		return nil
	}

	var values []string
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				values = appendTrimmed(values, item.Value)
			}
		}
	case yaml.ScalarNode:
		s := strings.TrimSpace(n.Value)
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		for _, part := range strings.Split(s, ",") {
			values = appendTrimmed(values, strings.Trim(strings.TrimSpace(part), `"'`))
		}
	}
	return values
}

func appendTrimmed(values []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return values
	}
	return append(values, s)
}

// Set assigns a scalar value to key, appending the key if it is new.
func (m *Manifest) Set(key, value string) {
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if i := m.index(key); i >= 0 {
		m.meta.Content[i+1] = valueNode
		return
	}
	if m.meta == nil {
		m.meta = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	m.meta.Content = append(m.meta.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		valueNode,
	)
}

// Delete removes key and reports whether it was present.
func (m *Manifest) Delete(key string) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	m.meta.Content = append(m.meta.Content[:i], m.meta.Content[i+2:]...)
	return true
}

// Clear drops all metadata.
func (m *Manifest) Clear() {
	m.meta = nil
}

// Render serializes the manifest. The front-matter block is omitted when
// there is no metadata.
func (m *Manifest) Render() ([]byte, error) {
	if m.Len() == 0 {
		return []byte(m.Body), nil
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.meta); err != nil {
		return nil, errors.Wrap(err, "failed to encode front-matter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode front-matter")
	}

	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(m.Body)
	return buf.Bytes(), nil
}
