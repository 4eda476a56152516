package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name       string
		noColor    string
		colorValue string
		expected   ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLXFER_COLOR always", "", "always", ColorAlways},
		{"SKILLXFER_COLOR force", "", "force", ColorAlways},
		{"SKILLXFER_COLOR never", "", "never", ColorNever},
		{"SKILLXFER_COLOR off", "", "off", ColorNever},
		{"SKILLXFER_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLXFER_COLOR", tt.colorValue)

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	err := errors.New("clone failed")
	presenter.Error(err, "resolving source")

	output := errorOutput.String()
	assert.Contains(t, output, "[ERROR]")
	assert.Contains(t, output, "resolving source")
	assert.Contains(t, output, "clone failed")

	errorOutput.Reset()
	presenter.Error(err, "")
	assert.Equal(t, "[ERROR] clone failed\n", errorOutput.String())

	errorOutput.Reset()
	presenter.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestMessages(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Success("installed")
	presenter.Warning("no CLIs detected")
	presenter.Info("plain")

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✓ installed", lines[0])
	assert.Equal(t, "⚠ no CLIs detected", lines[1])
	assert.Equal(t, "plain", lines[2])
}

func TestQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)
	assert.True(t, presenter.IsQuiet())

	presenter.Success("installed")
	presenter.Warning("careful")
	presenter.Info("info")
	presenter.Section("Skills")
	presenter.Separator()

	assert.Empty(t, output.String())
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Section("Install report")

	assert.Equal(t, "Install report\n--------------\n", output.String())
}

func TestTable(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Table(
		[]string{"SKILL", "CLI"},
		[][]string{
			{"pdf-tools", "cursor"},
			{"x", "gemini"},
		},
	)

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "SKILL      CLI", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "-----      ---", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "pdf-tools  cursor", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "x          gemini", strings.TrimRight(lines[3], " "))
}

func TestSetDefault(t *testing.T) {
	var output bytes.Buffer
	prev := SetDefault(NewWithOptions(&output, &output, ColorNever))
	defer SetDefault(prev)

	Info("hello")
	Error(errors.New("boom"), "")

	assert.Equal(t, "hello\n[ERROR] boom\n", output.String())
}
