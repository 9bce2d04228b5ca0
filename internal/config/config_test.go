package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

var wantFile = &File{
	Width:      640,
	Height:     480,
	Scale:      80,
	Renderer:   RendererGG,
	Background: "#101010",
	Equations: []Equation{
		{Expression: "sin(x)", Color: "#ff0000"},
		{Expression: "x^2", Visible: boolPtr(false)},
	},
}

const yamlDoc = `
width: 640
height: 480
scale: 80
renderer: gg
background: "#101010"
equations:
  - expression: sin(x)
    color: "#ff0000"
  - expression: x^2
    visible: false
`

const tomlDoc = `
width = 640
height = 480
scale = 80
renderer = "gg"
background = "#101010"

[[equations]]
expression = "sin(x)"
color = "#ff0000"

[[equations]]
expression = "x^2"
visible = false
`

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		ext, doc string
	}{
		{".yaml", yamlDoc},
		{".yml", yamlDoc},
		{".toml", tomlDoc},
		{".TOML", tomlDoc},
	} {
		got, err := Parse([]byte(tc.doc), tc.ext)
		require.NoError(t, err, tc.ext)
		if diff := cmp.Diff(wantFile, got); diff != "" {
			t.Fatalf("Parse(%s) mismatch (-want +got):\n%s", tc.ext, diff)
		}
		require.True(t, got.Equations[0].IsVisible())
		require.False(t, got.Equations[1].IsVisible())
	}
}

func TestParseEmptyYAML(t *testing.T) {
	got, err := Parse(nil, ".yaml")
	require.NoError(t, err)
	require.Equal(t, &File{}, got)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name, ext, doc string
		want           error
	}{
		{"format", ".json", "{}", ErrUnknownFormat},
		{"renderer", ".yaml", "renderer: vulkan", ErrBadRenderer},
		{"background", ".toml", `background = "#zzzzzz"`, ErrBadColor},
		{"equation color", ".yaml", "equations:\n  - expression: x\n    color: red", ErrBadColor},
	} {
		_, err := Parse([]byte(tc.doc), tc.ext)
		require.Error(t, err, tc.name)
		require.True(t, errors.Is(err, tc.want), "%s: %v", tc.name, err)
	}

	_, err := Parse([]byte("widht: 3"), ".yaml")
	require.Error(t, err)
	_, err = Parse([]byte("widht = 3"), ".toml")
	require.Error(t, err)
	_, err = Parse([]byte("width: -1"), ".yaml")
	require.Error(t, err)
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]color.RGBA{
		"#00ff00":   {0, 255, 0, 255},
		"0000ff":    {0, 0, 255, 255},
		"#fff":      {255, 255, 255, 255},
		"#ff000080": {255, 0, 0, 128},
	} {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "#12345", "#gg0000"} {
		_, err := ParseColor(in)
		require.ErrorIs(t, err, ErrBadColor, in)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlDoc), 0o644))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 640, got.Width)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
