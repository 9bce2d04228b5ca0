// Package config loads the optional plotter configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrBadColor      = errors.New("config: bad color")
	ErrBadRenderer   = errors.New("config: bad renderer")
)

// Renderer names accepted in files and on the command line.
const (
	RendererRaster = "raster"
	RendererGG     = "gg"
)

// Equation is one configured function.
type Equation struct {
	Expression string `yaml:"expression" toml:"expression"`
	Color      string `yaml:"color" toml:"color"`
	// Visible defaults to true when omitted.
	Visible *bool `yaml:"visible" toml:"visible"`
}

// IsVisible reports the visibility of e, true when unset.
func (e Equation) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// File is the on-disk configuration.
type File struct {
	Width      int        `yaml:"width" toml:"width"`
	Height     int        `yaml:"height" toml:"height"`
	Scale      float64    `yaml:"scale" toml:"scale"`
	Renderer   string     `yaml:"renderer" toml:"renderer"`
	Background string     `yaml:"background" toml:"background"`
	LogLevel   string     `yaml:"log_level" toml:"log_level"`
	Equations  []Equation `yaml:"equations" toml:"equations"`
}

// Load reads path, decoding YAML for .yaml and .yml and TOML for .toml.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or ".toml")
// and validates the result.
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if und := md.Undecoded(); len(und) > 0 {
			return nil, fmt.Errorf("config: unknown key %q", und[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the renderer name, sizes and colors.
func (f *File) Validate() error {
	switch f.Renderer {
	case "", RendererRaster, RendererGG:
	default:
		return fmt.Errorf("%w: %q", ErrBadRenderer, f.Renderer)
	}
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("config: negative size %dx%d", f.Width, f.Height)
	}
	if f.Scale < 0 {
		return fmt.Errorf("config: negative scale %g", f.Scale)
	}
	if f.Background != "" {
		if _, err := ParseColor(f.Background); err != nil {
			return err
		}
	}
	for i, eq := range f.Equations {
		if eq.Color == "" {
			continue
		}
		if _, err := ParseColor(eq.Color); err != nil {
			return fmt.Errorf("equation %d: %w", i, err)
		}
	}
	return nil
}

// ParseColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa". The leading
// '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
	}
	c := gg.Hex(h)
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}, nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
