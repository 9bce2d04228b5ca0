package ggcanvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"grafcalc/hal"
	"grafcalc/plotter/canvas"

	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 0xFF, A: 0xFF}

func newCanvas(t *testing.T, fb hal.Framebuffer, w, h int) *Canvas {
	t.Helper()
	c, err := New(fb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.SetSize(w, h))
	c.ResetTransform()
	c.Translate(float64(w)/2, float64(h)/2)
	return c
}

func near(t *testing.T, want color.RGBA, img *image.RGBA, x, y int) {
	t.Helper()
	got := img.RGBAAt(x, y)
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	require.LessOrEqual(t, d(want.R, got.R)+d(want.G, got.G)+d(want.B, got.B), 6,
		"pixel %d,%d = %v, want %v", x, y, got, want)
}

func TestFillAndClear(t *testing.T) {
	c := newCanvas(t, nil, 40, 20)
	c.SetFillStyle(red)
	c.FillRect(-20, -10, 40, 20)
	img := c.Image()
	require.NotNil(t, img)
	near(t, red, img, 20, 10)

	c.ClearRect(-20, -10, 40, 20)
	near(t, color.RGBA{A: 0xFF}, c.Image(), 20, 10)
}

func TestStroke(t *testing.T) {
	c := newCanvas(t, nil, 40, 20)
	c.SetStrokeStyle(red, 4)
	c.BeginPath()
	c.MoveTo(-15, 0)
	c.LineTo(15, 0)
	c.Stroke()
	img := c.Image()
	near(t, red, img, 20, 10)
	near(t, color.RGBA{A: 0xFF}, img, 20, 2)
}

func TestFillTextDraws(t *testing.T) {
	c := newCanvas(t, nil, 80, 30)
	c.SetFillStyle(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	c.FillText("12", 0, 0, canvas.AlignCenter, canvas.BaselineMiddle)
	img := c.Image()
	var lit int
	for y := 0; y < 30; y++ {
		for x := 0; x < 80; x++ {
			if img.RGBAAt(x, y).R > 0x80 {
				lit++
			}
		}
	}
	require.Positive(t, lit)
}

func TestFlushIntoFramebuffer(t *testing.T) {
	fb, err := hal.NewFramebuffer(0, 0, hal.PixelFormatRGBA8888)
	require.NoError(t, err)
	c := newCanvas(t, fb, 8, 4)
	require.Equal(t, 8, fb.Width())
	c.SetFillStyle(red)
	c.FillRect(-4, -2, 8, 4)
	require.NoError(t, c.Flush())
	px := fb.Buffer()[:4]
	require.Greater(t, px[0], uint8(0xF0))
	require.Less(t, px[1], uint8(0x10))
}

func TestEncodePNG(t *testing.T) {
	c := newCanvas(t, nil, 6, 5)
	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 5), img.Bounds())
}
