// Package ggcanvas implements canvas.Canvas on top of github.com/gogpu/gg
// for anti-aliased output.
//
// The gg context is kept at an identity matrix; coordinates, line widths
// and font sizes are transformed here so strokes and text scale with the
// device pixel ratio.
package ggcanvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"grafcalc/hal"
	"grafcalc/plotter/canvas"
)

// LabelSize is the label font size in logical pixels.
const LabelSize = 11.0

var (
	_ canvas.Canvas  = (*Canvas)(nil)
	_ canvas.Flusher = (*Canvas)(nil)
)

// Canvas draws through a gg.Context.
type Canvas struct {
	ctx *gg.Context
	fb  hal.Framebuffer
	bg  color.RGBA

	t         canvas.Transform
	stroke    color.RGBA
	lineWidth float64
	fill      color.RGBA
	hasPath   bool

	fonts *text.FontSource
	faces map[float64]text.Face
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the ClearRect color. The default is opaque black.
func WithBackground(c color.RGBA) Option {
	return func(cv *Canvas) { cv.bg = c }
}

// New returns a canvas presenting into fb, which must use
// hal.PixelFormatRGBA8888 or hal.PixelFormatRGB565. fb may be nil.
func New(fb hal.Framebuffer, opts ...Option) (*Canvas, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ggcanvas: load font: %w", err)
	}
	c := &Canvas{
		ctx:       gg.NewContext(1, 1),
		fb:        fb,
		bg:        color.RGBA{A: 0xFF},
		t:         canvas.Identity,
		lineWidth: 1,
		fonts:     src,
		faces:     make(map[float64]text.Face),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the gg context.
func (c *Canvas) Close() error { return c.ctx.Close() }

func (c *Canvas) SetSize(width, height int) error {
	if err := c.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("ggcanvas: %w", err)
	}
	c.ctx.ClearWithColor(toGG(c.bg))
	if c.fb != nil {
		if err := c.fb.Resize(width, height); err != nil {
			return fmt.Errorf("ggcanvas: resize framebuffer: %w", err)
		}
	}
	return nil
}

func (c *Canvas) ResetTransform()          { c.t = canvas.Identity }
func (c *Canvas) Scale(sx, sy float64)     { c.t = c.t.Scale(sx, sy) }
func (c *Canvas) Translate(tx, ty float64) { c.t = c.t.Translate(tx, ty) }

func (c *Canvas) SetStrokeStyle(col color.RGBA, width float64) {
	c.stroke = col
	c.lineWidth = width
}

func (c *Canvas) SetFillStyle(col color.RGBA) { c.fill = col }

func (c *Canvas) ClearRect(x, y, w, h float64) {
	x0, y0 := c.t.Apply(x, y)
	x1, y1 := c.t.Apply(x+w, y+h)
	if math.Min(x0, x1) <= 0 && math.Min(y0, y1) <= 0 &&
		math.Max(x0, x1) >= float64(c.ctx.Width()) && math.Max(y0, y1) >= float64(c.ctx.Height()) {
		c.ctx.ClearWithColor(toGG(c.bg))
		return
	}
	c.fillDevice(x0, y0, x1, y1, c.bg)
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	x0, y0 := c.t.Apply(x, y)
	x1, y1 := c.t.Apply(x+w, y+h)
	c.fillDevice(x0, y0, x1, y1, c.fill)
}

func (c *Canvas) fillDevice(x0, y0, x1, y1 float64, col color.RGBA) {
	c.ctx.ClearPath()
	c.ctx.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
	c.setColor(col)
	if err := c.ctx.Fill(); err != nil {
		gg.Logger().Debug("ggcanvas: fill", "err", err)
	}
	c.hasPath = false
}

func (c *Canvas) BeginPath() {
	c.ctx.ClearPath()
	c.hasPath = false
}

func (c *Canvas) MoveTo(x, y float64) {
	dx, dy := c.t.Apply(x, y)
	c.ctx.MoveTo(dx, dy)
	c.hasPath = true
}

func (c *Canvas) LineTo(x, y float64) {
	dx, dy := c.t.Apply(x, y)
	if !c.hasPath {
		c.ctx.MoveTo(dx, dy)
		c.hasPath = true
		return
	}
	c.ctx.LineTo(dx, dy)
}

func (c *Canvas) Stroke() {
	if !c.hasPath {
		return
	}
	c.setColor(c.stroke)
	c.ctx.SetLineWidth(c.lineWidth * c.meanScale())
	if err := c.ctx.Stroke(); err != nil {
		gg.Logger().Debug("ggcanvas: stroke", "err", err)
	}
	c.hasPath = false
}

func (c *Canvas) FillText(s string, x, y float64, align canvas.Align, baseline canvas.Baseline) {
	if s == "" {
		return
	}
	face := c.face(LabelSize * c.meanScale())
	ax, ay := c.t.Apply(x, y)
	switch align {
	case canvas.AlignCenter:
		ax -= face.Advance(s) / 2
	case canvas.AlignRight:
		ax -= face.Advance(s)
	}
	m := face.Metrics()
	switch baseline {
	case canvas.BaselineTop:
		ay += m.Ascent
	case canvas.BaselineMiddle:
		ay += (m.Ascent - m.Descent) / 2
	case canvas.BaselineBottom:
		ay -= m.Descent
	}
	c.ctx.SetFont(face)
	c.setColor(c.fill)
	c.ctx.DrawString(s, ax, ay)
}

func (c *Canvas) face(size float64) text.Face {
	size = math.Round(size*4) / 4
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := c.fonts.Face(size)
	c.faces[size] = f
	return f
}

func (c *Canvas) meanScale() float64 {
	return (math.Abs(c.t.SX) + math.Abs(c.t.SY)) / 2
}

func (c *Canvas) setColor(col color.RGBA) {
	g := toGG(col)
	c.ctx.SetRGBA(g.R, g.G, g.B, g.A)
}

// toGG converts a straight-alpha color.
func toGG(col color.RGBA) gg.RGBA {
	return gg.RGBA{
		R: float64(col.R) / 255,
		G: float64(col.G) / 255,
		B: float64(col.B) / 255,
		A: float64(col.A) / 255,
	}
}

// Image returns a copy of the current frame.
func (c *Canvas) Image() *image.RGBA {
	img, ok := c.ctx.Image().(*image.RGBA)
	if !ok {
		return nil
	}
	return img
}

// EncodePNG writes the current frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.ctx.FlushGPU(); err != nil {
		return fmt.Errorf("ggcanvas: flush: %w", err)
	}
	return c.ctx.EncodePNG(w)
}

var errFormat = errors.New("ggcanvas: unsupported framebuffer format")

// Flush copies the frame into the framebuffer and presents it.
func (c *Canvas) Flush() error {
	if c.fb == nil {
		return nil
	}
	if err := c.ctx.FlushGPU(); err != nil {
		return fmt.Errorf("ggcanvas: flush: %w", err)
	}
	img := c.Image()
	if img == nil {
		return errFormat
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if c.fb.Width() != w || c.fb.Height() != h {
		if err := c.fb.Resize(w, h); err != nil {
			return fmt.Errorf("ggcanvas: resize framebuffer: %w", err)
		}
	}
	buf, stride := c.fb.Buffer(), c.fb.StrideBytes()
	switch c.fb.Format() {
	case hal.PixelFormatRGBA8888:
		for y := 0; y < h; y++ {
			copy(buf[y*stride:y*stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
		}
	case hal.PixelFormatRGB565:
		for y := 0; y < h; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < w; x++ {
				p := hal.RGB565(row[x*4], row[x*4+1], row[x*4+2])
				buf[y*stride+x*2] = byte(p)
				buf[y*stride+x*2+1] = byte(p >> 8)
			}
		}
	default:
		return errFormat
	}
	return c.fb.Present()
}
