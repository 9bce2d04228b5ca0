// Package raster is a software canvas.Canvas that draws into an RGBA back
// buffer and hands finished frames to a hal.Framebuffer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"grafcalc/hal"
	"grafcalc/plotter/canvas"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// maxSide bounds each buffer dimension. Glyph positions are int16.
const maxSide = math.MaxInt16

var (
	_ canvas.Canvas     = (*Canvas)(nil)
	_ canvas.Flusher    = (*Canvas)(nil)
	_ drivers.Displayer = (*Canvas)(nil)
)

// Canvas rasterizes strokes with a square brush, fills axis-aligned
// rectangles and draws text with a fixed bitmap font. Blending is source
// over; every pixel of one Stroke is blended once.
type Canvas struct {
	fb  hal.Framebuffer
	img *image.RGBA
	bg  color.RGBA

	t         canvas.Transform
	stroke    color.RGBA
	lineWidth float64
	fill      color.RGBA
	path      [][]canvas.Point

	font *faceFont

	mask    []bool
	touched []int
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the color ClearRect resets to. The default is opaque
// black.
func WithBackground(c color.RGBA) Option {
	return func(cv *Canvas) { cv.bg = c }
}

// New returns a canvas presenting into fb. fb may be nil, in which case
// frames stay in the back buffer (see Image).
func New(fb hal.Framebuffer, opts ...Option) *Canvas {
	c := &Canvas{
		fb:        fb,
		img:       image.NewRGBA(image.Rectangle{}),
		bg:        color.RGBA{A: 0xFF},
		t:         canvas.Identity,
		lineWidth: 1,
		font:      defaultFont(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSize reallocates the back buffer and resizes the framebuffer to match.
func (c *Canvas) SetSize(width, height int) error {
	if width <= 0 || height <= 0 || width > maxSide || height > maxSide {
		return fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.mask = make([]bool, width*height)
	c.touched = c.touched[:0]
	c.fillDevice(0, 0, width, height, c.bg, false)
	if c.fb != nil {
		if err := c.fb.Resize(width, height); err != nil {
			return fmt.Errorf("raster: resize framebuffer: %w", err)
		}
	}
	return nil
}

// Image returns the back buffer. It is valid until the next SetSize.
func (c *Canvas) Image() *image.RGBA { return c.img }

// EncodePNG writes the back buffer as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
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
	x0, y0, x1, y1 := c.deviceRect(x, y, w, h)
	c.fillDevice(x0, y0, x1, y1, c.bg, false)
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	x0, y0, x1, y1 := c.deviceRect(x, y, w, h)
	c.fillDevice(x0, y0, x1, y1, c.fill, true)
}

func (c *Canvas) deviceRect(x, y, w, h float64) (x0, y0, x1, y1 int) {
	ax, ay := c.t.Apply(x, y)
	bx, by := c.t.Apply(x+w, y+h)
	x0 = int(math.Round(math.Min(ax, bx)))
	x1 = int(math.Round(math.Max(ax, bx)))
	y0 = int(math.Round(math.Min(ay, by)))
	y1 = int(math.Round(math.Max(ay, by)))
	return x0, y0, x1, y1
}

func (c *Canvas) fillDevice(x0, y0, x1, y1 int, col color.RGBA, blend bool) {
	b := c.img.Rect
	x0 = clampInt(x0, b.Min.X, b.Max.X)
	x1 = clampInt(x1, b.Min.X, b.Max.X)
	y0 = clampInt(y0, b.Min.Y, b.Max.Y)
	y1 = clampInt(y1, b.Min.Y, b.Max.Y)
	for py := y0; py < y1; py++ {
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px, off = px+1, off+4 {
			if blend {
				blendAt(c.img.Pix[off:off+4:off+4], col)
				continue
			}
			c.img.Pix[off+0] = col.R
			c.img.Pix[off+1] = col.G
			c.img.Pix[off+2] = col.B
			c.img.Pix[off+3] = col.A
		}
	}
}

func (c *Canvas) BeginPath() { c.path = c.path[:0] }

// MoveTo and LineTo transform at call time, like a 2D canvas.
func (c *Canvas) MoveTo(x, y float64) {
	dx, dy := c.t.Apply(x, y)
	c.path = append(c.path, []canvas.Point{{X: dx, Y: dy}})
}

func (c *Canvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	dx, dy := c.t.Apply(x, y)
	last := len(c.path) - 1
	c.path[last] = append(c.path[last], canvas.Point{X: dx, Y: dy})
}

// Stroke paints the current path and clears it.
func (c *Canvas) Stroke() {
	w, h := c.img.Rect.Dx(), c.img.Rect.Dy()
	if w == 0 || h == 0 {
		c.path = c.path[:0]
		return
	}
	brush := int(math.Round(c.lineWidth * (math.Abs(c.t.SX) + math.Abs(c.t.SY)) / 2))
	if brush < 1 {
		brush = 1
	}
	lo := -(brush - 1) / 2
	hi := lo + brush - 1
	pad := float64(brush)
	xmin, ymin := -pad, -pad
	xmax, ymax := float64(w-1)+pad, float64(h-1)+pad

	for _, sub := range c.path {
		for i := 1; i < len(sub); i++ {
			p0, p1 := sub[i-1], sub[i]
			cx0, cy0, cx1, cy1, ok := clipLineToRect(p0.X, p0.Y, p1.X, p1.Y, xmin, ymin, xmax, ymax)
			if !ok {
				continue
			}
			c.line(roundInt(cx0), roundInt(cy0), roundInt(cx1), roundInt(cy1), lo, hi)
		}
	}
	for _, i := range c.touched {
		c.mask[i] = false
		blendAt(c.img.Pix[i*4:i*4+4:i*4+4], c.stroke)
	}
	c.touched = c.touched[:0]
	c.path = c.path[:0]
}

// line walks a Bresenham line and stamps the brush at every step.
func (c *Canvas) line(x0, y0, x1, y1, lo, hi int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		for by := lo; by <= hi; by++ {
			for bx := lo; bx <= hi; bx++ {
				c.mark(x0+bx, y0+by)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) mark(x, y int) {
	w := c.img.Rect.Dx()
	if x < 0 || y < 0 || x >= w || y >= c.img.Rect.Dy() {
		return
	}
	i := y*w + x
	if c.mask[i] {
		return
	}
	c.mask[i] = true
	c.touched = append(c.touched, i)
}

// FillText draws s with the bitmap font. Glyphs are not scaled by the
// transform; only the anchor is.
func (c *Canvas) FillText(s string, x, y float64, align canvas.Align, baseline canvas.Baseline) {
	if s == "" {
		return
	}
	ax, ay := c.t.Apply(x, y)
	_, width := tinyfont.LineWidth(c.font, s)
	switch align {
	case canvas.AlignCenter:
		ax -= float64(width) / 2
	case canvas.AlignRight:
		ax -= float64(width)
	}
	switch baseline {
	case canvas.BaselineTop:
		ay += float64(c.font.ascent)
	case canvas.BaselineMiddle:
		ay += float64(c.font.ascent-c.font.descent) / 2
	case canvas.BaselineBottom:
		ay -= float64(c.font.descent)
	}
	if math.Abs(ax) > maxSide || math.Abs(ay) > maxSide {
		return
	}
	tinyfont.WriteLine(c, c.font, int16(roundInt(ax)), int16(roundInt(ay)), s, c.fill)
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.img.Rect.Dx()), int16(c.img.Rect.Dy())
}

// SetPixel implements drivers.Displayer. It blends c over the back buffer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(c.img.Rect) {
		return
	}
	off := c.img.PixOffset(int(x), int(y))
	blendAt(c.img.Pix[off:off+4:off+4], col)
}

// Display implements drivers.Displayer.
func (c *Canvas) Display() error { return c.Flush() }

var errFormat = errors.New("raster: unsupported framebuffer format")

// Flush copies the back buffer into the framebuffer and presents it.
func (c *Canvas) Flush() error {
	if c.fb == nil {
		return nil
	}
	w, h := c.img.Rect.Dx(), c.img.Rect.Dy()
	if c.fb.Width() != w || c.fb.Height() != h {
		if err := c.fb.Resize(w, h); err != nil {
			return fmt.Errorf("raster: resize framebuffer: %w", err)
		}
	}
	buf := c.fb.Buffer()
	stride := c.fb.StrideBytes()
	switch c.fb.Format() {
	case hal.PixelFormatRGBA8888:
		for y := 0; y < h; y++ {
			copy(buf[y*stride:y*stride+w*4], c.img.Pix[y*c.img.Stride:y*c.img.Stride+w*4])
		}
	case hal.PixelFormatRGB565:
		for y := 0; y < h; y++ {
			src := c.img.Pix[y*c.img.Stride:]
			row := y * stride
			for x := 0; x < w; x++ {
				p := hal.RGB565(src[x*4], src[x*4+1], src[x*4+2])
				buf[row+x*2] = byte(p)
				buf[row+x*2+1] = byte(p >> 8)
			}
		}
	default:
		return errFormat
	}
	return c.fb.Present()
}

// blendAt composites src over the pixel p (non-premultiplied RGBA).
func blendAt(p []byte, src color.RGBA) {
	a := uint32(src.A)
	switch a {
	case 0:
		return
	case 0xFF:
		p[0], p[1], p[2], p[3] = src.R, src.G, src.B, 0xFF
		return
	}
	ia := 255 - a
	p[0] = uint8((uint32(src.R)*a + uint32(p[0])*ia + 127) / 255)
	p[1] = uint8((uint32(src.G)*a + uint32(p[1])*ia + 127) / 255)
	p[2] = uint8((uint32(src.B)*a + uint32(p[2])*ia + 127) / 255)
	p[3] = uint8(a + (uint32(p[3])*ia+127)/255)
}
