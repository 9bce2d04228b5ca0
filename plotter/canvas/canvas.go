// Package canvas defines the immediate-mode drawing surface the plotter
// renders onto.
//
// The contract mirrors a 2D canvas: a backing buffer sized in physical
// pixels, an affine transform (uniform scale plus translation) applied to
// every coordinate, path stroking, rectangle fills and single-line text with
// alignment and baseline control. Implementations live in subpackages.
package canvas

import "image/color"

// Align is the horizontal text alignment relative to the anchor x.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Baseline is the vertical text alignment relative to the anchor y.
type Baseline uint8

const (
	BaselineAlphabetic Baseline = iota
	BaselineTop
	BaselineMiddle
	BaselineBottom
)

// Canvas is a 2D immediate-mode drawing surface.
//
// Coordinates passed to drawing calls are user-space coordinates; the
// current transform maps them to physical pixels. Line widths and text
// positions are transformed as well.
type Canvas interface {
	// SetSize reallocates the backing buffer in physical pixels.
	// Previous contents are discarded.
	SetSize(width, height int) error

	ResetTransform()
	Scale(sx, sy float64)
	Translate(tx, ty float64)

	// ClearRect resets the rectangle to the surface background.
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)

	SetStrokeStyle(c color.RGBA, width float64)
	SetFillStyle(c color.RGBA)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	FillText(s string, x, y float64, align Align, baseline Baseline)
}

// Flusher is implemented by canvases that buffer output and need an explicit
// hand-off at the end of a frame.
type Flusher interface {
	Flush() error
}

// Transform is a uniform-scale-plus-translation affine map:
// device = user*S + T.
type Transform struct {
	SX, SY float64
	TX, TY float64
}

// Identity is the transform that maps user space onto device space unchanged.
var Identity = Transform{SX: 1, SY: 1}

// Scale returns t with a scale applied in user space, like a 2D canvas scale().
func (t Transform) Scale(sx, sy float64) Transform {
	t.SX *= sx
	t.SY *= sy
	return t
}

// Translate returns t with a translation applied in user space.
func (t Transform) Translate(tx, ty float64) Transform {
	t.TX += tx * t.SX
	t.TY += ty * t.SY
	return t
}

// Apply maps a user-space point to device space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.SX + t.TX, y*t.SY + t.TY
}

// Invert maps a device-space point back to user space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.TX) / t.SX, (y - t.TY) / t.SY
}
