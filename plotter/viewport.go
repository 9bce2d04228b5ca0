package plotter

import "math"

const (
	MinScale     = 5.0
	MaxScale     = 400.0
	DefaultScale = 50.0
	ZoomFactor   = 1.2
)

// ZoomDirection selects Zoom's direction.
type ZoomDirection int8

const (
	ZoomOut ZoomDirection = -1
	ZoomIn  ZoomDirection = 1
)

// Viewport maps math space onto screen space.
//
// Screen space is centered: (0, 0) is the middle of the surface and y grows
// downward. Scale is in pixels per math unit; OffsetX and OffsetY are the
// screen position of the math origin. Width and Height are the surface size
// in device-independent pixels.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// NewViewport returns a viewport at the default scale with the math origin
// at the surface center.
func NewViewport(width, height float64) Viewport {
	return Viewport{Scale: DefaultScale, Width: width, Height: height}
}

// Reset restores the default scale and recenters the origin. The surface
// size is kept.
func (v *Viewport) Reset() {
	v.Scale = DefaultScale
	v.OffsetX = 0
	v.OffsetY = 0
}

func (v Viewport) ToScreen(mx, my float64) (sx, sy float64) {
	return mx*v.Scale + v.OffsetX, -my*v.Scale + v.OffsetY
}

func (v Viewport) ToMath(sx, sy float64) (mx, my float64) {
	return (sx - v.OffsetX) / v.Scale, -(sy - v.OffsetY) / v.Scale
}

// Zoom multiplies or divides the scale by ZoomFactor, clamped to
// [MinScale, MaxScale]. It reports false and leaves the viewport unchanged
// when the scale already sits at the bound in that direction.
func (v *Viewport) Zoom(dir ZoomDirection) bool {
	var next float64
	switch {
	case dir > 0:
		if v.Scale >= MaxScale {
			return false
		}
		next = math.Min(v.Scale*ZoomFactor, MaxScale)
	case dir < 0:
		if v.Scale <= MinScale {
			return false
		}
		next = math.Max(v.Scale/ZoomFactor, MinScale)
	default:
		return false
	}
	v.Scale = next
	return true
}

// Pan moves the math origin by (dx, dy) screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Resize changes the surface size only.
func (v *Viewport) Resize(width, height float64) {
	v.Width = width
	v.Height = height
}

// ClientToScreen converts a host pointer position (top-left origin) into
// centered screen coordinates.
func (v Viewport) ClientToScreen(cx, cy float64) (sx, sy float64) {
	return cx - v.Width/2, cy - v.Height/2
}

// ScreenToClient is the inverse of ClientToScreen.
func (v Viewport) ScreenToClient(sx, sy float64) (cx, cy float64) {
	return sx + v.Width/2, sy + v.Height/2
}

// Rect is an axis-aligned math-space rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// VisibleRange returns the math-space rectangle covered by the surface.
func (v Viewport) VisibleRange() Rect {
	x0, y0 := v.ToMath(-v.Width/2, v.Height/2)
	x1, y1 := v.ToMath(v.Width/2, -v.Height/2)
	return Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}
