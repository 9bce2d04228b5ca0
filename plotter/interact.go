package plotter

import (
	"fmt"
	"math"
)

// PointRadius is the hover hit-test tolerance in screen pixels.
const PointRadius = 5.0

// Mode is the interaction state.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeHovering
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModeHovering:
		return "hovering"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Button is a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Cursor is the pointer shape the host should display.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorCrosshair
)

func (c Cursor) String() string {
	switch c {
	case CursorDefault:
		return "default"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorCrosshair:
		return "crosshair"
	default:
		return fmt.Sprintf("Cursor(%d)", uint8(c))
	}
}

// Tooltip is the hover inspection point, snapped onto the hit curve.
// Screen coordinates are centered.
type Tooltip struct {
	Visible  bool
	ScreenX  float64
	ScreenY  float64
	MathX    float64
	MathY    float64
	Equation int
}

// Controller is the pointer state machine. Coordinates are centered screen
// coordinates. It calls redraw whenever the frame changes and notify when
// only the mode or cursor changed.
type Controller struct {
	vp     *Viewport
	src    EquationSource
	ev     Evaluator
	redraw func()
	notify func()

	mode    Mode
	lastX   float64
	lastY   float64
	tooltip Tooltip
	cursor  Cursor
}

// NewController returns an idle controller driving vp.
func NewController(vp *Viewport, src EquationSource, ev Evaluator, redraw, notify func()) *Controller {
	if redraw == nil {
		redraw = func() {}
	}
	if notify == nil {
		notify = func() {}
	}
	return &Controller{
		vp:     vp,
		src:    src,
		ev:     ev,
		redraw: redraw,
		notify: notify,
		cursor: CursorGrab,
	}
}

func (c *Controller) Mode() Mode       { return c.mode }
func (c *Controller) Cursor() Cursor   { return c.cursor }
func (c *Controller) Tooltip() Tooltip { return c.tooltip }

// PointerDown starts a drag on the primary button. Other buttons are
// ignored.
func (c *Controller) PointerDown(x, y float64, b Button) {
	if b != ButtonPrimary {
		return
	}
	hadTooltip := c.tooltip.Visible
	c.mode = ModeDragging
	c.lastX, c.lastY = x, y
	c.tooltip = Tooltip{}
	c.cursor = CursorGrabbing
	c.changed(hadTooltip)
}

// PointerMove pans while dragging and hit-tests otherwise.
func (c *Controller) PointerMove(x, y float64) {
	if c.mode == ModeDragging {
		dx, dy := x-c.lastX, y-c.lastY
		c.lastX, c.lastY = x, y
		if dx == 0 && dy == 0 {
			return
		}
		c.vp.Pan(dx, dy)
		c.redraw()
		return
	}

	c.lastX, c.lastY = x, y
	prevMode, prevCursor, prev := c.mode, c.cursor, c.tooltip
	if tip, ok := c.HitTest(x, y); ok {
		c.mode = ModeHovering
		c.tooltip = tip
		c.cursor = CursorCrosshair
	} else {
		c.mode = ModeIdle
		c.tooltip = Tooltip{}
		c.cursor = CursorGrab
	}
	switch {
	case c.tooltip != prev:
		c.redraw()
	case c.mode != prevMode || c.cursor != prevCursor:
		c.notify()
	}
}

// PointerUp ends a drag or hover. It is idempotent.
func (c *Controller) PointerUp() { c.reset() }

// PointerLeave behaves like PointerUp.
func (c *Controller) PointerLeave() { c.reset() }

func (c *Controller) reset() {
	if c.mode == ModeIdle && !c.tooltip.Visible && c.cursor == CursorGrab {
		return
	}
	hadTooltip := c.tooltip.Visible
	c.mode = ModeIdle
	c.tooltip = Tooltip{}
	c.cursor = CursorGrab
	c.changed(hadTooltip)
}

// Wheel zooms when the zoom modifier is held: in for deltaY < 0, out for
// deltaY > 0. It reports whether the event was consumed, in which case the
// host must suppress its native scroll or zoom.
func (c *Controller) Wheel(deltaY float64, modifier bool) bool {
	if !modifier {
		return false
	}
	switch {
	case deltaY < 0:
		c.Zoom(ZoomIn)
	case deltaY > 0:
		c.Zoom(ZoomOut)
	}
	return true
}

// Zoom zooms the viewport and redraws when the scale changed. A visible
// tooltip is dropped since its screen position no longer holds.
func (c *Controller) Zoom(dir ZoomDirection) bool {
	if !c.vp.Zoom(dir) {
		return false
	}
	c.hideTooltip()
	c.redraw()
	return true
}

// HitTest returns the tooltip for the first drawable equation whose curve
// passes within PointRadius of (x, y) vertically.
func (c *Controller) HitTest(x, y float64) (Tooltip, bool) {
	mx, _ := c.vp.ToMath(x, y)
	for i, eq := range c.src.Equations() {
		if !eq.Drawable() {
			continue
		}
		my, ok := evalFinite(c.ev, eq.Expression, mx)
		if !ok {
			continue
		}
		_, sy := c.vp.ToScreen(mx, my)
		if math.Abs(sy-y) <= PointRadius {
			return Tooltip{
				Visible:  true,
				ScreenX:  x,
				ScreenY:  sy,
				MathX:    mx,
				MathY:    my,
				Equation: i,
			}, true
		}
	}
	return Tooltip{}, false
}

// revalidate re-runs the hit test at the last pointer position so a
// tooltip never outlives the equation or view it was computed for. It does
// not redraw.
func (c *Controller) revalidate() {
	if c.mode != ModeHovering {
		return
	}
	if tip, ok := c.HitTest(c.lastX, c.lastY); ok {
		c.tooltip = tip
		return
	}
	c.mode = ModeIdle
	c.tooltip = Tooltip{}
	c.cursor = CursorGrab
}

func (c *Controller) hideTooltip() {
	if c.mode == ModeHovering {
		c.mode = ModeIdle
		c.cursor = CursorGrab
	}
	c.tooltip = Tooltip{}
}

func (c *Controller) changed(visual bool) {
	if visual {
		c.redraw()
		return
	}
	c.notify()
}
