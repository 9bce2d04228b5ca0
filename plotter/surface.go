package plotter

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"grafcalc/plotter/canvas"
)

// SurfaceHost supplies the drawing surface and its layout.
type SurfaceHost interface {
	// Canvas returns the drawing surface.
	Canvas() (canvas.Canvas, error)
	// LogicalSize is the surface size in device-independent pixels.
	LogicalSize() (width, height float64)
	DevicePixelRatio() float64
}

// Message texts published in State.
const (
	msgNotReady    = "surface is not ready"
	msgUnavailable = "drawing surface unavailable"
	msgTornDown    = "plotter closed"
)

// Option configures a Plotter.
type Option func(*Plotter)

// WithLogger sets the logger. By default the Plotter logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plotter) {
		if l != nil {
			p.log = l
		}
	}
}

// WithEvaluator replaces the default mathexpr-backed evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(p *Plotter) {
		if ev != nil {
			p.ev = ev
		}
	}
}

// WithGridStyle overrides DefaultGridStyle.
func WithGridStyle(st GridStyle) Option {
	return func(p *Plotter) { p.grid = st }
}

// WithInitialScale sets the scale the viewport starts at and returns to on
// ResetView. It is clamped to [MinScale, MaxScale].
func WithInitialScale(scale float64) Option {
	return func(p *Plotter) {
		if scale > 0 && !math.IsInf(scale, 0) {
			p.initialScale = math.Max(MinScale, math.Min(MaxScale, scale))
		}
	}
}

// Plotter binds equations, viewport and interaction to a drawing surface.
type Plotter struct {
	log          *slog.Logger
	ev           Evaluator
	src          EquationSource
	grid         GridStyle
	initialScale float64

	host SurfaceHost
	c    canvas.Canvas
	vp   Viewport
	ctrl *Controller
	dpr  float64

	ready   bool
	fatal   error
	closed  bool
	message string
	frames  uint64

	subs    map[int]func(State)
	nextSub int
}

// New returns a Plotter drawing the equations of src. It does nothing
// visible until Initialize succeeds.
func New(src EquationSource, opts ...Option) *Plotter {
	p := &Plotter{
		log:          newNopLogger(),
		ev:           NewMathEvaluator(),
		src:          src,
		grid:         DefaultGridStyle,
		initialScale: DefaultScale,
		dpr:          1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.src == nil {
		p.src = EquationSlice(nil)
	}
	return p
}

// Evaluator returns the evaluator used for sampling and validation.
func (p *Plotter) Evaluator() Evaluator { return p.ev }

// Viewport returns a copy of the current viewport.
func (p *Plotter) Viewport() Viewport { return p.vp }

// Ready reports whether the surface is initialized.
func (p *Plotter) Ready() bool { return p.ready }

// Initialize binds the plotter to host and draws the first frame.
//
// ErrSurfaceUnavailable is fatal: later calls return the same error. With
// ErrLayoutNotReady the host is remembered and initialization completes on
// the first OnResize reporting a non-zero size.
func (p *Plotter) Initialize(host SurfaceHost) error {
	if p.closed {
		return ErrTornDown
	}
	if p.fatal != nil {
		return p.fatal
	}
	if p.ready {
		return nil
	}
	c, err := host.Canvas()
	if err == nil && c == nil {
		err = errors.New("host returned no canvas")
	}
	if err != nil {
		return p.fail(err)
	}
	p.host = host
	p.c = c
	w, h := host.LogicalSize()
	return p.setup(w, h, host.DevicePixelRatio())
}

func (p *Plotter) setup(w, h, dpr float64) error {
	if !(w > 0 && h > 0) {
		p.log.Debug("layout not ready", "width", w, "height", h)
		p.message = msgNotReady
		p.publish()
		return fmt.Errorf("%w: size %gx%g", ErrLayoutNotReady, w, h)
	}
	dpr = sanitizeDPR(dpr)
	if err := p.configure(w, h, dpr); err != nil {
		return p.fail(err)
	}
	p.vp = NewViewport(w, h)
	p.vp.Scale = p.initialScale
	p.ctrl = NewController(&p.vp, p.src, p.ev, p.Redraw, p.publish)
	p.ready = true
	p.message = ""
	p.log.Info("surface initialized", "width", w, "height", h, "dpr", dpr)
	p.Redraw()
	return nil
}

func (p *Plotter) fail(err error) error {
	p.fatal = fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	p.ready = false
	p.c = nil
	p.message = msgUnavailable
	p.log.Error("surface initialization failed", "err", err)
	p.publish()
	return p.fatal
}

// configure sizes the backing buffer and installs the transform mapping
// centered logical coordinates onto physical pixels.
func (p *Plotter) configure(w, h, dpr float64) error {
	pw := int(math.Ceil(w * dpr))
	ph := int(math.Ceil(h * dpr))
	if err := p.c.SetSize(pw, ph); err != nil {
		return fmt.Errorf("resize surface to %dx%d: %w", pw, ph, err)
	}
	p.c.ResetTransform()
	p.c.Scale(dpr, dpr)
	p.c.Translate(w/2, h/2)
	p.dpr = dpr
	return nil
}

func sanitizeDPR(dpr float64) float64 {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		return 1
	}
	return dpr
}

// OnResize reports a new logical size and device pixel ratio. The view's
// scale and offsets are kept. A pending initialization is completed.
func (p *Plotter) OnResize(w, h, dpr float64) error {
	switch {
	case p.closed:
		return ErrTornDown
	case p.fatal != nil:
		return p.fatal
	case !p.ready:
		if p.c == nil {
			return fmt.Errorf("%w: not initialized", ErrLayoutNotReady)
		}
		return p.setup(w, h, dpr)
	case !(w > 0 && h > 0):
		// Keep the last frame while the host is collapsed.
		return fmt.Errorf("%w: size %gx%g", ErrLayoutNotReady, w, h)
	}
	dpr = sanitizeDPR(dpr)
	if w == p.vp.Width && h == p.vp.Height && dpr == p.dpr {
		return nil
	}
	if err := p.configure(w, h, dpr); err != nil {
		return p.fail(err)
	}
	p.vp.Resize(w, h)
	p.log.Debug("surface resized", "width", w, "height", h, "dpr", dpr)
	p.Redraw()
	return nil
}

// Teardown releases the surface. Observers receive a final snapshot and
// are then dropped. Every later call is a no-op or returns ErrTornDown.
func (p *Plotter) Teardown() {
	if p.closed {
		return
	}
	p.closed = true
	p.ready = false
	p.c = nil
	p.host = nil
	if p.ctrl != nil {
		p.ctrl.hideTooltip()
	}
	p.message = msgTornDown
	p.log.Info("surface torn down", "frames", p.frames)
	p.publish()
	p.subs = nil
}

// Redraw renders a full frame: clear, grid, curves, tooltip overlay.
func (p *Plotter) Redraw() {
	if !p.ready {
		if !p.closed && p.fatal == nil {
			p.message = msgNotReady
			p.publish()
		}
		return
	}
	p.ctrl.revalidate()

	w, h := p.vp.Width, p.vp.Height
	p.c.ClearRect(-w/2, -h/2, w, h)
	DrawGrid(p.c, p.vp, GridLines(p.vp), p.grid)
	DrawCurves(p.c, SampleCurves(p.ev, p.vp, p.src.Equations()))
	p.drawTooltip()

	if f, ok := p.c.(canvas.Flusher); ok {
		if err := f.Flush(); err != nil {
			p.log.Warn("flush failed", "err", err)
		}
	}
	p.frames++
	p.publish()
}

const tooltipMarker = 3.0

func (p *Plotter) drawTooltip() {
	tip := p.ctrl.Tooltip()
	if !tip.Visible {
		return
	}
	c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if eq, ok := equationAt(p.src, tip.Equation); ok {
		c = eq.Color
	}
	p.c.SetFillStyle(c)
	p.c.FillRect(tip.ScreenX-tooltipMarker, tip.ScreenY-tooltipMarker, 2*tooltipMarker, 2*tooltipMarker)

	label := fmt.Sprintf("(%.2f, %.2f)", tip.MathX, tip.MathY)
	align, x := canvas.AlignLeft, tip.ScreenX+2*tooltipMarker
	if tip.ScreenX > 0 {
		align, x = canvas.AlignRight, tip.ScreenX-2*tooltipMarker
	}
	p.c.SetFillStyle(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	p.c.FillText(label, x, tip.ScreenY-2*tooltipMarker, align, canvas.BaselineBottom)
}

func equationAt(src EquationSource, i int) (Equation, bool) {
	eqs := src.Equations()
	if i < 0 || i >= len(eqs) {
		return Equation{}, false
	}
	return eqs[i], true
}

// ValidateEquation probes eq at SentinelX and records the result on it.
// It is the validation hook handed to EquationList.
func (p *Plotter) ValidateEquation(eq *Equation) error {
	err := ValidateEquation(p.ev, eq)
	if err != nil {
		p.log.Debug("equation rejected", "expression", eq.Expression, "kind", eq.Error, "err", err)
	}
	return err
}

// PointerDown forwards a button press at host client coordinates.
func (p *Plotter) PointerDown(cx, cy float64, b Button) {
	if !p.ready {
		return
	}
	x, y := p.vp.ClientToScreen(cx, cy)
	p.ctrl.PointerDown(x, y, b)
}

// PointerMove forwards a pointer move at host client coordinates.
func (p *Plotter) PointerMove(cx, cy float64) {
	if !p.ready {
		return
	}
	x, y := p.vp.ClientToScreen(cx, cy)
	p.ctrl.PointerMove(x, y)
}

func (p *Plotter) PointerUp() {
	if p.ready {
		p.ctrl.PointerUp()
	}
}

func (p *Plotter) PointerLeave() {
	if p.ready {
		p.ctrl.PointerLeave()
	}
}

// Wheel forwards a wheel event. See Controller.Wheel.
func (p *Plotter) Wheel(deltaY float64, modifier bool) bool {
	if !p.ready {
		return false
	}
	return p.ctrl.Wheel(deltaY, modifier)
}

// Zoom zooms one step about the math origin's screen position.
func (p *Plotter) Zoom(dir ZoomDirection) bool {
	if !p.ready {
		return false
	}
	return p.ctrl.Zoom(dir)
}

// Pan moves the view by (dx, dy) screen pixels.
func (p *Plotter) Pan(dx, dy float64) {
	if !p.ready || (dx == 0 && dy == 0) {
		return
	}
	p.vp.Pan(dx, dy)
	p.ctrl.hideTooltip()
	p.Redraw()
}

// ResetView restores the initial scale and recenters the origin.
func (p *Plotter) ResetView() {
	if !p.ready {
		return
	}
	p.vp.Reset()
	p.vp.Scale = p.initialScale
	p.ctrl.hideTooltip()
	p.Redraw()
}
