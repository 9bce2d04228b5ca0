// Package app wires the plotter to a HAL: it owns the drawing canvas,
// forwards input and drives deferred initialization and resizing.
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"grafcalc/hal"
	"grafcalc/internal/config"
	"grafcalc/internal/logutil"
	"grafcalc/plotter"
	"grafcalc/plotter/canvas"
	"grafcalc/plotter/canvas/ggcanvas"
	"grafcalc/plotter/canvas/raster"

	"github.com/gogpu/gg"
)

// DefaultInitDelayTicks is roughly 100ms at 60 ticks per second.
const DefaultInitDelayTicks = 6

// keyPanStep is the distance in logical pixels an arrow key pans.
const keyPanStep = 20

// EquationConfig is one equation added at startup.
type EquationConfig struct {
	Expression string
	// Color overrides the palette color when Color.A is non-zero.
	Color   color.RGBA
	Visible bool
}

type Config struct {
	// Renderer is config.RendererRaster (default) or config.RendererGG.
	Renderer string
	// InitDelayTicks is the number of ticks with a non-zero layout to wait
	// before the first initialization. Zero means DefaultInitDelayTicks;
	// negative means none.
	InitDelayTicks int
	Equations      []EquationConfig
	Scale          float64
	// Background is the clear color when Background.A is non-zero.
	Background color.RGBA
	// PNGPath, when set, receives the first frame as PNG and the app stops.
	PNGPath string
	Logger  *slog.Logger
}

type pngEncoder interface {
	EncodePNG(w io.Writer) error
}

type system struct {
	h    hal.HAL
	cfg  Config
	log  *slog.Logger
	list *plotter.EquationList
	p    *plotter.Plotter

	c      canvas.Canvas
	closer io.Closer

	settle  int
	started bool
	width   int
	height  int
	dsf     float64
	pngDone bool
	stopped bool
}

// ErrNoFrame is returned by finish when a PNG was requested but the run
// ended before a frame was drawn.
var ErrNoFrame = errors.New("no frame rendered")

// New builds the plotter on h and returns the per-tick step function. The
// step returns hal.ErrStop when the app is done.
func New(h hal.HAL, cfg Config) func() error {
	step, _ := NewRun(h, cfg)
	return step
}

// NewRun is New plus a finish function to call once the host loop has
// returned. finish tears the plotter down and reports ErrNoFrame when
// cfg.PNGPath was set and nothing was written.
func NewRun(h hal.HAL, cfg Config) (step, finish func() error) {
	s := newSystem(h, cfg)
	return guard(h, s.step), s.finish
}

func newSystem(h hal.HAL, cfg Config) *system {
	if cfg.InitDelayTicks == 0 {
		cfg.InitDelayTicks = DefaultInitDelayTicks
	}
	if cfg.Renderer == "" {
		cfg.Renderer = config.RendererRaster
	}
	log := cfg.Logger
	if log == nil {
		log = logutil.Discard
	}
	s := &system{h: h, cfg: cfg, log: log}

	s.list = plotter.NewEquationList(nil, nil)
	opts := []plotter.Option{plotter.WithLogger(log)}
	if cfg.Scale > 0 {
		opts = append(opts, plotter.WithInitialScale(cfg.Scale))
	}
	s.p = plotter.New(s.list, opts...)
	s.list.SetHooks(s.p.ValidateEquation, s.p.Redraw)

	for _, ec := range cfg.Equations {
		i := s.list.Add()
		if ec.Color.A != 0 {
			_ = s.list.SetColor(i, ec.Color)
		}
		if err := s.list.Update(i, ec.Expression); err != nil {
			log.Warn("equation rejected", "index", i, "expression", ec.Expression, "err", err)
		}
		if !ec.Visible {
			_ = s.list.ToggleVisible(i)
		}
	}

	s.p.Subscribe(func(st plotter.State) {
		if d := h.Display(); d != nil {
			d.SetCursor(halCursor(st.Cursor))
		}
	})
	return s
}

func (s *system) Canvas() (canvas.Canvas, error) {
	if s.c != nil {
		return s.c, nil
	}
	d := s.h.Display()
	if d == nil {
		return nil, errors.New("no display")
	}
	fb := d.Framebuffer()
	if fb == nil {
		return nil, errors.New("no framebuffer")
	}
	switch s.cfg.Renderer {
	case config.RendererRaster:
		var opts []raster.Option
		if s.cfg.Background.A != 0 {
			opts = append(opts, raster.WithBackground(s.cfg.Background))
		}
		s.c = raster.New(fb, opts...)
	case config.RendererGG:
		gg.SetLogger(s.log)
		var opts []ggcanvas.Option
		if s.cfg.Background.A != 0 {
			opts = append(opts, ggcanvas.WithBackground(s.cfg.Background))
		}
		c, err := ggcanvas.New(fb, opts...)
		if err != nil {
			return nil, err
		}
		s.c, s.closer = c, c
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrBadRenderer, s.cfg.Renderer)
	}
	return s.c, nil
}

func (s *system) LogicalSize() (float64, float64) {
	d := s.h.Display()
	if d == nil {
		return 0, 0
	}
	w, h := d.LogicalSize()
	return float64(w), float64(h)
}

func (s *system) DevicePixelRatio() float64 {
	if d := s.h.Display(); d != nil {
		return d.DeviceScaleFactor()
	}
	return 1
}

func (s *system) step() error {
	if s.stopped {
		return hal.ErrStop
	}
	if err := s.drainKeys(); err != nil {
		return s.stop(err)
	}
	s.drainPointer()
	if err := s.layout(); err != nil {
		return s.stop(err)
	}
	if s.cfg.PNGPath != "" && !s.pngDone && s.p.State().Frames > 0 {
		s.pngDone = true
		if err := s.writePNG(s.cfg.PNGPath); err != nil {
			return s.stop(err)
		}
		return s.stop(hal.ErrStop)
	}
	return nil
}

func (s *system) finish() error {
	var err error
	if s.cfg.PNGPath != "" && !s.pngDone {
		err = fmt.Errorf("%w: %s not written", ErrNoFrame, s.cfg.PNGPath)
	}
	if !s.stopped {
		s.stop(nil)
	}
	return err
}

func (s *system) stop(err error) error {
	s.stopped = true
	s.p.Teardown()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil {
			s.log.Warn("close canvas", "err", cerr)
		}
		s.closer = nil
	}
	return err
}

func (s *system) layout() error {
	d := s.h.Display()
	if d == nil {
		return nil
	}
	w, h := d.LogicalSize()
	dsf := d.DeviceScaleFactor()
	if !s.started {
		if w <= 0 || h <= 0 {
			s.settle = 0
			return nil
		}
		s.settle++
		if s.settle < s.cfg.InitDelayTicks {
			return nil
		}
		s.started = true
		s.width, s.height, s.dsf = w, h, dsf
		err := s.p.Initialize(s)
		switch {
		case err == nil, errors.Is(err, plotter.ErrLayoutNotReady):
			return nil
		case s.cfg.PNGPath != "":
			return err
		default:
			// The failure is published in the plotter state; keep the
			// window alive so the message can be shown.
			return nil
		}
	}
	if w == s.width && h == s.height && dsf == s.dsf {
		return nil
	}
	s.width, s.height, s.dsf = w, h, dsf
	err := s.p.OnResize(float64(w), float64(h), dsf)
	if err != nil && !errors.Is(err, plotter.ErrLayoutNotReady) {
		s.log.Debug("resize", "err", err)
	}
	return nil
}

func (s *system) drainKeys() error {
	in := s.h.Input()
	if in == nil || in.Keyboard() == nil {
		return nil
	}
	ch := in.Keyboard().Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if !ev.Press {
				continue
			}
			if err := s.key(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *system) key(ev hal.KeyEvent) error {
	switch ev.Code {
	case hal.KeyEscape:
		return hal.ErrStop
	case hal.KeyHome:
		s.p.ResetView()
		return nil
	case hal.KeyLeft:
		s.p.Pan(keyPanStep, 0)
		return nil
	case hal.KeyRight:
		s.p.Pan(-keyPanStep, 0)
		return nil
	case hal.KeyUp:
		s.p.Pan(0, keyPanStep)
		return nil
	case hal.KeyDown:
		s.p.Pan(0, -keyPanStep)
		return nil
	}
	switch r := ev.Rune; {
	case r >= '1' && r <= '9':
		if err := s.list.ToggleVisible(int(r - '1')); err != nil {
			s.log.Debug("toggle", "err", err)
		}
	case r == 'r' || r == 'R':
		s.p.ResetView()
	case r == '+' || r == '=':
		s.p.Zoom(plotter.ZoomIn)
	case r == '-' || r == '_':
		s.p.Zoom(plotter.ZoomOut)
	case r == 'q':
		return hal.ErrStop
	}
	return nil
}

func (s *system) drainPointer() {
	in := s.h.Input()
	if in == nil || in.Pointer() == nil {
		return
	}
	ch := in.Pointer().Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.pointer(ev)
		default:
			return
		}
	}
}

func (s *system) pointer(ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerMove:
		s.p.PointerMove(ev.X, ev.Y)
	case hal.PointerDown:
		s.p.PointerDown(ev.X, ev.Y, plotterButton(ev.Button))
	case hal.PointerUp:
		s.p.PointerUp()
	case hal.PointerLeave:
		s.p.PointerLeave()
	case hal.PointerWheel:
		s.p.Wheel(ev.WheelY, ev.Modifier)
	}
}

func (s *system) writePNG(path string) error {
	enc, ok := s.c.(pngEncoder)
	if !ok {
		return fmt.Errorf("renderer %q cannot encode PNG", s.cfg.Renderer)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.log.Info("wrote png", "path", path)
	return nil
}

func plotterButton(b hal.PointerButton) plotter.Button {
	switch b {
	case hal.PointerSecondary:
		return plotter.ButtonSecondary
	case hal.PointerMiddle:
		return plotter.ButtonMiddle
	default:
		return plotter.ButtonPrimary
	}
}

func halCursor(c plotter.Cursor) hal.Cursor {
	switch c {
	case plotter.CursorGrab:
		return hal.CursorGrab
	case plotter.CursorGrabbing:
		return hal.CursorGrabbing
	case plotter.CursorCrosshair:
		return hal.CursorCrosshair
	default:
		return hal.CursorDefault
	}
}
