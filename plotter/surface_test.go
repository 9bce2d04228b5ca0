package plotter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"grafcalc/plotter/canvas"
)

type fakeHost struct {
	rec  *canvas.Recorder
	err  error
	w, h float64
	dpr  float64
}

func (h *fakeHost) Canvas() (canvas.Canvas, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.rec, nil
}

func (h *fakeHost) LogicalSize() (float64, float64) { return h.w, h.h }
func (h *fakeHost) DevicePixelRatio() float64       { return h.dpr }

func newHost(w, h, dpr float64) *fakeHost {
	return &fakeHost{rec: canvas.NewRecorder(), w: w, h: h, dpr: dpr}
}

func TestInitializeConfiguresSurface(t *testing.T) {
	host := newHost(400, 300, 2)
	p := New(nil)
	require.NoError(t, p.Initialize(host))
	require.True(t, p.Ready())

	setup := host.rec.Ops[:4]
	want := []canvas.Op{
		{Kind: canvas.OpSetSize, Args: []float64{800, 600}},
		{Kind: canvas.OpResetTransform},
		{Kind: canvas.OpScale, Args: []float64{2, 2}},
		{Kind: canvas.OpTranslate, Args: []float64{200, 150}},
	}
	if diff := cmp.Diff(want, setup); diff != "" {
		t.Fatalf("setup ops mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, canvas.Transform{SX: 2, SY: 2, TX: 400, TY: 300}, host.rec.Transform())

	// First frame starts with a full clear in centered coordinates.
	clear := host.rec.Ops[4]
	require.Equal(t, canvas.OpClearRect, clear.Kind)
	require.Equal(t, []float64{-200, -150, 400, 300}, clear.Args)

	s := p.State()
	require.Equal(t, uint64(1), s.Frames)
	require.Equal(t, 2.0, s.DevicePixelRatio)
	require.Equal(t, NewViewport(400, 300), s.Viewport)
	require.Empty(t, s.Message)
}

func TestInitializeSurfaceUnavailable(t *testing.T) {
	host := newHost(400, 300, 1)
	host.err = errors.New("no context")
	p := New(nil)
	var last State
	p.Subscribe(func(s State) { last = s })

	err := p.Initialize(host)
	require.ErrorIs(t, err, ErrSurfaceUnavailable)
	require.False(t, p.Ready())
	require.Equal(t, msgUnavailable, last.Message)

	// Fatal: no retry.
	host.err = nil
	require.ErrorIs(t, p.Initialize(host), ErrSurfaceUnavailable)
	require.ErrorIs(t, p.OnResize(400, 300, 1), ErrSurfaceUnavailable)
	require.Empty(t, host.rec.Ops)
}

func TestInitializeLayoutNotReady(t *testing.T) {
	host := newHost(0, 0, 1)
	p := New(nil)
	require.ErrorIs(t, p.Initialize(host), ErrLayoutNotReady)
	require.False(t, p.Ready())
	require.Equal(t, msgNotReady, p.State().Message)

	require.ErrorIs(t, p.OnResize(0, 10, 1), ErrLayoutNotReady)
	require.NoError(t, p.OnResize(640, 480, 1))
	require.True(t, p.Ready())
	require.Equal(t, 640.0, p.Viewport().Width)
	require.Empty(t, p.State().Message)
}

func TestOnResizeBeforeInitialize(t *testing.T) {
	p := New(nil)
	require.ErrorIs(t, p.OnResize(640, 480, 1), ErrLayoutNotReady)
}

func TestResizeKeepsView(t *testing.T) {
	host := newHost(400, 300, 1)
	p := New(nil)
	require.NoError(t, p.Initialize(host))
	p.PointerDown(200, 150, ButtonPrimary)
	p.PointerMove(230, 140)
	p.PointerUp()
	require.True(t, p.Zoom(ZoomIn))
	before := p.Viewport()

	host.rec.Reset()
	require.NoError(t, p.OnResize(1000, 500, 1.5))
	after := p.Viewport()
	require.Equal(t, before.Scale, after.Scale)
	require.Equal(t, before.OffsetX, after.OffsetX)
	require.Equal(t, before.OffsetY, after.OffsetY)
	require.Equal(t, 1000.0, after.Width)
	require.Equal(t, 500.0, after.Height)

	kinds := host.rec.Kinds()
	require.Equal(t, []canvas.OpKind{
		canvas.OpSetSize, canvas.OpResetTransform, canvas.OpScale, canvas.OpTranslate, canvas.OpClearRect,
	}, kinds[:5])
	require.Equal(t, []float64{1500, 750}, host.rec.Ops[0].Args)

	// Same size again is a no-op.
	host.rec.Reset()
	require.NoError(t, p.OnResize(1000, 500, 1.5))
	require.Empty(t, host.rec.Ops)

	// A collapsed host keeps the last frame.
	require.ErrorIs(t, p.OnResize(0, 0, 1), ErrLayoutNotReady)
	require.Equal(t, 1000.0, p.Viewport().Width)
}

func TestRedrawPipeline(t *testing.T) {
	eqs := NewEquationList(nil, nil)
	eqs.Add()
	require.NoError(t, eqs.Update(0, "x"))
	host := newHost(200, 100, 1)
	p := New(eqs)
	require.NoError(t, p.Initialize(host))

	host.rec.Reset()
	p.Redraw()
	require.Equal(t, canvas.OpClearRect, host.rec.Ops[0].Kind)
	curve := host.rec.Strokes(Palette[0])
	require.Len(t, curve, 1)
	require.Equal(t, 200, canvas.Segments(curve))

	// Grid before curve.
	gridAt, curveAt := -1, -1
	for i, op := range host.rec.Ops {
		if op.Kind != canvas.OpStroke {
			continue
		}
		if op.Color == DefaultGridStyle.Line && gridAt < 0 {
			gridAt = i
		}
		if op.Color == Palette[0] {
			curveAt = i
		}
	}
	require.Less(t, gridAt, curveAt)
}

func TestRedrawBeforeInitialize(t *testing.T) {
	p := New(nil)
	var got []State
	p.Subscribe(func(s State) { got = append(got, s) })
	p.Redraw()
	require.Len(t, got, 1)
	require.Equal(t, msgNotReady, got[0].Message)
	require.Zero(t, got[0].Frames)
}

func TestTooltipOverlay(t *testing.T) {
	eqs := EquationSlice{{Expression: "x", Color: Palette[2], Visible: true}}
	host := newHost(800, 600, 1)
	p := New(eqs)
	require.NoError(t, p.Initialize(host))

	host.rec.Reset()
	// Client (500, 200) is screen (100, -100), math (2, 2).
	p.PointerMove(500, 200)
	s := p.State()
	require.Equal(t, ModeHovering, s.Mode)
	require.Equal(t, CursorCrosshair, s.Cursor)
	require.True(t, s.Tooltip.Visible)

	var marker, label *canvas.Op
	for i := range host.rec.Ops {
		op := &host.rec.Ops[i]
		switch {
		case op.Kind == canvas.OpFillRect && op.Color == Palette[2]:
			marker = op
		case op.Kind == canvas.OpFillText && op.Text == "(2.00, 2.00)":
			label = op
		}
	}
	require.NotNil(t, marker)
	require.Equal(t, []float64{97, -103, 6, 6}, marker.Args)
	require.NotNil(t, label)
	require.Equal(t, canvas.AlignRight, label.Align)

	host.rec.Reset()
	p.PointerLeave()
	for _, op := range host.rec.Ops {
		require.NotEqual(t, canvas.OpFillRect, op.Kind)
	}
	require.False(t, p.State().Tooltip.Visible)
}

func TestEquationChangeDropsTooltip(t *testing.T) {
	host := newHost(800, 600, 1)
	eqs := NewEquationList(nil, nil)
	p := New(eqs)
	eqs.SetHooks(p.ValidateEquation, p.Redraw)
	eqs.Add()
	require.NoError(t, eqs.Update(0, "x"))
	require.NoError(t, p.Initialize(host))

	p.PointerMove(500, 200)
	require.True(t, p.State().Tooltip.Visible)
	require.NoError(t, eqs.ToggleVisible(0))
	require.False(t, p.State().Tooltip.Visible)
	require.Equal(t, ModeIdle, p.State().Mode)
}

func TestRejectedUpdateClearsCurve(t *testing.T) {
	for _, expr := range []string{"sin(", ""} {
		host := newHost(200, 100, 1)
		eqs := NewEquationList(nil, nil)
		p := New(eqs)
		eqs.SetHooks(p.ValidateEquation, p.Redraw)
		eqs.Add()
		require.NoError(t, eqs.Update(0, "x"))
		require.NoError(t, p.Initialize(host))
		require.Len(t, host.rec.Strokes(Palette[0]), 1)

		p.PointerMove(150, 0)
		require.True(t, p.State().Tooltip.Visible, expr)

		frames := p.State().Frames
		host.rec.Reset()
		require.ErrorIs(t, eqs.Update(0, expr), ErrEquationInvalid)
		st := p.State()
		require.Equal(t, frames+1, st.Frames, expr)
		require.Empty(t, host.rec.Strokes(Palette[0]), expr)
		require.False(t, st.Tooltip.Visible, expr)
	}
}

func TestWheelBeforeInitialize(t *testing.T) {
	p := New(nil)
	require.False(t, p.Wheel(-1, true))
	require.False(t, p.Zoom(ZoomIn))
}

func TestResetView(t *testing.T) {
	host := newHost(400, 300, 1)
	p := New(nil, WithInitialScale(80))
	require.NoError(t, p.Initialize(host))
	require.Equal(t, 80.0, p.Viewport().Scale)
	p.Zoom(ZoomIn)
	p.PointerDown(0, 0, ButtonPrimary)
	p.PointerMove(10, 10)
	p.PointerUp()
	p.ResetView()
	require.Equal(t, Viewport{Scale: 80, Width: 400, Height: 300}, p.Viewport())
}

func TestTeardown(t *testing.T) {
	host := newHost(400, 300, 1)
	p := New(nil)
	require.NoError(t, p.Initialize(host))

	var calls int
	var last State
	cancel := p.Subscribe(func(s State) { calls++; last = s })
	p.Teardown()
	require.Equal(t, 1, calls)
	require.False(t, last.Ready)
	require.Equal(t, msgTornDown, last.Message)

	frames := p.State().Frames
	p.Redraw()
	p.Teardown()
	cancel()
	require.Equal(t, 1, calls)
	require.Equal(t, frames, p.State().Frames)
	require.ErrorIs(t, p.Initialize(host), ErrTornDown)
	require.ErrorIs(t, p.OnResize(10, 10, 1), ErrTornDown)
}

func TestSubscribeCancel(t *testing.T) {
	host := newHost(400, 300, 1)
	p := New(nil)
	var a, b int
	cancelA := p.Subscribe(func(State) { a++ })
	p.Subscribe(func(State) { b++ })
	require.NoError(t, p.Initialize(host))
	require.Equal(t, 1, a)
	cancelA()
	p.Redraw()
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)
}

func TestStateErrors(t *testing.T) {
	eqs := EquationSlice{
		{Expression: "x", Visible: true},
		{Expression: "", Error: ErrorEmpty},
		{Expression: "x+", Error: ErrorInvalid, Visible: true},
	}
	p := New(eqs)
	require.Equal(t, []ErrorKind{ErrorNone, ErrorEmpty, ErrorInvalid}, p.State().Errors)
}
