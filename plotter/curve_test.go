package plotter

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"grafcalc/plotter/canvas"
)

func TestColumns(t *testing.T) {
	first, last := Columns(800)
	require.Equal(t, -400, first)
	require.Equal(t, 400, last)
	first, last = Columns(5)
	require.Equal(t, -2, first)
	require.Equal(t, 2, last)
}

func TestSampleReciprocalBreaksAtZero(t *testing.T) {
	vp := NewViewport(800, 600)
	lines := SampleExpression(NewMathEvaluator(), vp, "1/x")
	require.Len(t, lines, 2)

	left, right := lines[0], lines[1]
	require.Equal(t, -400.0, left[0].X)
	require.Equal(t, -1.0, left[len(left)-1].X)
	require.Equal(t, 1.0, right[0].X)
	require.Equal(t, 400.0, right[len(right)-1].X)
	require.Len(t, left, 400)
	require.Len(t, right, 400)

	// Continuous elsewhere: consecutive columns.
	for _, line := range lines {
		for i := 1; i < len(line); i++ {
			require.Equal(t, line[i-1].X+1, line[i].X)
		}
	}
	// y at math-x = 1 (column 50) is 1, so screen y is -50.
	require.InDelta(t, -50.0, right[49].Y, 1e-9)
}

func TestSampleReciprocalBreaksAfterFractionalPan(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.Pan(0.5, 0)
	lines := SampleExpression(NewMathEvaluator(), vp, "1/x")
	require.Len(t, lines, 2)
	require.Equal(t, 0.0, lines[0][len(lines[0])-1].X)
	require.Equal(t, 1.0, lines[1][0].X)
	require.Positive(t, lines[0][len(lines[0])-1].Y)
	require.Negative(t, lines[1][0].Y)
}

func TestSamplePoleBetweenColumns(t *testing.T) {
	var tanPoles []float64
	for k := -3; k <= 2; k++ {
		tanPoles = append(tanPoles, (float64(k)+0.5)*math.Pi*DefaultScale)
	}
	for _, tc := range []struct {
		expr  string
		poles []float64
	}{
		{"1/(x-0.003)", []float64{0.15}},
		{"1/(x-0.003)^2", []float64{0.15}},
		{"tan(x)", tanPoles},
	} {
		lines := SampleExpression(NewMathEvaluator(), NewViewport(800, 600), tc.expr)
		require.Len(t, lines, len(tc.poles)+1, tc.expr)
		for _, line := range lines {
			for i := 1; i < len(line); i++ {
				for _, p := range tc.poles {
					require.False(t, line[i-1].X < p && line[i].X > p,
						"%s: segment %v -> %v spans the pole at column %g", tc.expr, line[i-1], line[i], p)
				}
			}
		}
	}
}

func TestSampleSteepCurvesStayConnected(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.Pan(0.5, 0)
	for _, expr := range []string{"x^2", "x^3", "1000*x", "exp(x)"} {
		lines := SampleExpression(NewMathEvaluator(), vp, expr)
		require.Len(t, lines, 1, expr)
		require.Len(t, lines[0], 801, expr)
	}
}

func TestSampleLine(t *testing.T) {
	vp := Viewport{Scale: 10, OffsetY: 5, Width: 4, Height: 4}
	lines := SampleExpression(NewMathEvaluator(), vp, "2*x")
	want := []Polyline{{
		{X: -2, Y: 9},
		{X: -1, Y: 7},
		{X: 0, Y: 5},
		{X: 1, Y: 3},
		{X: 2, Y: 1},
	}}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("SampleExpression mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleNonFiniteBreaks(t *testing.T) {
	ev := EvaluatorFunc(func(_ string, x float64) (float64, error) {
		switch {
		case x == 0:
			return math.NaN(), nil
		case x == 2:
			return math.Inf(1), nil
		case x == -2:
			return 0, errors.New("boom")
		}
		return x, nil
	})
	vp := Viewport{Scale: 1, Width: 6, Height: 6}
	lines := SampleExpression(ev, vp, "whatever")
	// Columns -3..3 with breaks at -2, 0 and 2: runs {-3} {-1} {1} {3} are
	// isolated points and draw nothing.
	require.Empty(t, lines)

	vp.Width = 10
	lines = SampleExpression(ev, vp, "whatever")
	require.Len(t, lines, 2)
	require.Equal(t, Polyline{{X: -5, Y: 5}, {X: -4, Y: 4}, {X: -3, Y: 3}}, lines[0])
	require.Equal(t, Polyline{{X: 3, Y: -3}, {X: 4, Y: -4}, {X: 5, Y: -5}}, lines[1])
}

func TestSampleCurvesSkipsHiddenAndErrored(t *testing.T) {
	green := color.RGBA{G: 0xff, A: 0xff}
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	eqs := []Equation{
		{Expression: "x", Color: green, Visible: false},
		{Expression: "x^2", Color: red, Visible: true, Error: ErrorInvalid},
		{Expression: "", Color: red, Visible: true},
		{Expression: "sin(x)", Color: blue, Visible: true},
	}
	vp := NewViewport(100, 100)
	curves := SampleCurves(NewMathEvaluator(), vp, eqs)
	require.Len(t, curves, 1)
	require.Equal(t, 3, curves[0].Index)
	require.Equal(t, blue, curves[0].Color)

	rec := canvas.NewRecorder()
	DrawCurves(rec, curves)
	require.Empty(t, rec.Strokes(green))
	require.Empty(t, rec.Strokes(red))
	strokes := rec.Strokes(blue)
	require.Len(t, strokes, 1)
	require.Equal(t, CurveWidth, strokes[0].Width)
	require.Equal(t, 100, canvas.Segments(strokes))
}

func TestDrawCurvesOrder(t *testing.T) {
	first := color.RGBA{R: 1, A: 0xff}
	second := color.RGBA{R: 2, A: 0xff}
	eqs := []Equation{
		{Expression: "x", Color: first, Visible: true},
		{Expression: "x", Color: second, Visible: true},
	}
	rec := canvas.NewRecorder()
	DrawCurves(rec, SampleCurves(NewMathEvaluator(), NewViewport(10, 10), eqs))
	var order []color.RGBA
	for _, op := range rec.Ops {
		if op.Kind == canvas.OpStroke {
			order = append(order, op.Color)
		}
	}
	require.Equal(t, []color.RGBA{first, second}, order)
}
