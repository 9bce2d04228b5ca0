package plotter

import (
	"image/color"
	"math"

	"grafcalc/plotter/canvas"
)

// CurveWidth is the stroke width of every curve in pixels.
const CurveWidth = 2.0

// Polyline is a run of consecutive successful samples in centered screen
// coordinates.
type Polyline []canvas.Point

// Curve is the sampled geometry of one equation.
type Curve struct {
	Index int
	Color color.RGBA
	Lines []Polyline
}

// Columns returns the first and last integer pixel column sampled for a
// surface of the given width.
func Columns(width float64) (first, last int) {
	return int(math.Ceil(-width / 2)), int(math.Floor(width / 2))
}

// Pole detection between two columns: the interval is bisected at most
// poleDepth times, and a midpoint more than poleSlack pixels outside the
// endpoints' range marks a discontinuity.
const (
	poleDepth = 16
	poleSlack = 1.0
)

// SampleExpression evaluates expression at every pixel column of vp. A
// failed or non-finite sample ends the current polyline, and so does a pole
// between two adjacent columns. Runs of a single sample are dropped since
// they produce no segment.
func SampleExpression(ev Evaluator, vp Viewport, expression string) []Polyline {
	var (
		out    []Polyline
		cur    Polyline
		prevMX float64
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	first, last := Columns(vp.Width)
	for px := first; px <= last; px++ {
		mx, _ := vp.ToMath(float64(px), 0)
		y, ok := evalFinite(ev, expression, mx)
		if !ok {
			flush()
			continue
		}
		_, sy := vp.ToScreen(mx, y)
		if n := len(cur); n > 0 && pole(ev, vp, expression, prevMX, cur[n-1].Y, mx, sy, poleDepth) {
			flush()
		}
		cur = append(cur, canvas.Point{X: float64(px), Y: sy})
		prevMX = mx
	}
	flush()
	return out
}

// pole reports whether the curve between math-x x0 and x1, with screen
// ys y0 and y1, is discontinuous. Jumps no taller than the surface are
// accepted as steep but continuous.
func pole(ev Evaluator, vp Viewport, expression string, x0, y0, x1, y1 float64, depth int) bool {
	if math.Abs(y1-y0) <= vp.Height || depth == 0 {
		return false
	}
	xm := (x0 + x1) / 2
	y, ok := evalFinite(ev, expression, xm)
	if !ok {
		return true
	}
	_, ym := vp.ToScreen(xm, y)
	if ym < math.Min(y0, y1)-poleSlack || ym > math.Max(y0, y1)+poleSlack {
		return true
	}
	if math.Abs(ym-y0) > math.Abs(y1-ym) {
		return pole(ev, vp, expression, x0, y0, xm, ym, depth-1)
	}
	return pole(ev, vp, expression, xm, ym, x1, y1, depth-1)
}

// SampleCurves samples every drawable equation in list order.
func SampleCurves(ev Evaluator, vp Viewport, eqs []Equation) []Curve {
	var out []Curve
	for i, eq := range eqs {
		if !eq.Drawable() {
			continue
		}
		out = append(out, Curve{
			Index: i,
			Color: eq.Color,
			Lines: SampleExpression(ev, vp, eq.Expression),
		})
	}
	return out
}

// DrawCurves strokes curves in order so later equations paint over earlier
// ones.
func DrawCurves(c canvas.Canvas, curves []Curve) {
	for _, cv := range curves {
		if len(cv.Lines) == 0 {
			continue
		}
		c.SetStrokeStyle(cv.Color, CurveWidth)
		c.BeginPath()
		for _, line := range cv.Lines {
			c.MoveTo(line[0].X, line[0].Y)
			for _, p := range line[1:] {
				c.LineTo(p.X, p.Y)
			}
		}
		c.Stroke()
	}
}
