package plotter

import (
	"fmt"
	"image/color"
	"math"

	"grafcalc/plotter/canvas"
)

// GridSpacing returns the math-unit distance between gridlines at scale.
// It is non-increasing in scale.
func GridSpacing(scale float64) float64 {
	switch {
	case scale > 100:
		return 0.5
	case scale > 50:
		return 1
	case scale > 25:
		return 2
	case scale > 10:
		return 5
	default:
		return 10
	}
}

// GridLine is one gridline. Value is its math coordinate, Pos its centered
// screen coordinate on the perpendicular axis.
type GridLine struct {
	Value float64
	Pos   float64
	Axis  bool
}

// Grid lists the gridlines covering a viewport.
type Grid struct {
	Spacing    float64
	Vertical   []GridLine
	Horizontal []GridLine
}

// GridLines computes the gridlines for vp. Lines sit at integer multiples
// of the spacing, computed by index so no rounding drift accumulates.
func GridLines(vp Viewport) Grid {
	g := Grid{Spacing: GridSpacing(vp.Scale)}
	r := vp.VisibleRange()
	for _, k := range multiples(r.MinX, r.MaxX, g.Spacing) {
		v := float64(k) * g.Spacing
		sx, _ := vp.ToScreen(v, 0)
		g.Vertical = append(g.Vertical, GridLine{Value: v, Pos: sx, Axis: k == 0})
	}
	for _, k := range multiples(r.MinY, r.MaxY, g.Spacing) {
		v := float64(k) * g.Spacing
		_, sy := vp.ToScreen(0, v)
		g.Horizontal = append(g.Horizontal, GridLine{Value: v, Pos: sy, Axis: k == 0})
	}
	return g
}

func multiples(lo, hi, step float64) []int64 {
	if !(hi >= lo) || step <= 0 {
		return nil
	}
	k0 := int64(math.Ceil(lo / step))
	k1 := int64(math.Floor(hi / step))
	if k1 < k0 {
		return nil
	}
	out := make([]int64, 0, k1-k0+1)
	for k := k0; k <= k1; k++ {
		out = append(out, k)
	}
	return out
}

// GridStyle holds the grid colors and widths.
type GridStyle struct {
	Line      color.RGBA
	LineWidth float64
	Axis      color.RGBA
	AxisWidth float64
	Label     color.RGBA
	// LabelInset is the distance in pixels between a label and the edge
	// it is attached to.
	LabelInset float64
}

// DefaultGridStyle is white at 10% for gridlines and 30% for axes.
var DefaultGridStyle = GridStyle{
	Line:       rgba(255, 255, 255, 0.1),
	LineWidth:  1,
	Axis:       rgba(255, 255, 255, 0.3),
	AxisWidth:  2,
	Label:      rgba(255, 255, 255, 0.6),
	LabelInset: 4,
}

// rgba builds a non-premultiplied color from 8-bit channels and a float
// alpha.
func rgba(r, g, b uint8, a float64) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

// DrawGrid strokes g onto c. The canvas origin must be the surface center.
func DrawGrid(c canvas.Canvas, vp Viewport, g Grid, st GridStyle) {
	left, right := -vp.Width/2, vp.Width/2
	top, bottom := -vp.Height/2, vp.Height/2

	c.SetStrokeStyle(st.Line, st.LineWidth)
	c.BeginPath()
	for _, l := range g.Vertical {
		if !l.Axis {
			c.MoveTo(l.Pos, top)
			c.LineTo(l.Pos, bottom)
		}
	}
	for _, l := range g.Horizontal {
		if !l.Axis {
			c.MoveTo(left, l.Pos)
			c.LineTo(right, l.Pos)
		}
	}
	c.Stroke()

	c.SetStrokeStyle(st.Axis, st.AxisWidth)
	c.BeginPath()
	ox, oy := vp.ToScreen(0, 0)
	if ox >= left && ox <= right {
		c.MoveTo(ox, top)
		c.LineTo(ox, bottom)
	}
	if oy >= top && oy <= bottom {
		c.MoveTo(left, oy)
		c.LineTo(right, oy)
	}
	c.Stroke()

	c.SetFillStyle(st.Label)
	for _, l := range g.Vertical {
		c.FillText(fmtAxis(l.Value), l.Pos, top+st.LabelInset, canvas.AlignCenter, canvas.BaselineTop)
	}
	for _, l := range g.Horizontal {
		if l.Axis {
			continue // "0" is already printed by the vertical axis label
		}
		c.FillText(fmtAxis(l.Value), left+st.LabelInset, l.Pos, canvas.AlignLeft, canvas.BaselineMiddle)
	}
}

// fmtAxis formats a tick value compactly.
func fmtAxis(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1000:
		return fmt.Sprintf("%.3g", v)
	case av == math.Trunc(av):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%g", v)
	}
}
