package canvas

import (
	"fmt"
	"image/color"
)

// OpKind identifies a recorded drawing call.
type OpKind uint8

const (
	OpSetSize OpKind = iota + 1
	OpResetTransform
	OpScale
	OpTranslate
	OpClearRect
	OpFillRect
	OpStroke
	OpFillText
)

func (k OpKind) String() string {
	switch k {
	case OpSetSize:
		return "SetSize"
	case OpResetTransform:
		return "ResetTransform"
	case OpScale:
		return "Scale"
	case OpTranslate:
		return "Translate"
	case OpClearRect:
		return "ClearRect"
	case OpFillRect:
		return "FillRect"
	case OpStroke:
		return "Stroke"
	case OpFillText:
		return "FillText"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Point is a user-space coordinate pair.
type Point struct{ X, Y float64 }

// Op is one recorded drawing call. Args holds the numeric arguments in call
// order; Paths holds the subpaths of a Stroke, each a polyline in user space.
type Op struct {
	Kind     OpKind
	Args     []float64
	Color    color.RGBA
	Width    float64
	Text     string
	Align    Align
	Baseline Baseline
	Paths    [][]Point
}

// Recorder is a Canvas that records calls instead of drawing. It is meant
// for tests and diagnostics.
type Recorder struct {
	Ops []Op

	transform Transform
	stroke    color.RGBA
	lineWidth float64
	fill      color.RGBA
	paths     [][]Point
	width     int
	height    int
}

// NewRecorder returns an empty recorder with an identity transform.
func NewRecorder() *Recorder {
	return &Recorder{transform: Identity, lineWidth: 1}
}

func (r *Recorder) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	r.width, r.height = width, height
	r.Ops = append(r.Ops, Op{Kind: OpSetSize, Args: []float64{float64(width), float64(height)}})
	return nil
}

// Size returns the last size passed to SetSize.
func (r *Recorder) Size() (width, height int) { return r.width, r.height }

// Transform returns the current transform.
func (r *Recorder) Transform() Transform { return r.transform }

func (r *Recorder) ResetTransform() {
	r.transform = Identity
	r.Ops = append(r.Ops, Op{Kind: OpResetTransform})
}

func (r *Recorder) Scale(sx, sy float64) {
	r.transform = r.transform.Scale(sx, sy)
	r.Ops = append(r.Ops, Op{Kind: OpScale, Args: []float64{sx, sy}})
}

func (r *Recorder) Translate(tx, ty float64) {
	r.transform = r.transform.Translate(tx, ty)
	r.Ops = append(r.Ops, Op{Kind: OpTranslate, Args: []float64{tx, ty}})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClearRect, Args: []float64{x, y, w, h}})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Args: []float64{x, y, w, h}, Color: r.fill})
}

func (r *Recorder) SetStrokeStyle(c color.RGBA, width float64) {
	r.stroke = c
	r.lineWidth = width
}

func (r *Recorder) SetFillStyle(c color.RGBA) { r.fill = c }

func (r *Recorder) BeginPath() { r.paths = nil }

func (r *Recorder) MoveTo(x, y float64) {
	r.paths = append(r.paths, []Point{{x, y}})
}

func (r *Recorder) LineTo(x, y float64) {
	if len(r.paths) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := len(r.paths) - 1
	r.paths[last] = append(r.paths[last], Point{x, y})
}

func (r *Recorder) Stroke() {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Color: r.stroke, Width: r.lineWidth, Paths: r.paths})
	r.paths = nil
}

func (r *Recorder) FillText(s string, x, y float64, align Align, baseline Baseline) {
	r.Ops = append(r.Ops, Op{
		Kind:     OpFillText,
		Args:     []float64{x, y},
		Color:    r.fill,
		Text:     s,
		Align:    align,
		Baseline: baseline,
	})
}

// Reset drops all recorded ops but keeps the transform.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Kinds returns the kind of every recorded op, in order.
func (r *Recorder) Kinds() []OpKind {
	out := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Kind
	}
	return out
}

// Strokes returns the recorded Stroke ops whose color matches c.
func (r *Recorder) Strokes(c color.RGBA) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpStroke && op.Color == c {
			out = append(out, op)
		}
	}
	return out
}

// Segments counts the line segments across all subpaths of ops.
func Segments(ops []Op) int {
	n := 0
	for _, op := range ops {
		for _, p := range op.Paths {
			if len(p) > 1 {
				n += len(p) - 1
			}
		}
	}
	return n
}
