package plotter

import (
	"fmt"
	"image/color"
	"strings"
)

// ErrorKind is the validation state recorded on an Equation.
type ErrorKind uint8

const (
	ErrorNone ErrorKind = iota
	ErrorEmpty
	ErrorInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorEmpty:
		return "empty"
	case ErrorInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Message is the user-facing text for k. It is empty for ErrorNone.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorEmpty:
		return "enter a function"
	case ErrorInvalid:
		return "the function is not valid"
	default:
		return ""
	}
}

// Equation is one plotted expression in the free variable x.
type Equation struct {
	Expression string
	Color      color.RGBA
	Error      ErrorKind
	Visible    bool
}

// Drawable reports whether the equation is sampled and hit-tested.
func (e Equation) Drawable() bool {
	return e.Visible && e.Error == ErrorNone && strings.TrimSpace(e.Expression) != ""
}

// EquationSource is the ordered read-only view of equations consumed by
// every redraw.
type EquationSource interface {
	Equations() []Equation
}

// EquationSlice is an EquationSource over a fixed slice.
type EquationSlice []Equation

func (s EquationSlice) Equations() []Equation { return s }

// SentinelX is the probe input used to validate an expression.
const SentinelX = 1.0

// ValidateEquation probes eq at SentinelX and records the outcome in
// eq.Error. It returns ErrEquationInvalid when the probe fails.
func ValidateEquation(ev Evaluator, eq *Equation) error {
	if strings.TrimSpace(eq.Expression) == "" {
		eq.Error = ErrorEmpty
		return fmt.Errorf("%w: %s", ErrEquationInvalid, ErrorEmpty.Message())
	}
	if _, err := ev.Evaluate(eq.Expression, SentinelX); err != nil {
		eq.Error = ErrorInvalid
		return fmt.Errorf("%w: %q: %v", ErrEquationInvalid, eq.Expression, err)
	}
	eq.Error = ErrorNone
	return nil
}

// Palette is the color cycle assigned to new equations.
var Palette = []color.RGBA{
	{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xff, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x00, B: 0xff, A: 0xff},
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
}

// EquationList is the host-side mutable equation collection. Every
// mutation that changes what is drawn calls the change hook, usually
// Plotter.Redraw.
type EquationList struct {
	eqs      []Equation
	validate func(*Equation) error
	onChange func()
}

// NewEquationList returns an empty list. validate is called by Update;
// onChange after every visible mutation. Either may be nil.
func NewEquationList(validate func(*Equation) error, onChange func()) *EquationList {
	return &EquationList{validate: validate, onChange: onChange}
}

// SetHooks replaces the validation and change hooks.
func (l *EquationList) SetHooks(validate func(*Equation) error, onChange func()) {
	l.validate = validate
	l.onChange = onChange
}

func (l *EquationList) Equations() []Equation { return l.eqs }

func (l *EquationList) Len() int { return len(l.eqs) }

// At returns a copy of the i-th equation.
func (l *EquationList) At(i int) (Equation, bool) {
	if i < 0 || i >= len(l.eqs) {
		return Equation{}, false
	}
	return l.eqs[i], true
}

// Add appends an empty visible equation with the next palette color and
// returns its index. Nothing is drawn for it until Update succeeds.
func (l *EquationList) Add() int {
	l.eqs = append(l.eqs, Equation{
		Color:   Palette[len(l.eqs)%len(Palette)],
		Error:   ErrorEmpty,
		Visible: true,
	})
	return len(l.eqs) - 1
}

// Delete removes the i-th equation.
func (l *EquationList) Delete(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.eqs = append(l.eqs[:i], l.eqs[i+1:]...)
	l.changed()
	return nil
}

// Update sets the expression of the i-th equation and validates it. A
// failed expression keeps its error and is excluded from drawing. The change
// hook runs on success, and on failure when the equation was drawn before
// so its stale curve is cleared.
func (l *EquationList) Update(i int, expression string) error {
	if err := l.check(i); err != nil {
		return err
	}
	eq := &l.eqs[i]
	wasDrawn := eq.Drawable()
	eq.Expression = expression
	var err error
	switch {
	case strings.TrimSpace(expression) == "":
		eq.Error = ErrorEmpty
		err = fmt.Errorf("%w: %s", ErrEquationInvalid, ErrorEmpty.Message())
	case l.validate != nil:
		err = l.validate(eq)
	default:
		eq.Error = ErrorNone
	}
	if err == nil || wasDrawn {
		l.changed()
	}
	return err
}

// ToggleVisible flips the visibility of the i-th equation.
func (l *EquationList) ToggleVisible(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.eqs[i].Visible = !l.eqs[i].Visible
	l.changed()
	return nil
}

// SetColor overrides the palette color of the i-th equation.
func (l *EquationList) SetColor(i int, c color.RGBA) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.eqs[i].Color = c
	l.changed()
	return nil
}

func (l *EquationList) check(i int) error {
	if i < 0 || i >= len(l.eqs) {
		return fmt.Errorf("%w: index %d of %d", ErrNoEquation, i, len(l.eqs))
	}
	return nil
}

func (l *EquationList) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}
