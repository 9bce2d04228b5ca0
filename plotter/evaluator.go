package plotter

import (
	"fmt"
	"math"

	"grafcalc/mathexpr"
)

// Evaluator evaluates a single-variable expression at x. Implementations
// must return in bounded time. The plotter only checks whether err is nil.
type Evaluator interface {
	Evaluate(expression string, x float64) (float64, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(expression string, x float64) (float64, error)

func (f EvaluatorFunc) Evaluate(expression string, x float64) (float64, error) {
	return f(expression, x)
}

// maxCompiled bounds the compiled-expression cache. Editing an equation
// character by character produces a new source string per keystroke.
const maxCompiled = 256

// MathEvaluator evaluates expressions with package mathexpr, keeping the
// compiled form of recently used sources. A non-finite result is reported
// as ErrEvalFailure. It is not safe for concurrent use.
type MathEvaluator struct {
	compiled map[string]*mathexpr.Expr
	failed   map[string]error
}

// NewMathEvaluator returns an evaluator with an empty cache.
func NewMathEvaluator() *MathEvaluator {
	return &MathEvaluator{
		compiled: make(map[string]*mathexpr.Expr),
		failed:   make(map[string]error),
	}
}

func (m *MathEvaluator) Evaluate(expression string, x float64) (float64, error) {
	ex, err := m.compile(expression)
	if err != nil {
		return 0, err
	}
	y, err := ex.Eval(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvalFailure, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite result at x=%g", ErrEvalFailure, x)
	}
	return y, nil
}

func (m *MathEvaluator) compile(src string) (*mathexpr.Expr, error) {
	if ex, ok := m.compiled[src]; ok {
		return ex, nil
	}
	if err, ok := m.failed[src]; ok {
		return nil, err
	}
	if len(m.compiled)+len(m.failed) >= maxCompiled {
		clear(m.compiled)
		clear(m.failed)
	}
	ex, err := mathexpr.Compile(src)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrEvalFailure, err)
		m.failed[src] = err
		return nil, err
	}
	m.compiled[src] = ex
	return ex, nil
}

// evalFinite evaluates and additionally rejects non-finite values, so
// user-supplied evaluators get the same degenerate-point policy.
func evalFinite(ev Evaluator, expression string, x float64) (float64, bool) {
	y, err := ev.Evaluate(expression, x)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}
