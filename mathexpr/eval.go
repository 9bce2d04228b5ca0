package mathexpr

import (
	"fmt"
	"math"
)

// Var is the name of the free variable.
const Var = "x"

var constants = map[string]float64{
	"pi":  math.Pi,
	"tau": 2 * math.Pi,
	"e":   math.E,
	"phi": (1 + math.Sqrt(5)) / 2,
}

// env binds the free variable for one evaluation.
type env struct {
	x float64
}

type node interface {
	Eval(e *env) (float64, error)
}

type nodeNumber struct{ v float64 }

func (n nodeNumber) Eval(_ *env) (float64, error) { return n.v, nil }

type nodeIdent struct{ name string }

func (n nodeIdent) Eval(e *env) (float64, error) {
	if n.name == Var {
		return e.x, nil
	}
	if v, ok := constants[n.name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %w %q", ErrEval, ErrUnknownVar, n.name)
}

type nodeUnary struct {
	op byte
	x  node
}

func (n nodeUnary) Eval(e *env) (float64, error) {
	v, err := n.x.Eval(e)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return v, nil
	case '-':
		return -v, nil
	default:
		return 0, fmt.Errorf("%w: unary %q", ErrEval, n.op)
	}
}

type nodeBinary struct {
	op          byte
	left, right node
}

func (n nodeBinary) Eval(e *env) (float64, error) {
	a, err := n.left.Eval(e)
	if err != nil {
		return 0, err
	}
	b, err := n.right.Eval(e)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrEval)
		}
		return a / b, nil
	case '^':
		return math.Pow(a, b), nil
	default:
		return 0, fmt.Errorf("%w: binary %q", ErrEval, n.op)
	}
}

type nodeCall struct {
	name string
	args []node
}

func (n nodeCall) checkArity() error {
	spec := builtins[n.name]
	if len(n.args) >= spec.minArgs && (spec.maxArgs < 0 || len(n.args) <= spec.maxArgs) {
		return nil
	}
	switch {
	case spec.minArgs == spec.maxArgs:
		return fmt.Errorf("%w: %s expects %d argument(s)", ErrParse, n.name, spec.minArgs)
	case spec.maxArgs < 0:
		return fmt.Errorf("%w: %s expects >= %d argument(s)", ErrParse, n.name, spec.minArgs)
	default:
		return fmt.Errorf("%w: %s expects %d..%d argument(s)", ErrParse, n.name, spec.minArgs, spec.maxArgs)
	}
}

func (n nodeCall) Eval(e *env) (float64, error) {
	spec, ok := builtins[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown function %q", ErrEval, n.name)
	}
	var buf [4]float64
	args := buf[:0]
	for _, a := range n.args {
		v, err := a.Eval(e)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}
	return spec.fn(args)
}

// Expr is a compiled expression. It is immutable and safe for concurrent use.
type Expr struct {
	src  string
	root node
}

// Compile parses src into an Expr.
func Compile(src string) (*Expr, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, root: root}, nil
}

// String returns the source the expression was compiled from.
func (x *Expr) String() string { return x.src }

// Eval evaluates the expression with the free variable bound to v.
func (x *Expr) Eval(v float64) (float64, error) {
	e := env{x: v}
	return x.root.Eval(&e)
}

// Evaluate compiles src and evaluates it at x.
func Evaluate(src string, x float64) (float64, error) {
	ex, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return ex.Eval(x)
}
