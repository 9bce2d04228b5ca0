package mathexpr

import (
	"fmt"
	"math"
)

type builtin struct {
	minArgs int
	maxArgs int // -1 means variadic
	fn      func(args []float64) (float64, error)
}

func unary(fn func(float64) float64) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) {
		return fn(args[0]), nil
	}
}

func binary(fn func(a, b float64) float64) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) {
		return fn(args[0], args[1]), nil
	}
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		// Trigonometry.
		"sin":   {minArgs: 1, maxArgs: 1, fn: unary(math.Sin)},
		"cos":   {minArgs: 1, maxArgs: 1, fn: unary(math.Cos)},
		"tan":   {minArgs: 1, maxArgs: 1, fn: unary(math.Tan)},
		"asin":  {minArgs: 1, maxArgs: 1, fn: unary(math.Asin)},
		"acos":  {minArgs: 1, maxArgs: 1, fn: unary(math.Acos)},
		"atan":  {minArgs: 1, maxArgs: 1, fn: unary(math.Atan)},
		"atan2": {minArgs: 2, maxArgs: 2, fn: binary(math.Atan2)},
		"cot":   {minArgs: 1, maxArgs: 1, fn: unary(func(x float64) float64 { return 1 / math.Tan(x) })},
		"sec":   {minArgs: 1, maxArgs: 1, fn: unary(func(x float64) float64 { return 1 / math.Cos(x) })},
		"csc":   {minArgs: 1, maxArgs: 1, fn: unary(func(x float64) float64 { return 1 / math.Sin(x) })},

		// Hyperbolic.
		"sinh":  {minArgs: 1, maxArgs: 1, fn: unary(math.Sinh)},
		"cosh":  {minArgs: 1, maxArgs: 1, fn: unary(math.Cosh)},
		"tanh":  {minArgs: 1, maxArgs: 1, fn: unary(math.Tanh)},
		"asinh": {minArgs: 1, maxArgs: 1, fn: unary(math.Asinh)},
		"acosh": {minArgs: 1, maxArgs: 1, fn: unary(math.Acosh)},
		"atanh": {minArgs: 1, maxArgs: 1, fn: unary(math.Atanh)},

		// Exponentials and logs. log(x, base) follows the common two-argument form.
		"exp":   {minArgs: 1, maxArgs: 1, fn: unary(math.Exp)},
		"ln":    {minArgs: 1, maxArgs: 1, fn: unary(math.Log)},
		"log":   {minArgs: 1, maxArgs: 2, fn: logN},
		"log10": {minArgs: 1, maxArgs: 1, fn: unary(math.Log10)},
		"log2":  {minArgs: 1, maxArgs: 1, fn: unary(math.Log2)},

		// Powers and roots.
		"pow":   {minArgs: 2, maxArgs: 2, fn: binary(math.Pow)},
		"sqrt":  {minArgs: 1, maxArgs: 1, fn: unary(math.Sqrt)},
		"cbrt":  {minArgs: 1, maxArgs: 1, fn: unary(math.Cbrt)},
		"hypot": {minArgs: 2, maxArgs: 2, fn: binary(math.Hypot)},

		// Rounding.
		"floor": {minArgs: 1, maxArgs: 1, fn: unary(math.Floor)},
		"ceil":  {minArgs: 1, maxArgs: 1, fn: unary(math.Ceil)},
		"trunc": {minArgs: 1, maxArgs: 1, fn: unary(math.Trunc)},
		"round": {minArgs: 1, maxArgs: 1, fn: unary(math.Round)},

		// Misc numeric.
		"abs":   {minArgs: 1, maxArgs: 1, fn: unary(math.Abs)},
		"sign":  {minArgs: 1, maxArgs: 1, fn: unary(sign)},
		"min":   {minArgs: 1, maxArgs: -1, fn: minOf},
		"max":   {minArgs: 1, maxArgs: -1, fn: maxOf},
		"mod":   {minArgs: 2, maxArgs: 2, fn: modOf},
		"clamp": {minArgs: 3, maxArgs: 3, fn: clampOf},
	}
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func logN(args []float64) (float64, error) {
	if len(args) == 1 {
		return math.Log(args[0]), nil
	}
	base := math.Log(args[1])
	if base == 0 {
		return 0, fmt.Errorf("%w: log: base 1", ErrEval)
	}
	return math.Log(args[0]) / base, nil
}

func minOf(args []float64) (float64, error) {
	m := args[0]
	for _, v := range args[1:] {
		if v < m {
			m = v
		}
	}
	return m, nil
}

func maxOf(args []float64) (float64, error) {
	m := args[0]
	for _, v := range args[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

func modOf(args []float64) (float64, error) {
	a, b := args[0], args[1]
	if b == 0 {
		return 0, fmt.Errorf("%w: mod: division by zero", ErrEval)
	}
	return a - b*math.Floor(a/b), nil
}

func clampOf(args []float64) (float64, error) {
	x, lo, hi := args[0], args[1], args[2]
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(x, lo), hi), nil
}
