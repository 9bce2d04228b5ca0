// Package mathexpr parses and evaluates real-valued expressions in one free
// variable, x.
//
// The grammar covers numbers, the operators + - * / ^ (right-associative),
// unary signs, parentheses (round or square), implicit multiplication such
// as 2x or 3(x+1), named constants (pi, tau, e, phi) and a table of scalar
// functions (sin, ln, sqrt, min, ...).
//
// Evaluation never panics. Failures are reported as errors wrapping ErrParse,
// ErrEval or ErrUnknownVar. Results that are not finite (sqrt(-1), log(0))
// are returned as NaN or ±Inf without an error; callers decide how to treat
// them.
package mathexpr
