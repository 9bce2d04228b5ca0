package mathexpr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x", 3, 3},
		{"1 + 2 * 3", 0, 7},
		{"(1 + 2) * 3", 0, 9},
		{"[1 + 2] * 3", 0, 9},
		{"2^3^2", 0, 512},
		{"2**3", 0, 8},
		{"-x^2", 3, -9},
		{"2^-1", 0, 0.5},
		{"2x", 4, 8},
		{"3(x+1)", 1, 6},
		{"(x+1)(x-1)", 3, 8},
		{"x/2", 5, 2.5},
		{"sin(pi/2)", 0, 1},
		{"cos(0) + ln(e)", 0, 2},
		{"sqrt(16) + abs(-2)", 0, 6},
		{"max(1, x, 3)", 7, 7},
		{"min(4, 2, x)", 9, 2},
		{"log(8, 2)", 0, 3},
		{"mod(-1, 3)", 0, 2},
		{"clamp(x, 0, 1)", 5, 1},
		{"1.5e2 + .5", 0, 150.5},
		{"tau/pi", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Evaluate(tt.src, tt.x)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"   ",
		"1 +",
		"(x",
		"x)",
		"sin(",
		"foo(x)",
		"sin(1, 2)",
		"atan2(1)",
		"2 $ 3",
		".",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Compile(src)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrParse), "err = %v", err)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ex, err := Compile("1/x")
	require.NoError(t, err)

	_, err = ex.Eval(0)
	require.ErrorIs(t, err, ErrEval)

	got, err := ex.Eval(4)
	require.NoError(t, err)
	require.Equal(t, 0.25, got)

	_, err = Evaluate("y + 1", 0)
	require.ErrorIs(t, err, ErrUnknownVar)
	require.ErrorIs(t, err, ErrEval)

	_, err = Evaluate("mod(x, 0)", 1)
	require.ErrorIs(t, err, ErrEval)
}

func TestNonFiniteIsNotAnError(t *testing.T) {
	got, err := Evaluate("sqrt(x)", -1)
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))

	got, err = Evaluate("ln(x)", 0)
	require.NoError(t, err)
	require.True(t, math.IsInf(got, -1))
}

func TestExprReuse(t *testing.T) {
	ex, err := Compile("x^2 - 1")
	require.NoError(t, err)
	require.Equal(t, "x^2 - 1", ex.String())

	for _, x := range []float64{-2, 0, 0.5, 3} {
		got, err := ex.Eval(x)
		require.NoError(t, err)
		require.InDelta(t, x*x-1, got, 1e-12)
	}
}
