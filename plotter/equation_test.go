package plotter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEquation(t *testing.T) {
	ev := NewMathEvaluator()
	tests := []struct {
		expr string
		want ErrorKind
	}{
		{"x^2", ErrorNone},
		{"1/x", ErrorNone},
		{"sin(x) + cos(2x)", ErrorNone},
		{"", ErrorEmpty},
		{"   ", ErrorEmpty},
		{"x +", ErrorInvalid},
		{"foo(x)", ErrorInvalid},
		{"y", ErrorInvalid},
		{"1/(x-1)", ErrorInvalid},
	}
	for _, tt := range tests {
		eq := Equation{Expression: tt.expr, Error: ErrorInvalid}
		err := ValidateEquation(ev, &eq)
		require.Equal(t, tt.want, eq.Error, "ValidateEquation(%q)", tt.expr)
		if tt.want == ErrorNone {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, ErrEquationInvalid)
		}
	}
}

func TestErrorKindMessage(t *testing.T) {
	require.Empty(t, ErrorNone.Message())
	require.Equal(t, "enter a function", ErrorEmpty.Message())
	require.Equal(t, "the function is not valid", ErrorInvalid.Message())
}

func TestEquationListAdd(t *testing.T) {
	l := NewEquationList(nil, nil)
	for i := 0; i < len(Palette)+2; i++ {
		require.Equal(t, i, l.Add())
	}
	for i, eq := range l.Equations() {
		require.Equal(t, Palette[i%len(Palette)], eq.Color)
		require.True(t, eq.Visible)
		require.Equal(t, ErrorEmpty, eq.Error)
		require.False(t, eq.Drawable())
	}
}

func TestEquationListUpdate(t *testing.T) {
	changes := 0
	ev := NewMathEvaluator()
	l := NewEquationList(func(eq *Equation) error { return ValidateEquation(ev, eq) }, func() { changes++ })
	i := l.Add()

	require.ErrorIs(t, l.Update(i, ""), ErrEquationInvalid)
	eq, _ := l.At(i)
	require.Equal(t, ErrorEmpty, eq.Error)
	require.Zero(t, changes)

	require.ErrorIs(t, l.Update(i, "x +* 2"), ErrEquationInvalid)
	eq, _ = l.At(i)
	require.Equal(t, ErrorInvalid, eq.Error)
	require.Zero(t, changes)

	require.NoError(t, l.Update(i, "x^2"))
	eq, _ = l.At(i)
	require.Equal(t, ErrorNone, eq.Error)
	require.True(t, eq.Drawable())
	require.Equal(t, 1, changes)

	// Rejecting a drawn equation clears it; rejecting it again changes nothing.
	require.ErrorIs(t, l.Update(i, "sin("), ErrEquationInvalid)
	eq, _ = l.At(i)
	require.False(t, eq.Drawable())
	require.Equal(t, 2, changes)
	require.ErrorIs(t, l.Update(i, ""), ErrEquationInvalid)
	require.Equal(t, 2, changes)

	require.NoError(t, l.Update(i, "x"))
	require.ErrorIs(t, l.Update(i, " "), ErrEquationInvalid)
	eq, _ = l.At(i)
	require.Equal(t, ErrorEmpty, eq.Error)
	require.Equal(t, 4, changes)
}

func TestEquationListMutations(t *testing.T) {
	changes := 0
	l := NewEquationList(nil, func() { changes++ })
	l.Add()
	l.Add()
	require.NoError(t, l.Update(0, "x"))
	require.NoError(t, l.Update(1, "-x"))
	require.Equal(t, 2, changes)

	require.NoError(t, l.ToggleVisible(0))
	eq, _ := l.At(0)
	require.False(t, eq.Visible)
	require.Equal(t, 3, changes)

	require.NoError(t, l.Delete(0))
	require.Equal(t, 1, l.Len())
	eq, _ = l.At(0)
	require.Equal(t, "-x", eq.Expression)
	require.Equal(t, 4, changes)

	for _, err := range []error{l.Delete(5), l.ToggleVisible(-1), l.Update(1, "x")} {
		require.True(t, errors.Is(err, ErrNoEquation), "got %v", err)
	}
	require.Equal(t, 4, changes)
	_, ok := l.At(3)
	require.False(t, ok)
}
