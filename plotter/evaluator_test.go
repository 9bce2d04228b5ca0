package plotter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMathEvaluator(t *testing.T) {
	ev := NewMathEvaluator()
	y, err := ev.Evaluate("x^2 + 1", 3)
	require.NoError(t, err)
	require.Equal(t, 10.0, y)

	for _, src := range []string{"1/x", "ln(x)", "sqrt(x - 1)"} {
		_, err := ev.Evaluate(src, 0)
		require.ErrorIs(t, err, ErrEvalFailure, src)
	}
	_, err = ev.Evaluate("(x", 0)
	require.ErrorIs(t, err, ErrEvalFailure)
}

func TestMathEvaluatorCache(t *testing.T) {
	ev := NewMathEvaluator()
	for i := 0; i < 3; i++ {
		_, err := ev.Evaluate("x*", float64(i))
		require.Error(t, err)
		y, err := ev.Evaluate("2x", float64(i))
		require.NoError(t, err)
		require.Equal(t, 2*float64(i), y)
	}
	require.Len(t, ev.compiled, 1)
	require.Len(t, ev.failed, 1)

	for i := 0; i < maxCompiled+10; i++ {
		_, _ = ev.Evaluate("x+"+string(rune('0'+i%10))+"*"+string(rune('a'+i%26)), 1)
	}
	require.LessOrEqual(t, len(ev.compiled)+len(ev.failed), maxCompiled)
}
