package skeletal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newXTimeline(curve Curve) *TranslateXTimeline {
	keys := []Key{At(0, 0).With(curve), At(1, 10)}
	t := NewTranslateXTimeline(2, bezierCount(keys, 1), 0)
	fillCurve(t, keys, 1, nil)
	return t
}

func TestCurve_Interpolation(t *testing.T) {
	t.Run("Linear", func(t *testing.T) {
		tl := newXTimeline(Linear)
		require.InDelta(t, 0, tl.CurveValue(0), delta)
		require.InDelta(t, 2.5, tl.CurveValue(0.25), delta)
		require.InDelta(t, 5, tl.CurveValue(0.5), delta)
		require.InDelta(t, 10, tl.CurveValue(1), delta)
	})

	t.Run("Stepped", func(t *testing.T) {
		tl := newXTimeline(Stepped)
		require.InDelta(t, 0, tl.CurveValue(0.5), delta)
		require.InDelta(t, 0, tl.CurveValue(0.999), delta)
		require.InDelta(t, 10, tl.CurveValue(1), delta)
	})

	t.Run("Bezier Ease", func(t *testing.T) {
		tl := newXTimeline(Bezier(0.25, 0, 0.75, 1))
		require.InDelta(t, 0, tl.CurveValue(0), delta)
		require.InDelta(t, 10, tl.CurveValue(1), delta)
		require.InDelta(t, 5, tl.CurveValue(0.5), 0.2)
		require.Less(t, tl.CurveValue(0.1), float32(1))

		prev := float32(-1)
		for i := 0; i <= 20; i++ {
			v := tl.CurveValue(float32(i) / 20)
			require.GreaterOrEqual(t, v, prev)
			prev = v
		}
	})

	t.Run("Bezier Straight Line", func(t *testing.T) {
		tl := newXTimeline(Bezier(1.0/3, 1.0/3, 2.0/3, 2.0/3))
		for _, at := range []float32{0.1, 0.3, 0.55, 0.9} {
			require.InDelta(t, at*10, tl.CurveValue(at), 0.05)
		}
	})

	t.Run("Clamps Outside Keys", func(t *testing.T) {
		keys := []Key{At(0.5, 3), At(1, 10)}
		tl := NewTranslateXTimeline(2, 0, 0)
		fillCurve(tl, keys, 1, nil)
		require.InDelta(t, 3, tl.CurveValue(0), delta)
		require.InDelta(t, 10, tl.CurveValue(5), delta)
	})
}

func TestCurve_Search(t *testing.T) {
	frames := []float32{0, 1, 2, 3}
	require.Equal(t, 0, Search(frames, -1, 1))
	require.Equal(t, 0, Search(frames, 0, 1))
	require.Equal(t, 1, Search(frames, 1.5, 1))
	require.Equal(t, 3, Search(frames, 3, 1))
	require.Equal(t, 3, Search(frames, 10, 1))

	strided := []float32{0, 9, 1, 9, 2, 9}
	require.Equal(t, 2, Search(strided, 1, 2))
	require.Equal(t, 4, Search(strided, 2.5, 2))
}

func TestCurve_TwoValueBezierOffsets(t *testing.T) {
	keys := []Key{At(0, 0, 100).With(Bezier(0.25, 0, 0.75, 1)), At(1, 10, 0)}
	tl := NewTranslateTimeline(2, bezierCount(keys, 2), 0)
	fillCurve(tl, keys, 2, nil)

	x, y := tl.values(0.5)
	require.InDelta(t, 5, x, 0.2)
	require.InDelta(t, 50, y, 2)
	x, y = tl.values(1)
	require.InDelta(t, 10, x, delta)
	require.InDelta(t, 0, y, delta)
}
