package spline

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/ctrlpt"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var families = []Family{Linear, Cardinal, BSpline}

func square() ctrlpt.Snapshot {
	up := railspline.WorldUp
	return ctrlpt.Nulltrack().
		Point(railspline.V(0, 0, 0), up).
		Point(railspline.V(10, 0, 0), up).
		Point(railspline.V(10, 0, 10), up).
		Point(railspline.V(0, 0, 10), up).
		Snapshot()
}

// a non-planar loop with tilted up hints
func hills() ctrlpt.Snapshot {
	return ctrlpt.Nulltrack().
		Point(railspline.V(0, 2, 0), railspline.V(0, 1, 0)).
		Point(railspline.V(30, 8, -5), railspline.V(0.3, 1, 0)).
		Point(railspline.V(40, 3, 25), railspline.V(0, 2, 0.4)).
		Point(railspline.V(10, 12, 40), railspline.V(-0.2, 1, 0)).
		Point(railspline.V(-15, 5, 20), railspline.V(0, 1, -0.1)).
		Snapshot()
}

func assertVecInDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %s vs %s", i,
			railspline.VString(want), railspline.VString(got))
	}
}

func TestParseFamily(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, f := range families {
		g, err := ParseFamily(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, g)
	}
	f, err := ParseFamily(" Catmull-Rom ")
	require.NoError(t, err)
	assert.Equal(t, Cardinal, f)
	_, err = ParseFamily("bezier")
	assert.True(t, errors.Is(err, ErrUnknownFamily))
}

func TestWeightsPartitionOfUnity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, f := range families {
		for _, x := range []float64{0, 0.2, 0.5, 0.77, 1} {
			w, dw := Weights(f, x), DerivWeights(f, x)
			assert.InDelta(t, 1.0, w[0]+w[1]+w[2]+w[3], 1e-12, "%s at t=%g", f, x)
			assert.InDelta(t, 0.0, dw[0]+dw[1]+dw[2]+dw[3], 1e-12, "%s at t=%g", f, x)
		}
	}
}

func TestLinearScenario(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := Evaluate(square(), Linear, 0.125)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Side)
	assert.InDelta(t, 0.5, s.T, 1e-12)
	assertVecInDelta(t, railspline.V(5, 0, 0), s.Position, 1e-12)
	assertVecInDelta(t, railspline.V(1, 0, 0), s.Tangent, 1e-12)
	assertVecInDelta(t, railspline.WorldUp, s.Orientation, 1e-12)
}

func TestLinearExactness(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := hills()
	for side := 0; side < pts.N(); side++ {
		s0, err := EvaluateSegment(pts, Linear, side, 0)
		require.NoError(t, err)
		s1, err := EvaluateSegment(pts, Linear, side, 1)
		require.NoError(t, err)
		assert.Equal(t, pts.At(side).Pos, s0.Position)
		assert.Equal(t, pts.At(side+1).Pos, s1.Position)
	}
}

func TestBSplineInitialValue(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := square()
	s, err := EvaluateSegment(pts, BSpline, 0, 0)
	require.NoError(t, err)
	p1, p2, p3 := pts.At(0).Pos, pts.At(1).Pos, pts.At(2).Pos
	want := p1.Mul(1.0 / 6).Add(p2.Mul(4.0 / 6)).Add(p3.Mul(1.0 / 6))
	assertVecInDelta(t, want, s.Position, 1e-12)
}

func TestCardinalInterpolates(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := hills()
	for side := 0; side < pts.N(); side++ {
		s, err := EvaluateSegment(pts, Cardinal, side, 0)
		require.NoError(t, err)
		assertVecInDelta(t, pts.At(side+1).Pos, s.Position, 1e-12)
		s, err = EvaluateSegment(pts, Cardinal, side, 1)
		require.NoError(t, err)
		assertVecInDelta(t, pts.At(side+2).Pos, s.Position, 1e-12)
	}
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, pts := range []ctrlpt.Snapshot{square(), hills()} {
		for _, f := range families {
			start := MustEvaluate(pts, f, 0)
			end := MustEvaluate(pts, f, 1-1e-10)
			assertVecInDelta(t, start.Position, end.Position, 1e-6)
		}
	}
}

func TestDerivativeConsistency(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := hills()
	const h = 1e-5
	for _, f := range []Family{Cardinal, BSpline} {
		for side := 0; side < pts.N(); side++ {
			for _, x := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
				s, err := EvaluateSegment(pts, f, side, x)
				require.NoError(t, err)
				lo, _ := EvaluateSegment(pts, f, side, x-h)
				hi, _ := EvaluateSegment(pts, f, side, x+h)
				numeric := hi.Position.Sub(lo.Position).Mul(1 / (2 * h))
				assertVecInDelta(t, numeric, s.Derivative, 1e-3)
			}
		}
	}
}

func TestTangentIsUnit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := hills()
	for _, f := range families {
		for u := 0.0; u < 1; u += 0.037 {
			s := MustEvaluate(pts, f, u)
			assert.InDelta(t, 1.0, s.Tangent.Len(), 1e-9)
			assert.InDelta(t, 1.0, s.Orientation.Len(), 1e-9)
			again, _ := railspline.Unit(s.Tangent, railspline.Origin)
			assertVecInDelta(t, s.Tangent, again, 1e-12)
		}
	}
}

func TestParameterWraps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := square()
	want := MustEvaluate(pts, Cardinal, 0.125)
	for _, u := range []float64{1.125, -0.875, 3.125} {
		s, err := Evaluate(pts, Cardinal, u)
		require.NoError(t, err)
		assertVecInDelta(t, want.Position, s.Position, 1e-9)
		assert.InDelta(t, 0.125, s.U, 1e-12)
	}
	_, err := Evaluate(pts, Cardinal, math.NaN())
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = Evaluate(pts, Cardinal, math.Inf(-1))
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestLocate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	side, x, err := Locate(4, 0.999999999999999999)
	require.NoError(t, err)
	assert.True(t, side >= 0 && side < 4)
	assert.True(t, x >= 0 && x <= 1)
	side, x, err = Locate(5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, side)
	assert.InDelta(t, 0.5, x, 1e-12)
}

func TestTooFewPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := ctrlpt.Nulltrack().
		Point(railspline.V(0, 0, 0), railspline.WorldUp).
		Point(railspline.V(1, 0, 0), railspline.WorldUp).
		Point(railspline.V(1, 0, 1), railspline.WorldUp)
	_, err := Evaluate(pts, BSpline, 0.3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateControlSet))
	assert.True(t, errors.Is(err, ctrlpt.ErrTooFewPoints))
	assert.Panics(t, func() { MustEvaluate(pts, Linear, 0) })
}

func TestDegenerateTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	up := railspline.WorldUp
	pts := ctrlpt.Nulltrack().
		Point(railspline.V(0, 0, 0), up).
		Point(railspline.V(0, 0, 0), up). // duplicate
		Point(railspline.V(10, 0, 10), up).
		Point(railspline.V(0, 0, 10), up).
		Snapshot()
	s, err := Evaluate(pts, Linear, 0.1)
	require.NoError(t, err)
	assert.True(t, s.Degenerate)
	assert.True(t, railspline.IsFinite(s.Tangent))
	assert.InDelta(t, 1.0, s.Tangent.Len(), 1e-12)
	// chord to the next distinct point
	assertVecInDelta(t, railspline.V(math.Sqrt2/2, 0, math.Sqrt2/2), s.Tangent, 1e-12)

	// an evaluator re-uses the previous good tangent
	ev := Evaluator{Family: Linear}
	prev, err := ev.Evaluate(pts, 0.9)
	require.NoError(t, err)
	require.False(t, prev.Degenerate)
	s, err = ev.Evaluate(pts, 0.1)
	require.NoError(t, err)
	assert.True(t, s.Degenerate)
	assertVecInDelta(t, prev.Tangent, s.Tangent, 1e-12)
	ev.Reset()
	s, _ = ev.Evaluate(pts, 0.1)
	assertVecInDelta(t, railspline.V(math.Sqrt2/2, 0, math.Sqrt2/2), s.Tangent, 1e-12)
}

func TestZeroOrientation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	zero := railspline.Origin
	pts := ctrlpt.Nulltrack().
		Point(railspline.V(0, 0, 0), zero).
		Point(railspline.V(10, 0, 0), zero).
		Point(railspline.V(10, 0, 10), zero).
		Point(railspline.V(0, 0, 10), zero)
	for _, f := range families {
		s := MustEvaluate(pts, f, 0.4)
		assert.Equal(t, railspline.WorldUp, s.Orientation)
	}
}

func TestAllCoincident(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := railspline.V(3, 3, 3)
	pts := ctrlpt.Nulltrack().Point(p, railspline.WorldUp).Point(p, railspline.WorldUp).
		Point(p, railspline.WorldUp).Point(p, railspline.WorldUp)
	for _, f := range families {
		s := MustEvaluate(pts, f, 0.6)
		assert.True(t, s.Degenerate)
		assert.Equal(t, railspline.WorldRight, s.Tangent)
	}
}
