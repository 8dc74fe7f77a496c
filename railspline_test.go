package railspline

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if Zap(a) != 0 {
		t.Errorf("Expected zapped a to be exactly zero, is %g", Zap(a))
	}
}

func TestSafeAcos(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 0.0, SafeAcos(1.0000000002))
	assert.InDelta(t, math.Pi, SafeAcos(-1.0000001), 1e-12)
	assert.False(t, math.IsNaN(SafeAcos(math.NaN())))
	assert.InDelta(t, math.Pi/2, SafeAcos(0), 1e-12)
}

func TestUnitFallback(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	u, ok := Unit(V(0, 0, 0), WorldRight)
	assert.False(t, ok)
	assert.Equal(t, WorldRight, u)
	u, ok = Unit(V(math.NaN(), 1, 0), WorldUp)
	assert.False(t, ok)
	assert.Equal(t, WorldUp, u)
	u, ok = Unit(V(3, 0, 4), WorldUp)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, u.Len(), 1e-12)
	again, _ := Unit(u, WorldUp)
	assert.True(t, EqualV(u, again), "normalizing a unit vector must be a no-op")
}

func TestBlend4(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := [4]mgl64.Vec3{V(0, 0, 0), V(10, 0, 0), V(10, 0, 10), V(0, 0, 10)}
	r := Blend4(p, [4]float64{0.5, 0.5, 0, 0})
	assert.True(t, EqualV(r, V(5, 0, 0)), "got %s", VString(r))
	if !EqualV(Lerp(p[0], p[1], 0.5), r) {
		t.Errorf("Expected Lerp and Blend4 to agree")
	}
}

func TestPlacement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Placement(V(1, 2, 3), 90, 0)
	p := TransformPoint(m, V(1, 0, 0))
	if !EqualV(ZapV(p), V(1, 2, 2)) {
		t.Errorf("Expected (1,0,0) yawed 90° and shifted to be (1,2,2), is %s", VString(p))
	}
	d := TransformDir(Placement(Origin, 0, 90), V(0, 1, 0))
	if !EqualV(ZapV(d), V(0, 0, 1)) {
		t.Errorf("Expected up pitched 90° to be (0,0,1), is %s", VString(d))
	}
}
