package track

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/spline"
)

// arcTable maps cumulative arc length to global curve parameter and back.
// Both directions are sorted maps, queried by floor/ceiling and
// interpolated linearly.
type arcTable struct {
	byDist  *treemap.Map // arc length → u
	byParam *treemap.Map // u → arc length
}

func newArcTable() *arcTable {
	return &arcTable{
		byDist:  treemap.NewWith(utils.Float64Comparator),
		byParam: treemap.NewWith(utils.Float64Comparator),
	}
}

func (tbl *arcTable) put(dist, u float64) {
	tbl.byDist.Put(dist, u)
	tbl.byParam.Put(u, dist)
}

// lookup interpolates the value at key k between the bracketing entries.
func lookup(m *treemap.Map, k float64) (float64, bool) {
	fk, fv := m.Floor(k)
	ck, cv := m.Ceiling(k)
	switch {
	case fk == nil && ck == nil:
		return 0, false
	case fk == nil:
		return cv.(float64), true
	case ck == nil:
		return fv.(float64), true
	}
	k0, k1 := fk.(float64), ck.(float64)
	v0, v1 := fv.(float64), cv.(float64)
	if k1 <= k0 {
		return v0, true
	}
	return v0 + (v1-v0)*(k-k0)/(k1-k0), true
}

// ParamAtDistance returns the global curve parameter at arc length d from
// the start of the loop. d wraps around the loop length. Moving d at a
// constant rate moves a train at constant speed.
func (g *Geometry) ParamAtDistance(d float64) float64 {
	if g.table == nil || !(g.Length > 0) || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	d -= math.Floor(d/g.Length) * g.Length
	if g.Length-d <= railspline.Epsilon*g.Length { // a full lap, up to summation error
		d = 0
	}
	u, _ := lookup(g.table.byDist, d)
	if railspline.Is1(u) {
		return 0
	}
	return spline.Wrap(u)
}

// DistanceAtParam returns the arc length from the start of the loop to
// global curve parameter u (wrapped into [0,1)).
func (g *Geometry) DistanceAtParam(u float64) float64 {
	if g.table == nil || math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}
	d, _ := lookup(g.table.byParam, spline.Wrap(u))
	return d
}
