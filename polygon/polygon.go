/*
Package polygon deals with closed polygons in the ground plane.

Track and scenery footprints are projected onto the XZ plane, where X
becomes the polygon's X and Z becomes its Y. Boolean operations are
delegated to polyclip (Martinez–Rueda–Feito clipping).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the polygon trace.
func L() tracing.Trace {
	return tracing.Select("railspline.polygon")
}

// P creates a point in the ground plane.
func P(x, y float64) polyclip.Point {
	return polyclip.Point{X: x, Y: y}
}

// Ground projects a world point onto the ground plane.
func Ground(v mgl64.Vec3) polyclip.Point {
	return polyclip.Point{X: v[0], Y: v[2]}
}

// Polygon is a simple polygon, built knot by knot.
type Polygon struct {
	contour polyclip.Contour
	cycle   bool
}

// NullPolygon creates an empty polygon.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a corner.
func (pg *Polygon) Knot(p polyclip.Point) *Polygon {
	pg.contour.Add(p)
	return pg
}

// Cycle closes the polygon.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// IsCycle is a predicate: is the polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// N returns the number of corners.
func (pg *Polygon) N() int {
	return len(pg.contour)
}

// Box creates a rectangle from two opposite corners, conventionally the
// upper left and the lower right one.
func Box(ul, lr polyclip.Point) *Polygon {
	x0, x1 := math.Min(ul.X, lr.X), math.Max(ul.X, lr.X)
	y0, y1 := math.Min(ul.Y, lr.Y), math.Max(ul.Y, lr.Y)
	return NullPolygon().Knot(P(x0, y1)).Knot(P(x1, y1)).Knot(P(x1, y0)).Knot(P(x0, y0)).Cycle()
}

// Contains is a predicate: is p inside the polygon?
func (pg *Polygon) Contains(p polyclip.Point) bool {
	return pg.N() > 2 && pg.contour.Contains(p)
}

// Area returns the area enclosed by the polygon.
func (pg *Polygon) Area() float64 {
	return math.Abs(signedArea(pg.contour))
}

// Clip returns the polygon in the representation used for clipping.
func (pg *Polygon) Clip() polyclip.Polygon {
	if pg.N() == 0 {
		return polyclip.Polygon{}
	}
	return polyclip.Polygon{pg.contour.Clone()}
}

// AsString returns a polygon as a string, in MetaPost style:
//
//	(0,0) -- (1,3) -- (3,0) -- cycle
func AsString(pg *Polygon) string {
	var b strings.Builder
	for i, p := range pg.contour {
		if i > 0 {
			b.WriteString(" -- ")
		}
		b.WriteString(fmt.Sprintf("(%.4g,%.4g)", p.X, p.Y))
	}
	if pg.cycle {
		b.WriteString(" -- cycle")
	}
	return b.String()
}

// === Boolean operations ====================================================

// Intersection returns the area common to a and b.
func Intersection(a, b polyclip.Polygon) polyclip.Polygon {
	return a.Construct(polyclip.INTERSECTION, b)
}

// Union merges polygons into one.
func Union(pgs ...*Polygon) polyclip.Polygon {
	var u polyclip.Polygon
	for _, pg := range pgs {
		if pg == nil || pg.N() < 3 {
			continue
		}
		if len(u) == 0 {
			u = pg.Clip()
			continue
		}
		u = u.Construct(polyclip.UNION, pg.Clip())
	}
	return u
}

// Inside is a predicate: is p inside the clipping polygon pg? Contours are
// combined by the even-odd rule, so p in a hole is outside.
func Inside(pg polyclip.Polygon, p polyclip.Point) bool {
	in := false
	for _, c := range pg {
		if len(c) > 2 && c.Contains(p) {
			in = !in
		}
	}
	return in
}

// Area returns the area of a clipping polygon. A contour nested within an
// odd number of other contours is a hole.
func Area(pg polyclip.Polygon) float64 {
	a := 0.0
	for i, c := range pg {
		if len(c) < 3 {
			continue
		}
		depth := 0
		for j, other := range pg {
			if i != j && len(other) > 2 && other.Contains(c[0]) {
				depth++
			}
		}
		if depth%2 == 0 {
			a += math.Abs(signedArea(c))
		} else {
			a -= math.Abs(signedArea(c))
		}
	}
	return a
}

// signedArea is the shoelace formula. Counter-clockwise contours have
// positive area.
func signedArea(c polyclip.Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	a := 0.0
	for i := 0; i < n; i++ {
		p, q := c[i], c[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}
