// Package spline evaluates a closed track curve at a global parameter u.
/*
The track is a cyclic sequence of N control points. A global parameter
u ∈ [0,1) selects spline segment side = ⌊u·N⌋ and a local parameter
t = u·N − side. Segment side blends the four control points side … side+3
(mod N) by one of three curve families:

	Linear    straight lines between consecutive points
	Cardinal  Catmull-Rom spline (tension ½), interpolating
	BSpline   uniform cubic B-spline, approximating

Cubic families are written in matrix form: with the monomial basis
T = [t³, t², t, 1] and a 4×4 basis matrix M, the blending weight of point i
is C[i] = Σ_j M[j][i]·T[j]. The tangent uses the derivative basis
T' = [3t², 2t, 1, 0] with the same matrix.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"fmt"
	"strings"
)

// Family selects the blending formula applied to 4 consecutive control points.
type Family int8

// Curve families.
const (
	Linear Family = iota + 1
	Cardinal
	BSpline
)

func (f Family) String() string {
	switch f {
	case Linear:
		return "linear"
	case Cardinal:
		return "cardinal"
	case BSpline:
		return "b-spline"
	}
	return fmt.Sprintf("Family(%d)", int8(f))
}

// Valid is a predicate: is f a known curve family?
func (f Family) Valid() bool {
	return f >= Linear && f <= BSpline
}

// ParseFamily parses a curve family name. It accepts the names returned by
// String and a few common aliases, ignoring case.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "line", "lines":
		return Linear, nil
	case "cardinal", "catmull-rom", "catmullrom":
		return Cardinal, nil
	case "b-spline", "bspline", "b_spline":
		return BSpline, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Basis is a 4×4 spline basis matrix, indexed [power][point].
type Basis [4][4]float64

// CardinalBasis is the Catmull-Rom basis with tension ½.
var CardinalBasis = Basis{
	{-0.5, 1.5, -1.5, 0.5},
	{1, -2.5, 2, -0.5},
	{-0.5, 0, 0.5, 0},
	{0, 1, 0, 0},
}

// BSplineBasis is the uniform cubic B-spline basis.
var BSplineBasis = Basis{
	{-1.0 / 6, 3.0 / 6, -3.0 / 6, 1.0 / 6},
	{3.0 / 6, -6.0 / 6, 3.0 / 6, 0},
	{-3.0 / 6, 0, 3.0 / 6, 0},
	{1.0 / 6, 4.0 / 6, 1.0 / 6, 0},
}

// blend returns C[i] = Σ_j M[j][i]·T[j].
func (m *Basis) blend(T [4]float64) [4]float64 {
	var C [4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			C[i] += m[j][i] * T[j]
		}
	}
	return C
}

func monomials(t float64) [4]float64 {
	return [4]float64{t * t * t, t * t, t, 1}
}

func derivMonomials(t float64) [4]float64 {
	return [4]float64{3 * t * t, 2 * t, 1, 0}
}

func (f Family) basis() *Basis {
	switch f {
	case Cardinal:
		return &CardinalBasis
	case BSpline:
		return &BSplineBasis
	}
	return nil
}

// Weights returns the blending weights of the four window points at local
// parameter t. Linear blends the first two points only.
func Weights(f Family, t float64) [4]float64 {
	if m := f.basis(); m != nil {
		return m.blend(monomials(t))
	}
	return [4]float64{1 - t, t, 0, 0}
}

// DerivWeights returns the weights of d/dt of the curve. For Linear this is
// the constant chord p2 − p1.
func DerivWeights(f Family, t float64) [4]float64 {
	if m := f.basis(); m != nil {
		return m.blend(derivMonomials(t))
	}
	return [4]float64{-1, 1, 0, 0}
}
