/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: membership.go
Description: Piecewise-linear membership functions for triangular and trapezoidal fuzzy
sets. Shapes form a closed set of types sharing one evaluation routine, plus the
control-point centroid used by defuzzification.
*/

package fuzzy

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// ShapeKind identifies the geometry of a fuzzy set
type ShapeKind string

const (
	ShapeTriangular  ShapeKind = "TRI"
	ShapeTrapezoidal ShapeKind = "TRAP"
)

// ParseShape accepts the short codes (TRI, TRAP) and the long names
// (triangular, trapezoidal), case-insensitively.
func ParseShape(s string) (ShapeKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRI", "TRIANGLE", "TRIANGULAR":
		return ShapeTriangular, nil
	case "TRAP", "TRAPEZOID", "TRAPEZOIDAL":
		return ShapeTrapezoidal, nil
	default:
		return "", fmt.Errorf("%w: unknown shape %q (want TRI or TRAP)", ErrInvalidShape, s)
	}
}

// Arity returns the number of control points the shape needs
func (k ShapeKind) Arity() int {
	switch k {
	case ShapeTriangular:
		return 3
	case ShapeTrapezoidal:
		return 4
	default:
		return 0
	}
}

// Shape is a membership curve over a variable's domain.
// Implementations are Triangular and Trapezoidal only.
type Shape interface {
	// Kind returns the shape's geometry
	Kind() ShapeKind
	// Points returns a copy of the control points in order
	Points() []float64
	// Degree evaluates membership at x, always in [0,1]
	Degree(x float64) float64
	// Centroid returns the arithmetic mean of the control points.
	// This approximates the area centroid of the curve.
	Centroid() float64

	sealed()
}

// Triangular rises from A to a peak at B and falls to C
type Triangular struct {
	A, B, C float64
}

// Trapezoidal rises from A to B, stays at 1 until C and falls to D
type Trapezoidal struct {
	A, B, C, D float64
}

// NewShape validates the point count, finiteness and ordering and builds the shape
func NewShape(kind ShapeKind, points []float64) (Shape, error) {
	want := kind.Arity()
	if want == 0 {
		return nil, fmt.Errorf("%w: unknown shape %q", ErrInvalidShape, kind)
	}
	if len(points) != want {
		return nil, fmt.Errorf("%w: %s needs %d points, got %d", ErrInvalidShape, kind, want, len(points))
	}
	for _, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("%w: points must be finite, got %v", ErrInvalidShape, points)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i] < points[i-1] {
			return nil, fmt.Errorf("%w: points must be non-decreasing, got %v", ErrInvalidShape, points)
		}
	}

	if kind == ShapeTriangular {
		return Triangular{A: points[0], B: points[1], C: points[2]}, nil
	}
	return Trapezoidal{A: points[0], B: points[1], C: points[2], D: points[3]}, nil
}

// Membership evaluates the membership of x for a shape given as kind and points
func Membership(kind ShapeKind, points []float64, x float64) (float64, error) {
	shape, err := NewShape(kind, points)
	if err != nil {
		return 0, err
	}
	return shape.Degree(x), nil
}

// Kind returns ShapeTriangular
func (t Triangular) Kind() ShapeKind { return ShapeTriangular }

// Points returns [A, B, C]
func (t Triangular) Points() []float64 { return []float64{t.A, t.B, t.C} }

// Degree evaluates the triangle as a trapezoid with a single-point plateau
func (t Triangular) Degree(x float64) float64 { return piecewise(x, t.A, t.B, t.B, t.C) }

// Centroid returns (A+B+C)/3
func (t Triangular) Centroid() float64 { return centroid(t.Points()) }

func (t Triangular) String() string { return fmt.Sprintf("TRI(%g, %g, %g)", t.A, t.B, t.C) }

func (Triangular) sealed() {}

// Kind returns ShapeTrapezoidal
func (t Trapezoidal) Kind() ShapeKind { return ShapeTrapezoidal }

// Points returns [A, B, C, D]
func (t Trapezoidal) Points() []float64 { return []float64{t.A, t.B, t.C, t.D} }

// Degree evaluates the trapezoid
func (t Trapezoidal) Degree(x float64) float64 { return piecewise(x, t.A, t.B, t.C, t.D) }

// Centroid returns (A+B+C+D)/4
func (t Trapezoidal) Centroid() float64 { return centroid(t.Points()) }

func (t Trapezoidal) String() string {
	return fmt.Sprintf("TRAP(%g, %g, %g, %g)", t.A, t.B, t.C, t.D)
}

func (Trapezoidal) sealed() {}

// piecewise evaluates the trapezoid a <= b <= c <= d on the closed interval [a,d].
// A segment with equal x-coordinates is vertical, so x lands on its upper value.
func piecewise(x, a, b, c, d float64) float64 {
	switch {
	case x < a || x > d:
		return 0
	case x >= b && x <= c:
		return 1
	case x < b:
		// a < b holds here since a <= x < b
		return (x - a) / (b - a)
	default:
		// c < x <= d, so c < d
		return (d - x) / (d - c)
	}
}

func centroid(points []float64) float64 {
	// points is never empty for a constructed shape
	mean, err := stats.Mean(points)
	if err != nil {
		return 0
	}
	return mean
}
