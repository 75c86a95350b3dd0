// Package geom provides the distance and clamping utilities shared by the
// spotlight engine and its hosts.
package geom

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b r2.Point) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// PointInCircle checks if a point is within radius of a center position.
func PointInCircle(p, center r2.Point, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}

// Clamp limits v to [lo, hi]. NaN is mapped to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect builds a rectangle from its left, top, right and bottom edges.
// Edges given in the wrong order are swapped.
func Rect(left, top, right, bottom float64) r2.Rect {
	return r2.Rect{
		X: r1.IntervalFromPoint(left).AddPoint(right),
		Y: r1.IntervalFromPoint(top).AddPoint(bottom),
	}
}

// DistanceToRect returns the distance from p to the closest point of rect.
// Points inside the rectangle are at distance 0. Empty rectangles are
// infinitely far away.
func DistanceToRect(p r2.Point, rect r2.Rect) float64 {
	if rect.IsEmpty() {
		return math.Inf(1)
	}
	return Distance(p, rect.ClampPoint(p))
}

// CircleTouchesRect reports whether a circle overlaps any part of rect.
// The test is exact point-to-rectangle distance, so a circle grazing an edge
// counts even when the rectangle's center is far away.
func CircleTouchesRect(center r2.Point, radius float64, rect r2.Rect) bool {
	return DistanceToRect(center, rect) < radius
}
