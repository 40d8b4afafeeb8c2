// Package geometry holds the point-membership and intersection tests the
// course builder and the sensor oracle are made of.
package geometry

import (
	"math"

	"line-tracer/internal/common"
)

// ParallelThreshold is the smallest |det| for which two lines are treated as
// having a unique intersection.
const ParallelThreshold = 0.01

// OnLine reports whether p lies within halfWidth of the segment start-end.
// Points whose projection falls outside the segment are rejected; the
// tolerance band is boundary-inclusive.
func OnLine(p, start, end common.Vec2, halfWidth float64) bool {
	seg := end.Sub(start)
	l := seg.Len()
	dir := seg.Normalize()
	rel := p.Sub(start)
	along := rel.Dot(dir)
	if along < 0 || along > l {
		return false
	}
	return rel.Sub(dir.Scale(along)).Len() <= halfWidth
}

// OnArc reports whether p lies on the annulus r±halfWidth around origin
// inside the sweep bounded by the radial lines at the arc's two ends. The
// sweep is described by the travel directions at the start and end of the
// arc, which makes the test independent of the sweep direction. It is exact
// for sweeps up to a half turn; use OnArcSweep for longer arcs.
func OnArc(p, origin common.Vec2, r, halfWidth float64, startDir, endDir common.Vec2) bool {
	v := p.Sub(origin)
	if startDir.Dot(v) < 0 || endDir.Dot(v) > 0 {
		return false
	}
	return inBand(v.Len(), r, halfWidth)
}

// OnArcSweep is the angular form of OnArc: the arc runs counter-clockwise
// from startAngle to endAngle.
func OnArcSweep(p, origin common.Vec2, r, halfWidth, startAngle, endAngle float64) bool {
	v := p.Sub(origin)
	sweep := WrapTwoPi(endAngle - startAngle)
	if WrapTwoPi(v.Angle()-startAngle) > sweep {
		return false
	}
	return inBand(v.Len(), r, halfWidth)
}

func inBand(x, r, halfWidth float64) bool {
	return r-halfWidth < x && x < r+halfWidth
}

// OnCircle reports whether p lies inside the closed disk of radius r.
func OnCircle(p, origin common.Vec2, r float64) bool {
	return p.Dist(origin) <= r
}

// Intersect returns the intersection of the lines p0 + t*v0 and p1 + s*v1.
// ok is false when the lines are (nearly) parallel.
func Intersect(p0, v0, p1, v1 common.Vec2) (common.Vec2, bool) {
	d := v0.X*v1.Y - v0.Y*v1.X
	if math.Abs(d) < ParallelThreshold {
		return common.Vec2{}, false
	}
	x := (p1.X*v0.X*v1.Y + ((p0.Y-p1.Y)*v0.X-p0.X*v0.Y)*v1.X) / d
	y := (((p1.X-p0.X)*v0.Y+p0.Y*v0.X)*v1.Y - p1.Y*v0.Y*v1.X) / d
	return common.Vec2{X: x, Y: y}, true
}

// TangentOnCircle turns an outward radial vector into the unit travel
// direction of a counter-clockwise (ccw) or clockwise traversal.
func TangentOnCircle(radial common.Vec2, ccw bool) common.Vec2 {
	t := radial.Perp().Normalize()
	if ccw {
		return t
	}
	return t.Scale(-1)
}

// WrapTwoPi maps th into [0, 2π).
func WrapTwoPi(th float64) float64 {
	th = math.Mod(th, 2*math.Pi)
	if th < 0 {
		th += 2 * math.Pi
	}
	return th
}
