package track

import (
	"math"

	"line-tracer/internal/common"
)

// Waypoint is a sample of the course centerline.
type Waypoint struct {
	ID       int
	Position common.Vec2
	Heading  common.Vec2 // unit travel direction
	Normal   common.Vec2 // unit, pointing left of travel
	Distance float64     // arc length from the course start
}

// Mesh is the course sampled into waypoints, used for drawing polylines and
// for locating a position along the course.
type Mesh struct {
	Waypoints []Waypoint
	TotalLen  float64
}

// Flatten samples segments every step meters. Both ends of every segment
// are always included.
func Flatten(segments []Segment, step float64) *Mesh {
	m := &Mesh{}
	for _, seg := range segments {
		l := seg.Length()
		n := max(1, int(math.Ceil(l/step)))
		for i := 0; i <= n; i++ {
			s := l * float64(i) / float64(n)
			pos, dir := seg.PointAt(s)
			m.Waypoints = append(m.Waypoints, Waypoint{
				ID:       len(m.Waypoints),
				Position: pos,
				Heading:  dir,
				Normal:   dir.Perp(),
				Distance: m.TotalLen + s,
			})
		}
		m.TotalLen += l
	}
	return m
}

// Closest finds the waypoint closest to pos. The index is -1 for an empty
// mesh.
// TODO: linear scan; switch to a grid bucket if courses grow past a few
// thousand waypoints.
func (m *Mesh) Closest(pos common.Vec2) (Waypoint, int) {
	minDistSq := math.MaxFloat64
	closestIdx := -1

	for i, wp := range m.Waypoints {
		d := pos.Sub(wp.Position)
		distSq := d.Dot(d)
		if distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}

	if closestIdx == -1 {
		return Waypoint{}, -1
	}
	return m.Waypoints[closestIdx], closestIdx
}

// WorldToFrenet converts a world position to (s, d): progress along the
// course and signed lateral offset, positive to the left.
func (m *Mesh) WorldToFrenet(pos common.Vec2) (float64, float64) {
	wp, idx := m.Closest(pos)
	if idx < 0 {
		return 0, 0
	}
	rel := pos.Sub(wp.Position)
	return wp.Distance + rel.Dot(wp.Heading), rel.Dot(wp.Normal)
}
