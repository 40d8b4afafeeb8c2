package track

import (
	"math"

	"line-tracer/internal/common"
	"line-tracer/internal/geometry"
)

// Epsilon is the positional and directional tolerance used when checking
// that consecutive segments join up.
const Epsilon = 1e-2

// Segment is one piece of the course: a LineSegment or an ArcSegment.
type Segment interface {
	Start() common.Vec2
	End() common.Vec2
	StartDir() common.Vec2
	EndDir() common.Vec2
	// Curvature is signed: positive turns left, zero is straight.
	Curvature() float64
	Length() float64
	// PointAt returns the position and travel direction at arc length s.
	PointAt(s float64) (common.Vec2, common.Vec2)
	// Contains reports whether p lies within halfWidth of the segment.
	Contains(p common.Vec2, halfWidth float64) bool

	withStart(p common.Vec2) Segment
}

// LineSegment is a straight piece of line.
type LineSegment struct {
	From, To common.Vec2
	Dir      common.Vec2 // unit, shared by both ends
}

// NewLineSegment returns the line from a to b.
func NewLineSegment(a, b common.Vec2) LineSegment {
	return LineSegment{From: a, To: b, Dir: b.Sub(a).Normalize()}
}

func (l LineSegment) Start() common.Vec2    { return l.From }
func (l LineSegment) End() common.Vec2      { return l.To }
func (l LineSegment) StartDir() common.Vec2 { return l.Dir }
func (l LineSegment) EndDir() common.Vec2   { return l.Dir }
func (l LineSegment) Curvature() float64    { return 0 }
func (l LineSegment) Length() float64       { return l.To.Dist(l.From) }

func (l LineSegment) PointAt(s float64) (common.Vec2, common.Vec2) {
	return l.From.Add(l.Dir.Scale(s)), l.Dir
}

func (l LineSegment) Contains(p common.Vec2, halfWidth float64) bool {
	return geometry.OnLine(p, l.From, l.To, halfWidth)
}

func (l LineSegment) withStart(p common.Vec2) Segment {
	return NewLineSegment(p, l.To)
}

// ArcSegment is a circular arc. StartAngle and EndAngle always describe the
// arc counter-clockwise, whichever way it is travelled; CCW records the
// direction of travel.
type ArcSegment struct {
	Origin               common.Vec2
	Radius               float64
	StartAngle, EndAngle float64
	From, To             common.Vec2
	FromDir, ToDir       common.Vec2
	CCW                  bool
}

func (a ArcSegment) Start() common.Vec2    { return a.From }
func (a ArcSegment) End() common.Vec2      { return a.To }
func (a ArcSegment) StartDir() common.Vec2 { return a.FromDir }
func (a ArcSegment) EndDir() common.Vec2   { return a.ToDir }

func (a ArcSegment) Curvature() float64 {
	if a.CCW {
		return 1 / a.Radius
	}
	return -1 / a.Radius
}

// Sweep returns the angle covered by the arc, in [0, 2π).
func (a ArcSegment) Sweep() float64 {
	return geometry.WrapTwoPi(a.EndAngle - a.StartAngle)
}

func (a ArcSegment) Length() float64 { return a.Radius * a.Sweep() }

func (a ArcSegment) PointAt(s float64) (common.Vec2, common.Vec2) {
	th := a.From.Sub(a.Origin).Angle()
	if a.CCW {
		th += s / a.Radius
	} else {
		th -= s / a.Radius
	}
	radial := common.FromAngle(th)
	return a.Origin.Add(radial.Scale(a.Radius)), geometry.TangentOnCircle(radial, a.CCW)
}

func (a ArcSegment) Contains(p common.Vec2, halfWidth float64) bool {
	if a.Sweep() <= math.Pi {
		return geometry.OnArc(p, a.Origin, a.Radius, halfWidth, a.FromDir, a.ToDir)
	}
	return geometry.OnArcSweep(p, a.Origin, a.Radius, halfWidth, a.StartAngle, a.EndAngle)
}

// withStart moves the start of the arc around its circle to the angle of
// p, keeping the end fixed.
func (a ArcSegment) withStart(p common.Vec2) Segment {
	radial := p.Sub(a.Origin)
	a.From = p
	a.FromDir = geometry.TangentOnCircle(radial, a.CCW)
	if a.CCW {
		a.StartAngle = radial.Angle()
	} else {
		a.EndAngle = radial.Angle()
	}
	return a
}

// Mark is a circular patch beside the line flagging a curvature change or,
// with Goal set, the start/goal line.
type Mark struct {
	Origin common.Vec2
	Radius float64
	Goal   bool
}

// Contains reports whether p lies inside the mark's disk.
func (m Mark) Contains(p common.Vec2) bool {
	return geometry.OnCircle(p, m.Origin, m.Radius)
}
