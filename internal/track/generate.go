package track

import (
	"fmt"
	"math"

	"line-tracer/internal/common"
	"line-tracer/internal/geometry"
)

// MinRadius is the tightest arc the course rules allow, measured at the
// line's center.
const MinRadius = 0.1

// Piece is one entry of a course program: a straight (Curvature 0) or an
// arc of the given signed curvature, Length meters long.
type Piece struct {
	Curvature float64
	Length    float64
}

// Straight returns a straight piece of length l.
func Straight(l float64) Piece {
	return Piece{Length: l}
}

// Turn returns an arc of radius r sweeping deg degrees; negative radii turn
// right.
func Turn(r, deg float64) Piece {
	return Piece{Curvature: 1 / r, Length: math.Abs(r) * deg * math.Pi / 180}
}

// DefaultProgram is the demonstration course.
func DefaultProgram() []Piece {
	return []Piece{
		Straight(0.5),
		Turn(0.5, 180),
		Straight(1),
		Turn(0.8, 180),
		Straight(0.5),
		Turn(0.3, 90),
		Straight(0.5),
		Turn(0.3, 90),
		Straight(0.5),
		Turn(0.25, 180),
		Straight(0.5),
	}
}

// OvalProgram is a closed oval of two straights joined by half turns.
func OvalProgram(straight, radius float64) []Piece {
	return []Piece{
		Straight(straight),
		Turn(radius, 180),
		Straight(straight),
		Turn(radius, 180),
	}
}

// Generate lays out program starting at the origin heading +x. Every
// curvature change gets a corner mark on the left, and the start line a
// goal mark on the right.
func Generate(program []Piece, p Params) (*Course, error) {
	pos := common.Vec2{}
	dir := common.Vec2{X: 1}
	segments := make([]Segment, 0, len(program))

	for i, piece := range program {
		if piece.Length <= 0 {
			return nil, fmt.Errorf("piece %d: non-positive length %g", i, piece.Length)
		}
		if piece.Curvature == 0 {
			line := LineSegment{From: pos, To: pos.Add(dir.Scale(piece.Length)), Dir: dir}
			segments = append(segments, line)
			pos = line.To
			continue
		}
		r := 1 / math.Abs(piece.Curvature)
		if r < MinRadius {
			return nil, fmt.Errorf("piece %d: radius %.3f below minimum %.3f", i, r, MinRadius)
		}
		if piece.Length >= 2*math.Pi*r {
			return nil, fmt.Errorf("piece %d: arc sweeps a full turn or more", i)
		}
		arc := layArc(pos, dir, piece.Curvature, piece.Length)
		segments = append(segments, arc)
		pos, dir = arc.To, arc.ToDir
	}

	c := NewCourse(p)
	c.segments = segments
	c.marks = cornerMarks(segments, p)
	if len(segments) > 0 {
		right := segments[0].StartDir().Perp().Scale(-p.MarkDistance)
		c.marks = append(c.marks, Mark{Origin: segments[0].Start().Add(right), Radius: p.HalfMarkWidth, Goal: true})
	}
	return c, nil
}

func layArc(pos, dir common.Vec2, k, length float64) ArcSegment {
	r := 1 / math.Abs(k)
	ccw := k > 0
	center := pos.Add(dir.Perp().Scale(1 / k))
	th0 := pos.Sub(center).Angle()
	dth := length / r
	th1 := th0 - dth
	if ccw {
		th1 = th0 + dth
	}
	radial := common.FromAngle(th1)
	arc := ArcSegment{
		Origin:  center,
		Radius:  r,
		From:    pos,
		To:      center.Add(radial.Scale(r)),
		FromDir: dir,
		ToDir:   geometry.TangentOnCircle(radial, ccw),
		CCW:     ccw,
	}
	if ccw {
		arc.StartAngle, arc.EndAngle = th0, th1
	} else {
		arc.StartAngle, arc.EndAngle = th1, th0
	}
	return arc
}
