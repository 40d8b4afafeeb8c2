package track

import (
	"math"
	"slices"

	"line-tracer/internal/common"
	"line-tracer/internal/geometry"
)

const (
	// MinLineLength is the shortest line the builder will propose.
	MinLineLength = 0.01
	// MinFitDenominator below which the tangent circle degenerates to a line.
	MinFitDenominator = 0.02
)

// Params are the physical dimensions of the printed course.
type Params struct {
	HalfLineWidth float64
	HalfMarkWidth float64
	MarkDistance  float64
}

// DefaultParams is a 19 mm line with 20 mm marks 60 mm beside it.
func DefaultParams() Params {
	return Params{
		HalfLineWidth: 0.019 / 2,
		HalfMarkWidth: 0.02 / 2,
		MarkDistance:  0.06,
	}
}

// Phase is the authoring state of the segment currently being drawn.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseAuthoring
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseAuthoring:
		return "authoring"
	case PhaseCommitted:
		return "committed"
	}
	return "unknown"
}

// Course is an interactively built, tangent-continuous line course.
//
// Segments are only ever appended through CommitPending, so every
// committed segment starts where and how the previous one ends.
type Course struct {
	Params

	segments []Segment
	popped   []Segment
	marks    []Mark

	pending   Segment
	cursor    common.Vec2
	hasCursor bool
	phase     Phase
}

// NewCourse creates an empty course.
func NewCourse(p Params) *Course {
	return &Course{Params: p}
}

// Segments returns a copy of the committed segments.
func (c *Course) Segments() []Segment {
	return append([]Segment(nil), c.segments...)
}

// Marks returns a copy of the marks.
func (c *Course) Marks() []Mark {
	return append([]Mark(nil), c.marks...)
}

// Pending returns the uncommitted segment, if any.
func (c *Course) Pending() (Segment, bool) {
	return c.pending, c.pending != nil
}

// Cursor returns the point the next segment will start from.
func (c *Course) Cursor() (common.Vec2, bool) {
	return c.cursor, c.hasCursor
}

func (c *Course) Phase() Phase { return c.phase }

// RedoDepth is the number of segments Redo can restore.
func (c *Course) RedoDepth() int { return len(c.popped) }

func (c *Course) last() Segment {
	if len(c.segments) == 0 {
		return nil
	}
	return c.segments[len(c.segments)-1]
}

// SetStartPoint places the authoring cursor. Once a segment exists the
// cursor always snaps to the open end of the path and p is ignored.
func (c *Course) SetStartPoint(p common.Vec2) {
	if last := c.last(); last != nil {
		c.cursor = last.End()
	} else {
		c.cursor = p
	}
	c.hasCursor = true
	c.pending = nil
	c.phase = PhaseAuthoring
}

// ProposeLine makes a straight line from the cursor to p the pending
// segment. A line may not directly follow another line. It reports whether
// the pending segment changed.
func (c *Course) ProposeLine(p common.Vec2) bool {
	if !c.hasCursor {
		return false
	}
	if _, ok := c.last().(LineSegment); ok {
		return false
	}
	if p.Dist(c.cursor) < MinLineLength {
		return false
	}
	c.pending = NewLineSegment(c.cursor, p)
	return true
}

// ProposeCurve makes the arc that leaves the cursor tangent to the end of
// the path and passes through p the pending segment. The first segment of a
// course, and any arc too flat to fit, become a line instead.
func (c *Course) ProposeCurve(p common.Vec2) bool {
	if !c.hasCursor {
		return false
	}
	last := c.last()
	if last == nil {
		return c.ProposeLine(p)
	}
	arc, ok := fitTangentArc(c.cursor, last.EndDir(), p)
	if !ok {
		return c.ProposeLine(p)
	}
	c.pending = arc
	return true
}

// fitTangentArc solves for the circle tangent to d at p0 that also passes
// through p1.
func fitTangentArc(p0, d, p1 common.Vec2) (ArcSegment, bool) {
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx, dy := d.X, d.Y

	den := 2 * (dx*(y1-y0) - dy*(x1-x0))
	if math.Abs(den) < MinFitDenominator {
		return ArcSegment{}, false
	}

	cx := -(dy*y1*y1 + (-2*dy*y0-2*dx*x0)*y1 + dy*y0*y0 + 2*dx*x0*y0 + dy*x1*x1 - dy*x0*x0) / den
	cy := (dx*y1*y1 - dx*y0*y0 + (2*dy*x0-2*dy*x1)*y0 + dx*x1*x1 - 2*dx*x0*x1 + dx*x0*x0) / den
	r := math.Hypot(dx, dy) * ((y1-y0)*(y1-y0) + (x1-x0)*(x1-x0)) / math.Abs(den)

	center := common.Vec2{X: cx, Y: cy}
	r0 := p0.Sub(center)
	r1 := p1.Sub(center)

	arc := ArcSegment{
		Origin:  center,
		Radius:  r,
		From:    p0,
		To:      p1,
		FromDir: d,
	}
	if r0.Cross(d) >= 0 {
		arc.CCW = true
		arc.StartAngle = r0.Angle()
		arc.EndAngle = r1.Angle()
	} else {
		arc.StartAngle = r1.Angle()
		arc.EndAngle = r0.Angle()
	}
	arc.ToDir = geometry.TangentOnCircle(r1, arc.CCW)
	return arc, true
}

// CommitPending appends the pending segment, if any, and clears the cursor.
func (c *Course) CommitPending() {
	if c.pending != nil {
		c.segments = append(c.segments, c.pending)
		c.phase = PhaseCommitted
	} else if c.hasCursor {
		c.phase = PhaseEmpty
	}
	c.pending = nil
	c.hasCursor = false
}

// Undo moves the last committed segment onto the redo stack.
func (c *Course) Undo() {
	if len(c.segments) == 0 {
		return
	}
	n := len(c.segments) - 1
	c.popped = append(c.popped, c.segments[n])
	c.segments = c.segments[:n]
}

// Redo restores the most recently undone segment. Committing after an undo
// leaves the redo stack as it was.
func (c *Course) Redo() {
	if len(c.popped) == 0 {
		return
	}
	n := len(c.popped) - 1
	c.segments = append(c.segments, c.popped[n])
	c.popped = c.popped[:n]
}

// CloseLoopWithTangentArc proposes the arc that leaves the end of the path
// and arrives at the first segment's start on the far side of the
// intersection of the two tangent rays. Parallel rays leave the course as
// it was.
func (c *Course) CloseLoopWithTangentArc() bool {
	if len(c.segments) < 2 {
		return false
	}
	first, last := c.segments[0], c.last()
	p0, v0 := last.End(), last.EndDir()
	p1, v1 := first.Start(), first.StartDir()

	po, ok := geometry.Intersect(p0, v0, p1, v1)
	if !ok {
		return false
	}
	dist := po.Dist(p0)
	var target common.Vec2
	if p0.Sub(po).Dot(v0) > 0 {
		target = po.Sub(v1.Scale(dist))
	} else {
		target = po.Add(v1.Scale(dist))
	}

	if !c.hasCursor {
		c.SetStartPoint(p0)
	}
	return c.ProposeCurve(target)
}

// ForceCloseLoop moves the start of the first segment onto the end of the
// last one without regard for tangency.
func (c *Course) ForceCloseLoop() {
	if len(c.segments) == 0 {
		return
	}
	c.segments[0] = c.segments[0].withStart(c.last().End())
}

// AddMark places a mark of the course's mark size at p.
func (c *Course) AddMark(p common.Vec2) {
	c.marks = append(c.marks, Mark{Origin: p, Radius: c.HalfMarkWidth})
}

// AddGoalMark places a start/goal mark at p.
func (c *Course) AddGoalMark(p common.Vec2) {
	c.marks = append(c.marks, Mark{Origin: p, Radius: c.HalfMarkWidth, Goal: true})
}

// PlaceCornerMarks adds a mark on the left of every curvature change of the
// committed course.
func (c *Course) PlaceCornerMarks() int {
	marks := cornerMarks(c.segments, c.Params)
	c.marks = append(c.marks, marks...)
	return len(marks)
}

// Clear discards every segment, mark and the redo history.
func (c *Course) Clear() {
	c.segments = nil
	c.popped = nil
	c.marks = nil
	c.pending = nil
	c.hasCursor = false
	c.phase = PhaseEmpty
}

// Sample is the sensor oracle: for each point it reports whether it lies
// on a committed or pending segment, or inside a mark.
func (c *Course) Sample(points []common.Vec2) []bool {
	out := make([]bool, len(points))
	for i, p := range points {
		out[i] = c.onLine(p) || c.onMark(p)
	}
	return out
}

func (c *Course) onLine(p common.Vec2) bool {
	for _, seg := range c.segments {
		if seg.Contains(p, c.HalfLineWidth) {
			return true
		}
	}
	return c.pending != nil && c.pending.Contains(p, c.HalfLineWidth)
}

// OnGoalMark reports whether p lies inside a goal mark. Lines and corner
// marks never count, so crossing them cannot be mistaken for the finish.
// A course without goal marks treats every mark as one.
func (c *Course) OnGoalMark(p common.Vec2) bool {
	anyGoal := slices.ContainsFunc(c.marks, func(m Mark) bool { return m.Goal })
	for _, m := range c.marks {
		if (m.Goal || !anyGoal) && m.Contains(p) {
			return true
		}
	}
	return false
}

func (c *Course) onMark(p common.Vec2) bool {
	for _, m := range c.marks {
		if m.Contains(p) {
			return true
		}
	}
	return false
}

// cornerMarks returns a mark on the left of each junction where the
// curvature changes, including the loop closure when the course is closed.
func cornerMarks(segments []Segment, p Params) []Mark {
	var marks []Mark
	place := func(seg Segment) {
		origin := seg.Start().Add(seg.StartDir().Perp().Scale(p.MarkDistance))
		marks = append(marks, Mark{Origin: origin, Radius: p.HalfMarkWidth})
	}
	for i := 1; i < len(segments); i++ {
		if !sameCurvature(segments[i-1], segments[i]) {
			place(segments[i])
		}
	}
	if n := len(segments); n > 1 && IsClosed(segments, Epsilon) && !sameCurvature(segments[n-1], segments[0]) {
		place(segments[0])
	}
	return marks
}

func sameCurvature(a, b Segment) bool {
	return math.Abs(a.Curvature()-b.Curvature()) < 1e-6
}
