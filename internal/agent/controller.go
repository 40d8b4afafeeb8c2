package agent

import (
	"errors"
	"math"

	"line-tracer/internal/common"
	"line-tracer/internal/physics"
)

var (
	// ErrNoLine means fewer than two line sensors see the line.
	ErrNoLine = errors.New("no line detected")
	// ErrRedundantSample means the new lateral sample is too close to the
	// previous one to be kept.
	ErrRedundantSample = errors.New("sample too close to previous")
	// ErrNoSamples means a control law was asked for before any sample
	// was accepted.
	ErrNoSamples = errors.New("no line samples yet")
)

// Gains are the controller tunables.
type Gains struct {
	HeadingKp, HeadingKi   float64
	PositionKp, PositionKv float64

	MaxForward float64 // m/s
	MaxRotate  float64 // rad/s
	StopSpeed  float64 // below this filtered speed the robot is stopped

	MinSampleDistance float64
	InitialSpeed      float64 // starting value of the filtered forward speed
}

// DefaultGains returns the tuned gains for the default robot.
func DefaultGains() Gains {
	return Gains{
		HeadingKp:         10,
		HeadingKi:         1.15,
		PositionKp:        1000,
		PositionKv:        10,
		MaxForward:        0.4,
		MaxRotate:         2.8,
		StopSpeed:         0.01,
		MinSampleDistance: 0.005,
		InitialSpeed:      0.06,
	}
}

// Target is a reference point for the position controller.
type Target struct {
	Pos, Vel, Acc common.Vec2
	// Clamped is set when the lookahead circle did not reach the
	// estimated line and the foot point was used instead.
	Clamped bool
}

// Controller turns line sensor readings into velocity commands. It keeps
// the history of line positions seen under the sensor bar, split at the
// corner marks.
type Controller struct {
	Gains

	samples  []common.Vec2
	corners  []int // sample index at each corner entry; starts with 0
	inCorner bool
	integral float64
	xi       float64 // filtered forward speed
}

// NewController creates a cleared controller.
func NewController(g Gains) *Controller {
	c := &Controller{Gains: g}
	c.Clear()
	return c
}

// Clear forgets every sample and resets the integrator and speed filter.
func (c *Controller) Clear() {
	c.samples = nil
	c.corners = []int{0}
	c.inCorner = false
	c.integral = 0
	c.xi = c.InitialSpeed
}

// Snapshot is the controller state one tick can change. Samples and
// corners only grow, so their lengths are enough to roll them back.
type Snapshot struct {
	samples  int
	corners  int
	inCorner bool
	integral float64
	xi       float64
}

// Snapshot records the current state for Restore.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		samples:  len(c.samples),
		corners:  len(c.corners),
		inCorner: c.inCorner,
		integral: c.integral,
		xi:       c.xi,
	}
}

// Restore rolls the controller back to s. Samples and corners added since
// s are dropped.
func (c *Controller) Restore(s Snapshot) {
	c.samples = c.samples[:min(s.samples, len(c.samples))]
	c.corners = c.corners[:min(s.corners, len(c.corners))]
	c.inCorner = s.inCorner
	c.integral = s.integral
	c.xi = s.xi
}

// Samples returns a copy of the accepted lateral samples.
func (c *Controller) Samples() []common.Vec2 {
	return append([]common.Vec2(nil), c.samples...)
}

// Corners returns a copy of the sample indices at which corners began.
func (c *Controller) Corners() []int {
	return append([]int(nil), c.corners...)
}

func (c *Controller) InCorner() bool    { return c.inCorner }
func (c *Controller) Integral() float64 { return c.integral }
func (c *Controller) Speed() float64    { return c.xi }

// DetectCorner tracks the corner sensor and reports whether this reading
// is a rising edge.
func (c *Controller) DetectCorner(reading bool) bool {
	switch {
	case reading && !c.inCorner:
		c.inCorner = true
		c.corners = append(c.corners, len(c.samples))
		return true
	case !reading && c.inCorner:
		c.inCorner = false
	}
	return false
}

// AddSample records the midpoint between the outermost line sensors that
// see the line. It returns ErrNoLine when fewer than two sensors are on the
// line and ErrRedundantSample when the new point is within
// MinSampleDistance of the last one.
func (c *Controller) AddSample(positions []common.Vec2, readings []bool) error {
	var on []common.Vec2
	for i, hit := range readings {
		if hit && i < len(positions) {
			on = append(on, positions[i])
		}
	}
	if len(on) < 2 {
		return ErrNoLine
	}

	p := on[0].Add(on[len(on)-1]).Scale(0.5)
	if n := len(c.samples); n > 0 && p.Dist(c.samples[n-1]) < c.MinSampleDistance {
		return ErrRedundantSample
	}
	c.samples = append(c.samples, p)
	return nil
}

// PopSample drops the most recent sample.
func (c *Controller) PopSample() bool {
	n := len(c.samples)
	if n == 0 {
		return false
	}
	c.samples = c.samples[:n-1]
	return true
}

// Heading is a PI law on the bearing from the robot to the latest sample.
// The integral is held at zero while the corner sensor is on a mark. The
// reference is always zero, so there is no derivative term.
func (c *Controller) Heading(pose physics.Pose, refForward float64) (float64, error) {
	n := len(c.samples)
	if n == 0 {
		return 0, ErrNoSamples
	}
	if c.inCorner {
		c.integral = 0
	}

	var bearing float64
	if to := c.samples[n-1].Sub(pose.Position()); to.Len() > 0 {
		bearing = math.Asin(common.Clamp(pose.Heading().Cross(to.Normalize()), -1, 1))
	}
	c.integral += bearing

	return refForward * (c.HeadingKp*bearing + c.HeadingKi*c.integral), nil
}

// Lookahead estimates the line through the two most recent samples and
// returns the point on it refForward*horizon away from the robot, moving
// along the line at refForward. With fewer than two samples the target is
// straight ahead.
func (c *Controller) Lookahead(pose physics.Pose, refForward, horizon float64) Target {
	o := pose.Position()
	n := len(c.samples)
	if n < 2 {
		vel := pose.Heading().Scale(refForward)
		return Target{Pos: o.Add(vel.Scale(horizon)), Vel: vel}
	}

	p1, p2 := c.samples[n-2], c.samples[n-1]
	dir := p2.Sub(p1).Normalize()
	foot := p2.Add(dir.Scale(o.Sub(p2).Dot(dir)))
	perp := o.Dist(foot)
	r := refForward * horizon

	t := Target{Vel: dir.Scale(refForward)}
	if r <= perp {
		checkLookahead(r, perp)
		t.Pos = foot
		t.Clamped = true
		return t
	}
	t.Pos = foot.Add(dir.Scale(math.Sqrt(r*r - perp*perp)))
	return t
}

// TrackToVelocity converts a Cartesian PD law on the target into a
// forward speed and turn rate. The forward speed is the integral of the
// commanded forward acceleration. Both outputs are clamped to the
// actuator limits, and a speed below StopSpeed stops the robot.
func (c *Controller) TrackToVelocity(s physics.State, t Target, dt float64) (float64, float64) {
	pos := s.Pose.Position()
	vel := s.Rates.Velocity()
	u := t.Acc.
		Add(t.Pos.Sub(pos).Scale(c.PositionKp)).
		Add(t.Vel.Sub(vel).Scale(c.PositionKv))

	fwd := s.Pose.Heading()
	xi := c.xi + u.Dot(fwd)*dt
	w := u.Dot(fwd.Perp()) / xi

	c.xi = common.Clamp(xi, -c.MaxForward, c.MaxForward)
	w = common.Clamp(w, -c.MaxRotate, c.MaxRotate)
	if math.Abs(c.xi) < c.StopSpeed {
		return 0, 0
	}
	return c.xi, w
}
