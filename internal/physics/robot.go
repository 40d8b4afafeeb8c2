package physics

import (
	"math"
	"slices"

	"line-tracer/internal/common"
)

// LineSensorCount is the number of sensors on the front bar.
const LineSensorCount = 6

// Params describe the robot body. Lengths are in meters.
type Params struct {
	WheelRadius     float64
	WheelSeparation float64
	BodyRadius      float64 // distance from the axle to the sensor bar
	SensorPitch     float64 // lateral spacing of the line sensors
	MarkerOffset    float64 // lateral offset of the corner and goal sensors
}

// DefaultParams is a 10 cm wide robot with a 5 cm nose.
func DefaultParams() Params {
	return Params{
		WheelRadius:     0.01,
		WheelSeparation: 0.1,
		BodyRadius:      0.05,
		SensorPitch:     0.019 / 2,
		MarkerOffset:    0.06,
	}
}

// Oracle reports, for each world point, whether a sensor there sees the
// line. It must be pure and defined for any point.
type Oracle func(points []common.Vec2) []bool

// Pose is the robot position and heading. Body x is forward, body y left.
type Pose struct {
	X, Y, Theta float64
}

// Position returns the pose's translation.
func (p Pose) Position() common.Vec2 { return common.Vec2{X: p.X, Y: p.Y} }

// Heading returns the unit forward vector.
func (p Pose) Heading() common.Vec2 { return common.FromAngle(p.Theta) }

// ToWorld maps a body-frame point into world coordinates.
func (p Pose) ToWorld(local common.Vec2) common.Vec2 {
	return local.Rotate(p.Theta).Add(p.Position())
}

// Rates is the time derivative of a Pose.
type Rates struct {
	DX, DY, DTheta float64
}

// Velocity returns the world-frame linear velocity.
func (r Rates) Velocity() common.Vec2 { return common.Vec2{X: r.DX, Y: r.DY} }

// Readings are the sensor outputs of the last Observe.
type Readings struct {
	Line   [LineSensorCount]bool
	Corner bool
	Goal   bool
}

// Sensors are sensor positions in world coordinates.
type Sensors struct {
	Line   [LineSensorCount]common.Vec2
	Corner common.Vec2
	Goal   common.Vec2
}

// State is everything Step changes. It holds no slices, so copies never
// alias.
type State struct {
	Pose     Pose
	Rates    Rates
	Sensors  Sensors
	Readings Readings
}

// Robot is a differential-drive line tracer. It tracks the commanded
// velocity perfectly; there is no slip and no motor dynamics.
type Robot struct {
	Params
	State

	local   Sensors // body frame
	history []State
}

// NewRobot creates a robot at the origin heading +x.
func NewRobot(p Params) *Robot {
	r := &Robot{Params: p}
	for i := range LineSensorCount {
		lateral := float64(i-LineSensorCount/2)*p.SensorPitch + p.SensorPitch/2
		r.local.Line[i] = common.Vec2{X: p.BodyRadius, Y: lateral}
	}
	r.local.Corner = common.Vec2{Y: p.MarkerOffset}
	r.local.Goal = common.Vec2{Y: -p.MarkerOffset}
	r.Reset(Pose{})
	return r
}

// Reset places the robot at pose at rest and drops the history.
func (r *Robot) Reset(pose Pose) {
	r.State = State{Pose: pose}
	r.history = nil
	r.updateSensors()
}

// Step integrates one tick of length dt under the body-frame command
// (forward m/s, rotate rad/s), averaging the previous and new rates.
func (r *Robot) Step(forward, rotate, dt float64) {
	r.history = append(r.history, r.State)

	s, c := math.Sincos(r.Pose.Theta)
	next := Rates{DX: forward * c, DY: forward * s, DTheta: rotate}
	r.Pose.X += (r.Rates.DX + next.DX) / 2 * dt
	r.Pose.Y += (r.Rates.DY + next.DY) / 2 * dt
	r.Pose.Theta += (r.Rates.DTheta + next.DTheta) / 2 * dt
	r.Rates = next
	r.updateSensors()
}

// StepWheels converts wheel angular rates (rad/s) into a body command and
// steps.
func (r *Robot) StepWheels(omegaL, omegaR, dt float64) {
	vl := r.WheelRadius * omegaL
	vr := r.WheelRadius * omegaR
	v := (vl + vr) / 2
	r.Step(v, (vr-v)/r.WheelSeparation, dt)
}

// UndoStep restores the state from before the most recent Step. It reports
// false when there is nothing to undo.
func (r *Robot) UndoStep() bool {
	n := len(r.history)
	if n == 0 {
		return false
	}
	r.State = r.history[n-1]
	r.history = r.history[:n-1]
	return true
}

// HistoryLen is the number of steps UndoStep can revert.
func (r *Robot) HistoryLen() int { return len(r.history) }

// Observe reads every sensor through f. Points f does not answer for read
// as off the line.
func (r *Robot) Observe(f Oracle) {
	line := f(slices.Clone(r.Sensors.Line[:]))
	for i := range r.Readings.Line {
		r.Readings.Line[i] = i < len(line) && line[i]
	}
	r.Readings.Corner = first(f([]common.Vec2{r.Sensors.Corner}))
	r.Readings.Goal = first(f([]common.Vec2{r.Sensors.Goal}))
}

func first(b []bool) bool {
	return len(b) > 0 && b[0]
}

func (r *Robot) updateSensors() {
	for i, p := range r.local.Line {
		r.Sensors.Line[i] = r.Pose.ToWorld(p)
	}
	r.Sensors.Corner = r.Pose.ToWorld(r.local.Corner)
	r.Sensors.Goal = r.Pose.ToWorld(r.local.Goal)
}

// Outline returns the corners of the robot's triangular body in world
// coordinates, nose first.
func (r *Robot) Outline() [3]common.Vec2 {
	var out [3]common.Vec2
	for i := range out {
		th := r.Pose.Theta + float64(i)*2*math.Pi/3
		out[i] = r.Pose.Position().Add(common.FromAngle(th).Scale(r.BodyRadius))
	}
	return out
}
