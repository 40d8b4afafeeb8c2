package physics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracer/internal/common"
)

func TestStepStraight(t *testing.T) {
	r := NewRobot(DefaultParams())
	const (
		v  = 0.1
		dt = 0.01
		n  = 100
	)
	for range n {
		r.Step(v, 0, dt)
	}
	assert.InDelta(t, v*n*dt, r.Pose.X, 1e-3)
	assert.InDelta(t, 0, r.Pose.Y, 1e-12)
	assert.InDelta(t, 0, r.Pose.Theta, 1e-12)
	assert.Equal(t, n, r.HistoryLen())
}

func TestStepHeadingSlanted(t *testing.T) {
	r := NewRobot(DefaultParams())
	r.Reset(Pose{Theta: math.Pi / 3})
	for range 50 {
		r.Step(0.2, 0, 0.01)
	}
	assert.InDelta(t, 0.2*math.Cos(math.Pi/3)*0.5, r.Pose.X, 1e-3)
	assert.InDelta(t, 0.2*math.Sin(math.Pi/3)*0.5, r.Pose.Y, 1e-3)
}

func TestStepAtRestIsInvariant(t *testing.T) {
	r := NewRobot(DefaultParams())
	start := Pose{X: 0.3, Y: -0.2, Theta: 1}
	r.Reset(start)
	for range 10 {
		r.Step(0, 0, 0.01)
	}
	assert.Equal(t, start, r.Pose)
}

func TestStepAveragesRates(t *testing.T) {
	r := NewRobot(DefaultParams())
	r.Step(0, 1, 0.01)
	assert.InDelta(t, 0.005, r.Pose.Theta, 1e-12)
	r.Step(0, 1, 0.01)
	assert.InDelta(t, 0.015, r.Pose.Theta, 1e-12)
	assert.Equal(t, 1.0, r.Rates.DTheta)
}

func TestStepWheels(t *testing.T) {
	r := NewRobot(DefaultParams())
	r.StepWheels(10, 10, 0.01)
	assert.InDelta(t, 0.1, r.Rates.DX, 1e-12)
	assert.InDelta(t, 0, r.Rates.DTheta, 1e-12)

	r.Reset(Pose{})
	r.StepWheels(0, 10, 0.01)
	assert.InDelta(t, 0.05, r.Rates.DX, 1e-12)
	assert.InDelta(t, 0.5, r.Rates.DTheta, 1e-12)
}

func TestSensorLayout(t *testing.T) {
	p := DefaultParams()
	r := NewRobot(p)

	assert.InDelta(t, p.BodyRadius, r.Sensors.Line[0].X, 1e-12)
	assert.InDelta(t, -2.5*p.SensorPitch, r.Sensors.Line[0].Y, 1e-12)
	assert.InDelta(t, 2.5*p.SensorPitch, r.Sensors.Line[5].Y, 1e-12)
	assert.Equal(t, common.Vec2{Y: p.MarkerOffset}, r.Sensors.Corner)
	assert.Equal(t, common.Vec2{Y: -p.MarkerOffset}, r.Sensors.Goal)

	r.Reset(Pose{X: 1, Theta: math.Pi / 2})
	assert.True(t, r.Sensors.Corner.Near(common.Vec2{X: 1 - p.MarkerOffset}, 1e-12), "corner at %v", r.Sensors.Corner)
	assert.True(t, r.Sensors.Line[0].Near(common.Vec2{X: 1 + 2.5*p.SensorPitch, Y: p.BodyRadius}, 1e-12))
}

func TestUndoStep(t *testing.T) {
	r := NewRobot(DefaultParams())
	assert.False(t, r.UndoStep())

	r.Step(0.1, 0.3, 0.01)
	r.Observe(func(pts []common.Vec2) []bool { return make([]bool, len(pts)) })
	before := r.State

	r.Step(0.2, -0.5, 0.01)
	r.Observe(func(pts []common.Vec2) []bool {
		out := make([]bool, len(pts))
		for i := range out {
			out[i] = true
		}
		return out
	})
	require.True(t, r.UndoStep())

	if d := cmp.Diff(before.Pose, r.Pose); d != "" {
		t.Errorf("pose differs (-want +got):\n%s", d)
	}
	assert.Equal(t, before, r.State)
	assert.Equal(t, 1, r.HistoryLen())
}

func TestObserve(t *testing.T) {
	r := NewRobot(DefaultParams())

	leftOfAxis := func(pts []common.Vec2) []bool {
		out := make([]bool, len(pts))
		for i, p := range pts {
			out[i] = p.Y > 0
		}
		return out
	}
	r.Observe(leftOfAxis)
	assert.Equal(t, [LineSensorCount]bool{false, false, false, true, true, true}, r.Readings.Line)
	assert.True(t, r.Readings.Corner)
	assert.False(t, r.Readings.Goal)

	r.Observe(func([]common.Vec2) []bool { return nil })
	assert.Equal(t, Readings{}, r.Readings)
}

func TestOutline(t *testing.T) {
	r := NewRobot(DefaultParams())
	out := r.Outline()
	assert.True(t, out[0].Near(common.Vec2{X: r.BodyRadius}, 1e-12))
}
