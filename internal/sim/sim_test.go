package sim

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracer/internal/agent"
	"line-tracer/internal/common"
	"line-tracer/internal/config"
	"line-tracer/internal/physics"
	"line-tracer/internal/track"
)

func newOvalSim(t *testing.T, mode string) (*Sim, *bytes.Buffer) {
	t.Helper()
	course, err := track.Generate(track.OvalProgram(1, 0.5), track.DefaultParams())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Sim.Mode = mode
	var buf bytes.Buffer
	s, err := New(cfg, course, log.New(&buf, "", 0))
	require.NoError(t, err)
	return s, &buf
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeManualVelocity, ModeManualPosition, ModeAuto, ModePursuit} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("warp")
	assert.Error(t, err)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestNewRejectsUnknownMode(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.Mode = "warp"
	_, err := New(cfg, track.NewCourse(track.DefaultParams()), nil)
	assert.Error(t, err)
}

func TestAutoFollowsStraight(t *testing.T) {
	s, buf := newOvalSim(t, "auto")
	require.IsType(t, &agent.HeadingTracker{}, s.Agent)

	for range 100 {
		s.Tick()
	}
	assert.Equal(t, 100, s.Ticks)
	assert.InDelta(t, 0.2*0.01*99.5, s.Robot.Pose.X, 1e-9)
	assert.InDelta(t, 0, s.Robot.Pose.Y, 1e-12)
	assert.InDelta(t, 0, s.Robot.Pose.Theta, 1e-12)
	assert.Equal(t, [physics.LineSensorCount]bool{false, false, true, true, false, false}, s.Robot.Readings.Line)
	assert.NotEmpty(t, s.Ctrl.Samples())

	// The goal mark at the start only arms the lap clock.
	assert.Equal(t, 0, s.Laps)
	assert.Equal(t, 100, s.CurrentLapTime)
	assert.Len(t, s.CurrentLapPath, 100/traceEvery)

	along, lateral, ok := s.Progress()
	require.True(t, ok)
	assert.InDelta(t, s.Robot.Pose.X, along, 1e-9)
	assert.InDelta(t, 0, lateral, 1e-12)
	assert.Contains(t, buf.String(), "mode auto")
}

func TestPausedTickOnlyObserves(t *testing.T) {
	s, _ := newOvalSim(t, "auto")
	s.ToggleRun()
	require.False(t, s.Running)

	s.Tick()
	assert.Equal(t, 0, s.Ticks)
	assert.Equal(t, physics.Pose{}, s.Robot.Pose)
	assert.Len(t, s.Ctrl.Samples(), 1)
}

func TestStepOnce(t *testing.T) {
	s, _ := newOvalSim(t, "auto")
	s.ToggleRun()
	s.StepOnce()
	s.Tick()
	assert.Equal(t, 1, s.Ticks)
	assert.False(t, s.Running)
	s.Tick()
	assert.Equal(t, 1, s.Ticks)
}

func TestUndoStep(t *testing.T) {
	s, _ := newOvalSim(t, "auto")
	for range 20 {
		s.Tick()
	}
	pose := s.Robot.Pose
	samples := s.Ctrl.Samples()

	s.Tick()
	require.Equal(t, 1+20, s.UndoDepth())
	require.True(t, s.UndoStep())
	assert.Equal(t, pose, s.Robot.Pose)
	assert.Equal(t, 20, s.Ticks)
	assert.False(t, s.Running)
	assert.Equal(t, samples, s.Ctrl.Samples())

	s.Reset(physics.Pose{})
	assert.False(t, s.UndoStep())
	assert.Zero(t, s.UndoDepth())
}

func TestUndoThenReplayIsExact(t *testing.T) {
	s, _ := newOvalSim(t, "auto")
	for range 560 {
		s.Tick()
	}
	type snapshot struct {
		pose     physics.Pose
		samples  []common.Vec2
		corners  []int
		integral float64
		laps     LapStats
	}
	take := func() snapshot {
		return snapshot{s.Robot.Pose, s.Ctrl.Samples(), s.Ctrl.Corners(), s.Ctrl.Integral(), s.LapStats}
	}
	before := take()

	const n = 6
	for range n {
		s.Tick()
	}
	after := take()
	require.NotEqual(t, before.pose, after.pose)

	for range n {
		require.True(t, s.UndoStep())
	}
	assert.Equal(t, before, take())
	assert.Equal(t, 560, s.Ticks)

	s.ToggleRun()
	for range n {
		s.Tick()
	}
	assert.Equal(t, after, take())
}

func TestDriveAndGoTo(t *testing.T) {
	s, _ := newOvalSim(t, "auto")
	s.Drive(1, -1)
	assert.Equal(t, ModeManualVelocity, s.Mode)
	fwd, rot := s.Agent.Command(s.Robot.State, s.Dt)
	assert.InDelta(t, 0.12, fwd, 1e-12)
	assert.InDelta(t, -0.8, rot, 1e-12)

	goal := common.Vec2{X: 0.3, Y: 0.1}
	s.GoTo(goal)
	assert.Equal(t, ModeManualPosition, s.Mode)
	g, ok := s.Agent.(*agent.GoTo)
	require.True(t, ok)
	assert.Equal(t, goal, g.Goal)
	assert.Equal(t, goal, s.Goal())

	s.SetMode(ModePursuit)
	assert.IsType(t, &agent.Pursuit{}, s.Agent)
}

func TestLapCounting(t *testing.T) {
	s, buf := newOvalSim(t, "manual")
	lap := func(ticks int) {
		s.observeGoal(false)
		s.CurrentLapTime = ticks
		s.CurrentLapPath = []common.Vec2{{X: float64(ticks)}}
		s.observeGoal(true)
		s.observeGoal(true) // held on the mark: no extra lap
	}

	s.observeGoal(true)
	assert.Equal(t, 0, s.Laps)

	lap(120)
	lap(100)
	lap(150)
	assert.Equal(t, 3, s.Laps)
	assert.Equal(t, 150, s.LastLapTime)
	assert.Equal(t, 100, s.BestLapTime)
	assert.Equal(t, []common.Vec2{{X: 100}}, s.BestLapPath)
	require.Len(t, s.LapHistory, 3)
	assert.Equal(t, []common.Vec2{{X: 150}}, s.LapHistory[0])
	assert.Equal(t, 0, s.CurrentLapTime)

	for range traceHistory {
		lap(200)
	}
	assert.Len(t, s.LapHistory, traceHistory)
	assert.Contains(t, buf.String(), "lap 3: 150 ticks")
}

func TestLineLossLoggedOnce(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer
	s, err := New(cfg, track.NewCourse(track.DefaultParams()), log.New(&buf, "", 0))
	require.NoError(t, err)

	for range 3 {
		s.Tick()
	}
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(agent.ErrNoLine.Error())))

	_, _, ok := s.Progress()
	assert.False(t, ok)
}

func TestSetCourseResets(t *testing.T) {
	s, buf := newOvalSim(t, "auto")
	for range 10 {
		s.Tick()
	}
	s.SetCourse(track.NewCourse(track.DefaultParams()))
	assert.Equal(t, 0, s.Ticks)
	assert.Empty(t, s.Ctrl.Samples())
	assert.Equal(t, physics.Pose{}, s.Robot.Pose)
	assert.Contains(t, buf.String(), "course loaded: 0 segments")
}

func TestAutoLapsOval(t *testing.T) {
	s, buf := newOvalSim(t, "auto")
	// 2 + π meters at 0.2 m/s is about 2571 ticks.
	for range 2800 {
		s.Tick()
	}
	require.Equal(t, 1, s.Laps, buf.String())
	assert.InDelta(t, 2571, s.LastLapTime, 100)
	assert.Equal(t, s.LastLapTime, s.BestLapTime)
	assert.Len(t, s.LapHistory, 1)
}

func TestLineCrossingIsNotALap(t *testing.T) {
	course, err := track.Generate(track.DefaultProgram(), track.DefaultParams())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Sim.Mode = "auto"
	var buf bytes.Buffer
	s, err := New(cfg, course, log.New(&buf, "", 0))
	require.NoError(t, err)

	length := 0.0
	for _, seg := range course.Segments() {
		length += seg.Length()
	}
	lapTicks := int(length / cfg.Sim.AutoForward / cfg.Sim.Dt)

	// The course crosses its own start straight, under the goal sensor,
	// long before the lap is done.
	for range lapTicks * 3 / 2 {
		s.Tick()
	}
	require.Equal(t, 1, s.Laps, buf.String())
	assert.Greater(t, s.LastLapTime, lapTicks*9/10)
}
