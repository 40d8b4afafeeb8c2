// Package sim owns one simulation: the course, the robot, the controller
// and the agent driving it. Tick advances everything by one fixed time
// step in the order observe, sample, corner, command, integrate.
package sim

import (
	"errors"
	"io"
	"log"

	"line-tracer/internal/agent"
	"line-tracer/internal/common"
	"line-tracer/internal/config"
	"line-tracer/internal/physics"
	"line-tracer/internal/track"
)

const (
	traceEvery   = 5 // ticks between recorded trace points
	traceHistory = 4 // completed laps kept for display
	meshStep     = 0.005
)

type Sim struct {
	Course *track.Course
	Robot  *physics.Robot
	Ctrl   *agent.Controller
	Agent  agent.Agent
	Mode   Mode
	Dt     float64

	Running bool
	Ticks   int
	LapStats

	cfg      config.SimConfig
	logger   *log.Logger
	manual   agent.Manual
	goal     common.Vec2
	mesh     *track.Mesh
	history  []tickState
	stepOnce bool
	lineLost bool
	clamped  bool
}

// LapStats are the lap analytics, all times in ticks.
type LapStats struct {
	Laps           int
	CurrentLapTime int
	LastLapTime    int
	BestLapTime    int
	CurrentLapPath []common.Vec2
	BestLapPath    []common.Vec2
	LapHistory     [][]common.Vec2

	lapArmed bool // goal sensor has crossed the start once
	onGoal   bool
}

// tickState is everything besides the robot that an integrating tick
// changes. The lap paths are only appended to or replaced, so copying the
// slice headers is enough.
type tickState struct {
	ticks int
	ctrl  agent.Snapshot
	laps  LapStats
}

// New builds a simulation on course with the robot at the origin facing +x.
// A nil logger discards output.
func New(cfg config.Config, course *track.Course, logger *log.Logger) (*Sim, error) {
	mode, err := ParseMode(cfg.Sim.Mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Sim{
		Course:  course,
		Robot:   physics.NewRobot(cfg.RobotParams()),
		Ctrl:    agent.NewController(cfg.Gains()),
		Dt:      cfg.Sim.Dt,
		Running: true,
		cfg:     cfg.Sim,
		logger:  logger,
	}
	s.SetMode(mode)
	return s, nil
}

// SetMode switches the driving agent. The controller state is kept so the
// line estimate survives a mode change.
func (s *Sim) SetMode(m Mode) {
	s.Mode = m
	switch m {
	case ModeManualPosition:
		s.Agent = &agent.GoTo{Ctrl: s.Ctrl, Goal: s.goal}
	case ModeAuto:
		s.Agent = agent.NewHeadingTracker(s.Ctrl, s.cfg.AutoForward)
	case ModePursuit:
		s.Agent = agent.NewPursuit(s.Ctrl, s.cfg.PursuitForward, s.cfg.PursuitHorizon)
	default:
		s.manual = agent.Manual{}
		s.Agent = &s.manual
	}
	s.logger.Printf("mode %s", m)
}

// Drive sets the manual command as a fraction of the configured manual
// speeds. It switches to ModeManualVelocity if needed.
func (s *Sim) Drive(forward, rotate float64) {
	if s.Mode != ModeManualVelocity {
		s.SetMode(ModeManualVelocity)
	}
	s.manual.Forward = forward * s.cfg.ManualForward
	s.manual.Rotate = rotate * s.cfg.ManualRotate
}

// GoTo points the position controller at p.
func (s *Sim) GoTo(p common.Vec2) {
	s.goal = p
	s.SetMode(ModeManualPosition)
}

// Goal is the current ModeManualPosition target.
func (s *Sim) Goal() common.Vec2 { return s.goal }

// ToggleRun pauses or resumes integration.
func (s *Sim) ToggleRun() {
	s.Running = !s.Running
	s.stepOnce = false
}

// StepOnce runs the next tick and pauses after it.
func (s *Sim) StepOnce() {
	s.Running = true
	s.stepOnce = true
}

// UndoStep reverts the last integrated tick: the robot, the controller and
// the lap state return to where they were before it, so running again
// replays it exactly. It pauses the simulation and reports whether there
// was a tick to revert.
func (s *Sim) UndoStep() bool {
	n := len(s.history)
	if n == 0 || !s.Robot.UndoStep() {
		return false
	}
	prev := s.history[n-1]
	s.history = s.history[:n-1]
	s.Ticks = prev.ticks
	s.Ctrl.Restore(prev.ctrl)
	s.LapStats = prev.laps
	s.Running = false
	s.stepOnce = false
	return true
}

// UndoDepth is the number of ticks UndoStep can revert.
func (s *Sim) UndoDepth() int { return len(s.history) }

// Reset puts the robot at pose and clears the controller and lap state.
func (s *Sim) Reset(pose physics.Pose) {
	s.Robot.Reset(pose)
	s.Ctrl.Clear()
	s.Ticks = 0
	s.LapStats = LapStats{}
	s.history = nil
	s.lineLost = false
	s.clamped = false
}

// SetCourse replaces the course and restarts the robot at the origin.
func (s *Sim) SetCourse(c *track.Course) {
	s.Course = c
	s.mesh = nil
	s.Reset(physics.Pose{})
	s.logger.Printf("course loaded: %d segments, %d marks", len(c.Segments()), len(c.Marks()))
}

// Progress returns the arc length of the closest course point and the
// signed lateral offset from it. ok is false on an empty course.
func (s *Sim) Progress() (along, lateral float64, ok bool) {
	if s.mesh == nil {
		segs := s.Course.Segments()
		if len(segs) == 0 {
			return 0, 0, false
		}
		s.mesh = track.Flatten(segs, meshStep)
	}
	along, lateral = s.mesh.WorldToFrenet(s.Robot.Pose.Position())
	return along, lateral, true
}

// InvalidateMesh drops the cached progress mesh after the course changes.
func (s *Sim) InvalidateMesh() { s.mesh = nil }

// Tick advances the simulation by one Dt. Sensors are read and the line
// estimate updated even while paused. Laps are timed on the goal sensor
// entering a goal mark; lines under it do not count.
func (s *Sim) Tick() {
	var before tickState
	if s.Running {
		before = tickState{ticks: s.Ticks, ctrl: s.Ctrl.Snapshot(), laps: s.LapStats}
	}

	s.Robot.Observe(s.Course.Sample)
	s.sampleLine()
	if s.Ctrl.DetectCorner(s.Robot.Readings.Corner) {
		s.logger.Printf("corner %d at sample %d", len(s.Ctrl.Corners())-1, len(s.Ctrl.Samples()))
	}
	s.observeGoal(s.Robot.Readings.Goal && s.Course.OnGoalMark(s.Robot.Sensors.Goal))

	if !s.Running {
		return
	}
	s.history = append(s.history, before)
	fwd, rot := s.Agent.Command(s.Robot.State, s.Dt)
	s.noteClamp()
	s.Robot.Step(fwd, rot, s.Dt)

	s.Ticks++
	s.CurrentLapTime++
	if s.CurrentLapTime%traceEvery == 0 {
		s.CurrentLapPath = append(s.CurrentLapPath, s.Robot.Pose.Position())
	}
	if s.stepOnce {
		s.Running = false
		s.stepOnce = false
	}
}

func (s *Sim) sampleLine() {
	err := s.Ctrl.AddSample(s.Robot.Sensors.Line[:], s.Robot.Readings.Line[:])
	lost := errors.Is(err, agent.ErrNoLine)
	if lost != s.lineLost {
		if lost {
			s.logger.Printf("tick %d: %v", s.Ticks, err)
		} else {
			s.logger.Printf("tick %d: line reacquired", s.Ticks)
		}
		s.lineLost = lost
	}
}

func (s *Sim) noteClamp() {
	p, ok := s.Agent.(*agent.Pursuit)
	if !ok {
		return
	}
	if p.Last.Clamped && !s.clamped {
		s.logger.Printf("tick %d: lookahead radius %.3f inside line offset, clamped to foot point",
			s.Ticks, p.Forward*p.Horizon)
	}
	s.clamped = p.Last.Clamped
}

// observeGoal counts laps on rising edges of the goal sensor. The first
// edge only starts the clock.
func (s *Sim) observeGoal(reading bool) {
	rising := reading && !s.onGoal
	s.onGoal = reading
	if !rising {
		return
	}
	if !s.lapArmed {
		s.lapArmed = true
		s.CurrentLapTime = 0
		s.CurrentLapPath = nil
		return
	}
	s.completeLap()
}

func (s *Sim) completeLap() {
	s.Laps++
	s.LastLapTime = s.CurrentLapTime
	if s.BestLapTime == 0 || s.LastLapTime < s.BestLapTime {
		s.BestLapTime = s.LastLapTime
		s.BestLapPath = append([]common.Vec2(nil), s.CurrentLapPath...)
	}
	s.LapHistory = append([][]common.Vec2{s.CurrentLapPath}, s.LapHistory...)
	if len(s.LapHistory) > traceHistory {
		s.LapHistory = s.LapHistory[:traceHistory]
	}
	s.logger.Printf("lap %d: %d ticks (%.2fs)", s.Laps, s.LastLapTime, float64(s.LastLapTime)*s.Dt)
	s.CurrentLapPath = nil
	s.CurrentLapTime = 0
}
