package agent

import (
	"fmt"

	"line-tracer/internal/common"
	"line-tracer/internal/physics"
)

// Agent produces the body-frame velocity command for the next tick.
type Agent interface {
	Command(s physics.State, dt float64) (forward, rotate float64)
	DebugInfoStr() string
}

// Manual replays a fixed operator command.
type Manual struct {
	Forward, Rotate float64
}

func (m *Manual) Command(physics.State, float64) (float64, float64) {
	return m.Forward, m.Rotate
}

func (m *Manual) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: Manual\nv: %.3f\nw: %.3f", m.Forward, m.Rotate)
}

// HeadingTracker drives at a fixed speed and steers with the PI heading
// law. When the law has no sample to aim at, the previous command is held.
type HeadingTracker struct {
	Ctrl    *Controller
	Forward float64

	rotate float64
}

// NewHeadingTracker returns a HeadingTracker driving at forward m/s.
func NewHeadingTracker(c *Controller, forward float64) *HeadingTracker {
	return &HeadingTracker{Ctrl: c, Forward: forward}
}

func (h *HeadingTracker) Command(s physics.State, _ float64) (float64, float64) {
	if w, err := h.Ctrl.Heading(s.Pose, h.Forward); err == nil {
		h.rotate = w
	}
	return h.Forward, h.rotate
}

func (h *HeadingTracker) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: PI heading\nv: %.3f\nw: %.3f\nI: %.3f\nSamples: %d",
		h.Forward, h.rotate, h.Ctrl.Integral(), len(h.Ctrl.samples))
}

// Pursuit chases a lookahead point on the locally estimated line with the
// position controller.
type Pursuit struct {
	Ctrl    *Controller
	Forward float64
	Horizon float64 // seconds; lookahead radius is Forward*Horizon

	Last    Target
	Clamped int
}

// NewPursuit returns a Pursuit agent.
func NewPursuit(c *Controller, forward, horizon float64) *Pursuit {
	return &Pursuit{Ctrl: c, Forward: forward, Horizon: horizon}
}

func (p *Pursuit) Command(s physics.State, dt float64) (float64, float64) {
	p.Last = p.Ctrl.Lookahead(s.Pose, p.Forward, p.Horizon)
	if p.Last.Clamped {
		p.Clamped++
	}
	return p.Ctrl.TrackToVelocity(s, p.Last, dt)
}

func (p *Pursuit) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: Pursuit\nr: %.3f\nxi: %.3f\nClamped: %d",
		p.Forward*p.Horizon, p.Ctrl.Speed(), p.Clamped)
}

// GoTo drives to a fixed point with the position controller.
type GoTo struct {
	Ctrl *Controller
	Goal common.Vec2
}

func (g *GoTo) Command(s physics.State, dt float64) (float64, float64) {
	return g.Ctrl.TrackToVelocity(s, Target{Pos: g.Goal}, dt)
}

func (g *GoTo) DebugInfoStr() string {
	return fmt.Sprintf("Agent Type: GoTo\nx: %.3f\ny: %.3f\nxi: %.3f", g.Goal.X, g.Goal.Y, g.Ctrl.Speed())
}
