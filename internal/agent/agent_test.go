package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"line-tracer/internal/physics"
)

func TestManual(t *testing.T) {
	m := &Manual{Forward: 0.12, Rotate: -0.8}
	fwd, rot := m.Command(physics.State{}, 0.01)
	assert.Equal(t, 0.12, fwd)
	assert.Equal(t, -0.8, rot)
	assert.Contains(t, m.DebugInfoStr(), "Manual")
}

func TestHeadingTrackerHoldsLastCommand(t *testing.T) {
	c := NewController(DefaultGains())
	h := NewHeadingTracker(c, 0.2)

	fwd, rot := h.Command(physics.State{}, 0.01)
	assert.Equal(t, 0.2, fwd)
	assert.Zero(t, rot)

	c.samples = append(c.samples, v(1, 1))
	_, rot = h.Command(physics.State{}, 0.01)
	assert.Greater(t, rot, 0.0)

	c.Clear()
	_, held := h.Command(physics.State{}, 0.01)
	assert.Equal(t, rot, held)
}

func TestPursuitCountsClamps(t *testing.T) {
	if debugBuild {
		t.Skip("short lookahead panics in debug builds")
	}
	c := withSamples(v(0, 0.02), v(0.01, 0.02))
	p := NewPursuit(c, 0.2, 0.05)
	p.Command(physics.State{}, 0.01)
	assert.True(t, p.Last.Clamped)
	assert.Equal(t, 1, p.Clamped)
	assert.Contains(t, p.DebugInfoStr(), "Clamped: 1")
}

func TestGoTo(t *testing.T) {
	c := NewController(DefaultGains())
	g := &GoTo{Ctrl: c, Goal: v(1, 0)}
	fwd, _ := g.Command(physics.State{}, 0.01)
	assert.Equal(t, 0.4, fwd)
}
