package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, -1}

	assert.Equal(t, Vec2{4, 1}, a.Add(b))
	assert.Equal(t, Vec2{-2, 3}, a.Sub(b))
	assert.Equal(t, Vec2{2, 4}, a.Scale(2))
	assert.InDelta(t, 1.0, a.Dot(b), 1e-12)
	assert.InDelta(t, -7.0, a.Cross(b), 1e-12)
}

func TestVec2Cross(t *testing.T) {
	x := Vec2{1, 0}
	y := Vec2{0, 1}
	assert.Equal(t, 1.0, x.Cross(y))
	assert.Equal(t, -1.0, y.Cross(x))
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	assert.InDelta(t, 5.0, v.Len(), 1e-12)
	assert.InDelta(t, 1.0, v.Normalize().Len(), 1e-12)
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestVec2Rotate(t *testing.T) {
	r := Vec2{1, 0}.Rotate(math.Pi / 2)
	assert.True(t, r.Near(Vec2{0, 1}, 1e-12), "got %v", r)
	assert.Equal(t, Vec2{0, 1}, Vec2{1, 0}.Perp())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.4, Clamp(1, -0.4, 0.4))
	assert.Equal(t, -0.4, Clamp(-1, -0.4, 0.4))
	assert.Equal(t, 0.1, Clamp(0.1, -0.4, 0.4))
}
