package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracer/internal/common"
	"line-tracer/internal/track"
)

func dark(img *image.RGBA, f Frame, p common.Vec2) bool {
	x, y := f.Pixel(p)
	return img.RGBAAt(int(x), int(y)).R < 128
}

func TestRenderOval(t *testing.T) {
	c, err := track.Generate(track.OvalProgram(1, 0.5), track.DefaultParams())
	require.NoError(t, err)

	o := Options{Scale: 200, Margin: 10}
	f := FrameFor(c, o)
	img := Render(c, o)
	require.Equal(t, f.Size(), img.Bounds().Size())

	// Half turns reach 0.5 m either side of the straights.
	assert.InDelta(t, -0.5-c.HalfLineWidth, f.Min.X, 1e-3)
	assert.InDelta(t, 1.5+c.HalfLineWidth, f.Max.X, 1e-3)
	assert.InDelta(t, 1+c.HalfLineWidth, f.Max.Y, 1e-3)

	assert.True(t, dark(img, f, common.Vec2{X: 0.5}), "bottom straight")
	assert.True(t, dark(img, f, common.Vec2{X: 0.5, Y: 1}), "top straight")
	assert.True(t, dark(img, f, common.Vec2{X: 1.5, Y: 0.5}), "right turn apex")
	assert.True(t, dark(img, f, common.Vec2{Y: -0.06}), "goal mark")
	assert.False(t, dark(img, f, common.Vec2{X: 0.5, Y: 0.5}), "infield")
	assert.False(t, dark(img, f, common.Vec2{X: 0.5, Y: 0.03}), "beside the line")
}

func TestRenderEmpty(t *testing.T) {
	img := Render(track.NewCourse(track.DefaultParams()), Options{Scale: 100, Margin: 4})
	assert.Equal(t, image.Pt(8, 8), img.Bounds().Size())
}
