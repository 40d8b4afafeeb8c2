// Package raster renders a course to an image at its real line width, for
// printing or for checking a generated course by eye.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"line-tracer/internal/common"
	"line-tracer/internal/track"
)

const (
	step        = 0.002 // edge resolution in meters
	circleSides = 48
)

// Options controls the output image.
type Options struct {
	Scale  float64 // pixels per meter
	Margin int     // blank border in pixels
}

// Frame maps world meters to image pixels.
type Frame struct {
	Min, Max common.Vec2 // world bounds
	Scale    float64
	Margin   int
}

// Pixel returns the image coordinates of world point p.
func (f Frame) Pixel(p common.Vec2) (float32, float32) {
	return float32((p.X-f.Min.X)*f.Scale) + float32(f.Margin),
		float32((f.Max.Y-p.Y)*f.Scale) + float32(f.Margin)
}

// Size is the image size in pixels.
func (f Frame) Size() image.Point {
	return image.Pt(
		int(math.Ceil((f.Max.X-f.Min.X)*f.Scale))+2*f.Margin,
		int(math.Ceil((f.Max.Y-f.Min.Y)*f.Scale))+2*f.Margin,
	)
}

// FrameFor returns the smallest frame holding every segment and mark of c.
func FrameFor(c *track.Course, o Options) Frame {
	lo := common.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := common.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p common.Vec2, r float64) {
		lo.X, lo.Y = min(lo.X, p.X-r), min(lo.Y, p.Y-r)
		hi.X, hi.Y = max(hi.X, p.X+r), max(hi.Y, p.Y+r)
	}
	for _, wp := range track.Flatten(c.Segments(), step).Waypoints {
		grow(wp.Position, c.HalfLineWidth)
	}
	for _, m := range c.Marks() {
		grow(m.Origin, m.Radius)
	}
	if math.IsInf(lo.X, 1) {
		lo, hi = common.Vec2{}, common.Vec2{}
	}
	return Frame{Min: lo, Max: hi, Scale: o.Scale, Margin: o.Margin}
}

// Render draws c black on white.
func Render(c *track.Course, o Options) *image.RGBA {
	f := FrameFor(c, o)
	size := f.Size()
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(size.X, size.Y)
	for _, seg := range c.Segments() {
		band(z, f, seg, c.HalfLineWidth)
	}
	for _, m := range c.Marks() {
		disc(z, f, m.Origin, m.Radius)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{})
	return img
}

// band outlines the strip halfWidth either side of seg: out along the left
// edge and back along the right.
func band(z *vector.Rasterizer, f Frame, seg track.Segment, halfWidth float64) {
	wps := track.Flatten([]track.Segment{seg}, step).Waypoints
	for i, wp := range wps {
		x, y := f.Pixel(wp.Position.Add(wp.Normal.Scale(halfWidth)))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	for i := len(wps) - 1; i >= 0; i-- {
		wp := wps[i]
		z.LineTo(f.Pixel(wp.Position.Sub(wp.Normal.Scale(halfWidth))))
	}
	z.ClosePath()
}

func disc(z *vector.Rasterizer, f Frame, o common.Vec2, r float64) {
	for i := range circleSides {
		x, y := f.Pixel(o.Add(common.FromAngle(2 * math.Pi * float64(i) / circleSides).Scale(r)))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}
