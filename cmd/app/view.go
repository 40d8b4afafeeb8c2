package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"line-tracer/internal/common"
	"line-tracer/internal/physics"
	"line-tracer/internal/track"
)

// Course colors
var (
	ColorBackground = color.RGBA{255, 255, 255, 255}
	ColorLine       = color.RGBA{0, 0, 0, 255}
	ColorPending    = color.RGBA{220, 40, 40, 255}
	ColorMark       = color.RGBA{60, 60, 60, 255}
	ColorCrosshair  = color.RGBA{0, 0, 0, 60}
	ColorPanel      = color.RGBA{0, 0, 0, 180}
)

// Robot and controller colors
var (
	ColorBody       = color.RGBA{40, 90, 200, 200}
	ColorSensorOn   = color.RGBA{255, 60, 60, 255}
	ColorSensorOff  = color.RGBA{150, 150, 150, 255}
	ColorSample     = color.RGBA{0, 170, 0, 255}
	ColorCorner     = color.RGBA{255, 140, 0, 255}
	ColorTarget     = color.RGBA{130, 190, 255, 255}
	ColorBestLap    = color.RGBA{50, 200, 50, 150}
	ColorCurrentLap = color.RGBA{230, 200, 0, 200}
)

// Fading trace colors, most recent lap first.
var lapHistoryColors = [...]color.RGBA{
	{255, 0, 255, 255},
	{190, 0, 190, 150},
	{130, 0, 130, 70},
	{70, 0, 70, 20},
}

const drawStep = 0.01 // polyline resolution in meters

// View maps world meters (y up) to screen pixels (y down).
type View struct {
	Scale   float64 // pixels per meter
	OffsetX float64 // screen position of the world origin
	OffsetY float64
}

// NewView centers the world origin in the window.
func NewView(scale float64) View {
	return View{Scale: scale, OffsetX: WindowWidth / 2, OffsetY: WindowHeight / 2}
}

// Fit centers and scales the view on the given segments. It leaves the
// view unchanged for an empty course.
func (v *View) Fit(segments []track.Segment) {
	m := track.Flatten(segments, drawStep)
	if len(m.Waypoints) == 0 {
		return
	}
	lo, hi := m.Waypoints[0].Position, m.Waypoints[0].Position
	for _, wp := range m.Waypoints {
		lo.X, lo.Y = min(lo.X, wp.Position.X), min(lo.Y, wp.Position.Y)
		hi.X, hi.Y = max(hi.X, wp.Position.X), max(hi.Y, wp.Position.Y)
	}
	const margin = 0.85
	if w, h := hi.X-lo.X, hi.Y-lo.Y; w > 0 || h > 0 {
		v.Scale = margin * min(WindowWidth/max(w, 1e-9), WindowHeight/max(h, 1e-9))
	}
	c := lo.Add(hi).Scale(0.5)
	v.OffsetX = WindowWidth/2 - c.X*v.Scale
	v.OffsetY = WindowHeight/2 + c.Y*v.Scale
}

func (v View) ToScreen(p common.Vec2) (float32, float32) {
	return float32(v.OffsetX + p.X*v.Scale), float32(v.OffsetY - p.Y*v.Scale)
}

func (v View) ToWorld(x, y int) common.Vec2 {
	return common.Vec2{X: (float64(x) - v.OffsetX) / v.Scale, Y: (v.OffsetY - float64(y)) / v.Scale}
}

// Cursor is the mouse position in world coordinates.
func (v View) Cursor() common.Vec2 {
	return v.ToWorld(ebiten.CursorPosition())
}

// HandleZoomPan applies the shared zoom (1/2) and pan (arrow keys) keys.
func (v *View) HandleZoomPan() {
	zoom := 1.0
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		zoom = 2
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		zoom = 0.5
	}
	if zoom != 1 {
		// keep the window center fixed
		cx, cy := WindowWidth/2.0, WindowHeight/2.0
		v.OffsetX = cx + (v.OffsetX-cx)*zoom
		v.OffsetY = cy + (v.OffsetY-cy)*zoom
		v.Scale *= zoom
	}

	const pan = 8
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.OffsetX += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.OffsetX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.OffsetY += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.OffsetY -= pan
	}
}

// StrokeWorld strokes a world-space line with a width in meters, at least
// one pixel wide.
func (v View) StrokeWorld(dst *ebiten.Image, a, b common.Vec2, width float64, clr color.Color) {
	x0, y0 := v.ToScreen(a)
	x1, y1 := v.ToScreen(b)
	vector.StrokeLine(dst, x0, y0, x1, y1, float32(max(width*v.Scale, 1)), clr, true)
}

func (v View) Polyline(dst *ebiten.Image, pts []common.Vec2, width float64, clr color.Color) {
	for i := 1; i < len(pts); i++ {
		v.StrokeWorld(dst, pts[i-1], pts[i], width, clr)
	}
}

func (v View) Dot(dst *ebiten.Image, p common.Vec2, r float64, clr color.Color) {
	x, y := v.ToScreen(p)
	vector.FillCircle(dst, x, y, float32(max(r*v.Scale, 1.5)), clr, true)
}

// DrawSegment draws seg at its real line width.
func (v View) DrawSegment(dst *ebiten.Image, seg track.Segment, halfWidth float64, clr color.Color) {
	m := track.Flatten([]track.Segment{seg}, drawStep)
	pts := make([]common.Vec2, len(m.Waypoints))
	for i, wp := range m.Waypoints {
		pts[i] = wp.Position
	}
	v.Polyline(dst, pts, 2*halfWidth, clr)
}

// DrawCourse draws committed segments, the pending proposal and the marks.
func (v View) DrawCourse(dst *ebiten.Image, c *track.Course) {
	for _, seg := range c.Segments() {
		v.DrawSegment(dst, seg, c.HalfLineWidth, ColorLine)
	}
	if seg, ok := c.Pending(); ok {
		v.DrawSegment(dst, seg, c.HalfLineWidth, ColorPending)
	}
	for _, m := range c.Marks() {
		v.Dot(dst, m.Origin, m.Radius, ColorMark)
	}
}

// DrawRobot draws the body triangle and every sensor, lit when it reads
// true.
func (v View) DrawRobot(dst *ebiten.Image, r *physics.Robot) {
	var path vector.Path
	for i, p := range r.Outline() {
		x, y := v.ToScreen(p)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(ColorBody)
	vector.FillPath(dst, &path, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})

	sensor := func(p common.Vec2, on bool) {
		clr := ColorSensorOff
		if on {
			clr = ColorSensorOn
		}
		v.Dot(dst, p, 0.003, clr)
	}
	for i, p := range r.Sensors.Line {
		sensor(p, r.Readings.Line[i])
	}
	sensor(r.Sensors.Corner, r.Readings.Corner)
	sensor(r.Sensors.Goal, r.Readings.Goal)
}

// Crosshair draws full-window guide lines through the mouse cursor.
func Crosshair(dst *ebiten.Image) {
	x, y := ebiten.CursorPosition()
	vector.StrokeLine(dst, float32(x), 0, float32(x), WindowHeight, 1, ColorCrosshair, false)
	vector.StrokeLine(dst, 0, float32(y), WindowWidth, float32(y), 1, ColorCrosshair, false)
}
