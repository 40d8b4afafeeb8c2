package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"line-tracer/internal/common"
)

func TestArcWithStart(t *testing.T) {
	deg := math.Pi / 180
	at := func(th float64) common.Vec2 { return common.FromAngle(th) }

	tests := []struct {
		name string
		arc  ArcSegment
	}{
		{"ccw", ArcSegment{
			Radius: 1, StartAngle: 0, EndAngle: 90 * deg,
			From: at(0), To: at(90 * deg), FromDir: v(0, 1), ToDir: v(-1, 0), CCW: true,
		}},
		{"cw", ArcSegment{
			Radius: 1, StartAngle: 0, EndAngle: 90 * deg,
			From: at(90 * deg), To: at(0), FromDir: v(1, 0), ToDir: v(0, -1),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := at(80 * deg)
			if tt.arc.CCW {
				start = at(10 * deg)
			}
			moved := tt.arc.withStart(start)

			assertNear(t, start, moved.Start())
			assertNear(t, tt.arc.End(), moved.End())
			assert.InDelta(t, 80*deg, moved.Length(), 1e-12)

			p, dir := moved.PointAt(0)
			assertNear(t, start, p)
			assertNear(t, moved.StartDir(), dir)
			end, dir := moved.PointAt(moved.Length())
			assertNear(t, tt.arc.End(), end)
			assertNear(t, tt.arc.EndDir(), dir)
		})
	}
}
