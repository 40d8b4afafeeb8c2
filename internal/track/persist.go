package track

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"line-tracer/internal/common"
)

// ErrUnknownSegmentType is returned when a course document names a segment
// type other than "line" or "arc".
var ErrUnknownSegmentType = errors.New("unknown segment type")

const (
	typeLine = "line"
	typeArc  = "arc"
)

type document struct {
	HalfLineWidth float64         `toml:"half_line_width"`
	HalfMarkWidth float64         `toml:"half_mark_width"`
	MarkDistance  float64         `toml:"mark_distance"`
	Segments      []segmentRecord `toml:"segments"`
	Marks         []markRecord    `toml:"marks"`
}

type segmentRecord struct {
	Type       string     `toml:"type"`
	Start      [2]float64 `toml:"start"`
	End        [2]float64 `toml:"end"`
	StartDir   [2]float64 `toml:"start_dir"`
	EndDir     [2]float64 `toml:"end_dir"`
	Origin     [2]float64 `toml:"origin"`
	Radius     float64    `toml:"radius"`
	StartAngle float64    `toml:"start_angle"`
	EndAngle   float64    `toml:"end_angle"`
	CCW        bool       `toml:"ccw"`
}

type markRecord struct {
	Origin [2]float64 `toml:"origin"`
	Radius float64    `toml:"radius"`
	Goal   bool       `toml:"goal,omitempty"`
}

func pair(v common.Vec2) [2]float64 { return [2]float64{v.X, v.Y} }
func vec(p [2]float64) common.Vec2  { return common.Vec2{X: p[0], Y: p[1]} }

// Save writes the committed segments and marks of c as TOML. The pending
// segment is not saved.
func Save(w io.Writer, c *Course) error {
	doc := document{
		HalfLineWidth: c.HalfLineWidth,
		HalfMarkWidth: c.HalfMarkWidth,
		MarkDistance:  c.MarkDistance,
	}
	for _, seg := range c.segments {
		rec := segmentRecord{
			Start:    pair(seg.Start()),
			End:      pair(seg.End()),
			StartDir: pair(seg.StartDir()),
			EndDir:   pair(seg.EndDir()),
		}
		switch s := seg.(type) {
		case LineSegment:
			rec.Type = typeLine
		case ArcSegment:
			rec.Type = typeArc
			rec.Origin = pair(s.Origin)
			rec.Radius = s.Radius
			rec.StartAngle = s.StartAngle
			rec.EndAngle = s.EndAngle
			rec.CCW = s.CCW
		default:
			return fmt.Errorf("%w: %T", ErrUnknownSegmentType, seg)
		}
		doc.Segments = append(doc.Segments, rec)
	}
	for _, m := range c.marks {
		doc.Marks = append(doc.Marks, markRecord{Origin: pair(m.Origin), Radius: m.Radius, Goal: m.Goal})
	}
	return toml.NewEncoder(w).Encode(doc)
}

// Load reads a course written by Save. Continuity is not checked; see
// Validate.
func Load(r io.Reader) (*Course, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}

	c := NewCourse(Params{
		HalfLineWidth: doc.HalfLineWidth,
		HalfMarkWidth: doc.HalfMarkWidth,
		MarkDistance:  doc.MarkDistance,
	})
	for i, rec := range doc.Segments {
		switch rec.Type {
		case typeLine:
			c.segments = append(c.segments, LineSegment{
				From: vec(rec.Start),
				To:   vec(rec.End),
				Dir:  vec(rec.StartDir),
			})
		case typeArc:
			c.segments = append(c.segments, ArcSegment{
				Origin:     vec(rec.Origin),
				Radius:     rec.Radius,
				StartAngle: rec.StartAngle,
				EndAngle:   rec.EndAngle,
				From:       vec(rec.Start),
				To:         vec(rec.End),
				FromDir:    vec(rec.StartDir),
				ToDir:      vec(rec.EndDir),
				CCW:        rec.CCW,
			})
		default:
			return nil, fmt.Errorf("segment %d: %w %q", i, ErrUnknownSegmentType, rec.Type)
		}
	}
	for _, m := range doc.Marks {
		c.marks = append(c.marks, Mark{Origin: vec(m.Origin), Radius: m.Radius, Goal: m.Goal})
	}
	return c, nil
}

// SaveFile writes c to path.
func SaveFile(path string, c *Course) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, c); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

// LoadFile reads a course from path.
func LoadFile(path string) (*Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}
