package track

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks positional and tangent continuity between every pair of
// consecutive segments and returns all violations combined.
func Validate(segments []Segment, eps float64) error {
	var err error
	for i := 1; i < len(segments); i++ {
		prev, next := segments[i-1], segments[i]
		if !prev.End().Near(next.Start(), eps) {
			err = multierr.Append(err, fmt.Errorf("segment %d: starts at %v, previous ends at %v", i, next.Start(), prev.End()))
		}
		if !prev.EndDir().Near(next.StartDir(), eps) {
			err = multierr.Append(err, fmt.Errorf("segment %d: starts heading %v, previous ends heading %v", i, next.StartDir(), prev.EndDir()))
		}
	}
	return err
}

// IsClosed reports whether the last segment leads back into the first one,
// both in position and heading.
func IsClosed(segments []Segment, eps float64) bool {
	if len(segments) == 0 {
		return false
	}
	first, last := segments[0], segments[len(segments)-1]
	return last.End().Near(first.Start(), eps) && last.EndDir().Near(first.StartDir(), eps)
}
