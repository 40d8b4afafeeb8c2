package sim

import "fmt"

// Mode selects which agent drives the robot.
type Mode int

const (
	ModeManualVelocity Mode = iota // operator sets forward speed and turn rate
	ModeManualPosition             // position controller drives to a clicked point
	ModeAuto                       // PI heading tracker on the sensed line
	ModePursuit                    // position controller chasing a lookahead point
)

var modeNames = [...]string{
	ModeManualVelocity: "manual",
	ModeManualPosition: "goto",
	ModeAuto:           "auto",
	ModePursuit:        "pursuit",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a config or flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
