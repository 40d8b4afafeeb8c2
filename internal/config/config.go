// Package config holds every tunable of the simulator. Default returns the
// built-in values; Load overlays a TOML file on top of them.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"line-tracer/internal/agent"
	"line-tracer/internal/physics"
	"line-tracer/internal/track"
)

type Config struct {
	Course     CourseConfig     `toml:"course"`
	Robot      RobotConfig      `toml:"robot"`
	Controller ControllerConfig `toml:"controller"`
	Sim        SimConfig        `toml:"sim"`
	View       ViewConfig       `toml:"view"`
}

type CourseConfig struct {
	LineWidth    float64 `toml:"line_width"`
	MarkWidth    float64 `toml:"mark_width"`
	MarkDistance float64 `toml:"mark_distance"`
}

type RobotConfig struct {
	WheelRadius     float64 `toml:"wheel_radius"`
	WheelSeparation float64 `toml:"wheel_separation"`
	BodyRadius      float64 `toml:"body_radius"`
	SensorPitch     float64 `toml:"sensor_pitch"`
	MarkerOffset    float64 `toml:"marker_offset"`
}

type ControllerConfig struct {
	HeadingKp         float64 `toml:"heading_kp"`
	HeadingKi         float64 `toml:"heading_ki"`
	PositionKp        float64 `toml:"position_kp"`
	PositionKv        float64 `toml:"position_kv"`
	MaxForward        float64 `toml:"max_forward"`
	MaxRotate         float64 `toml:"max_rotate"`
	StopSpeed         float64 `toml:"stop_speed"`
	MinSampleDistance float64 `toml:"min_sample_distance"`
	InitialSpeed      float64 `toml:"initial_speed"`
}

type SimConfig struct {
	Dt             float64 `toml:"dt"`
	StepsPerFrame  int     `toml:"steps_per_frame"`
	Mode           string  `toml:"mode"`
	AutoForward    float64 `toml:"auto_forward"`
	PursuitForward float64 `toml:"pursuit_forward"`
	PursuitHorizon float64 `toml:"pursuit_horizon"`
	ManualForward  float64 `toml:"manual_forward"`
	ManualRotate   float64 `toml:"manual_rotate"`
}

type ViewConfig struct {
	Scale float64 `toml:"scale"` // pixels per meter
	TPS   int     `toml:"tps"`
}

// Default returns the built-in configuration.
func Default() Config {
	cp := track.DefaultParams()
	rp := physics.DefaultParams()
	g := agent.DefaultGains()
	return Config{
		Course: CourseConfig{
			LineWidth:    2 * cp.HalfLineWidth,
			MarkWidth:    2 * cp.HalfMarkWidth,
			MarkDistance: cp.MarkDistance,
		},
		Robot: RobotConfig{
			WheelRadius:     rp.WheelRadius,
			WheelSeparation: rp.WheelSeparation,
			BodyRadius:      rp.BodyRadius,
			SensorPitch:     rp.SensorPitch,
			MarkerOffset:    rp.MarkerOffset,
		},
		Controller: ControllerConfig{
			HeadingKp:         g.HeadingKp,
			HeadingKi:         g.HeadingKi,
			PositionKp:        g.PositionKp,
			PositionKv:        g.PositionKv,
			MaxForward:        g.MaxForward,
			MaxRotate:         g.MaxRotate,
			StopSpeed:         g.StopSpeed,
			MinSampleDistance: g.MinSampleDistance,
			InitialSpeed:      g.InitialSpeed,
		},
		Sim: SimConfig{
			Dt:             0.01,
			StepsPerFrame:  1,
			Mode:           "manual",
			AutoForward:    0.20,
			PursuitForward: 0.06,
			PursuitHorizon: 1,
			ManualForward:  0.12,
			ManualRotate:   0.8,
		},
		View: ViewConfig{
			Scale: 500,
			TPS:   30,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys the file sets that Config does not know are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	var err error
	if c.Sim.Dt <= 0 {
		err = multierr.Append(err, fmt.Errorf("sim.dt must be positive, got %g", c.Sim.Dt))
	}
	if c.Sim.StepsPerFrame < 1 {
		err = multierr.Append(err, fmt.Errorf("sim.steps_per_frame must be at least 1, got %d", c.Sim.StepsPerFrame))
	}
	if c.Course.LineWidth <= 0 {
		err = multierr.Append(err, fmt.Errorf("course.line_width must be positive, got %g", c.Course.LineWidth))
	}
	if c.Robot.WheelSeparation <= 0 {
		err = multierr.Append(err, fmt.Errorf("robot.wheel_separation must be positive, got %g", c.Robot.WheelSeparation))
	}
	if c.View.TPS < 1 {
		err = multierr.Append(err, fmt.Errorf("view.tps must be at least 1, got %d", c.View.TPS))
	}
	return err
}

// TrackParams converts the course section.
func (c Config) TrackParams() track.Params {
	return track.Params{
		HalfLineWidth: c.Course.LineWidth / 2,
		HalfMarkWidth: c.Course.MarkWidth / 2,
		MarkDistance:  c.Course.MarkDistance,
	}
}

// RobotParams converts the robot section.
func (c Config) RobotParams() physics.Params {
	return physics.Params(c.Robot)
}

// Gains converts the controller section.
func (c Config) Gains() agent.Gains {
	return agent.Gains(c.Controller)
}
