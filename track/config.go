// Package track builds the static geometry of a closed track: the
// centerline, rail strokes, and ties (sleepers) placed at fixed arc-length
// intervals.
//
// The builder walks every spline segment at a flat parametric resolution,
// Config.Divisions steps per segment, approximating the curve by a
// polyline. A running arc-length accumulator emits a tie whenever more than
// Config.TieSpacing units have passed since the previous one.
package track

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/railspline/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'railspline.track'
func tracer() tracing.Trace {
	return tracing.Select("railspline.track")
}

var (
	// ErrInvalidConfig indicates an unusable track configuration.
	ErrInvalidConfig = errors.New("invalid track configuration")
	// ErrUnknownStyle indicates an unknown track style name.
	ErrUnknownStyle = errors.New("unknown track style")
)

// Style selects how rail lines are derived from the centerline. It has no
// effect on kinematics.
type Style int8

// Track styles.
const (
	Simple   Style = iota + 1 // the centerline only
	Parallel                  // two rails, offset by ±gauge
	Road                      // cross strokes from +gauge to −gauge
)

func (s Style) String() string {
	switch s {
	case Simple:
		return "simple"
	case Parallel:
		return "parallel"
	case Road:
		return "road"
	}
	return fmt.Sprintf("Style(%d)", int8(s))
}

// Valid is a predicate: is s a known style?
func (s Style) Valid() bool {
	return s >= Simple && s <= Road
}

// ParseStyle parses a track style name, ignoring case.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "line":
		return Simple, nil
	case "parallel", "rails":
		return Parallel, nil
	case "road":
		return Road, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// Defaults as used by the train view application.
const (
	DefaultDivisions   = 500
	DefaultTieSpacing  = 8.0
	DefaultGauge       = 2.5
	DefaultMaxAngleDeg = 2.0
)

// Config is the configuration surface of the track builder.
type Config struct {
	Family      spline.Family
	Style       Style
	Divisions   int     // steps per spline segment
	TieSpacing  float64 // arc length between ties
	Gauge       float64 // lateral rail offset from the centerline
	Adaptive    bool    // subdivide steps on sharp turns
	MaxAngleDeg float64 // turn per step above which adaptive mode subdivides
}

// DefaultConfig returns a cardinal-spline track with parallel rails.
func DefaultConfig() Config {
	return Config{
		Family:      spline.Cardinal,
		Style:       Parallel,
		Divisions:   DefaultDivisions,
		TieSpacing:  DefaultTieSpacing,
		Gauge:       DefaultGauge,
		MaxAngleDeg: DefaultMaxAngleDeg,
	}
}

// Validate checks a configuration.
func (cfg Config) Validate() error {
	switch {
	case !cfg.Family.Valid():
		return fmt.Errorf("%w: curve family %s", ErrInvalidConfig, cfg.Family)
	case !cfg.Style.Valid():
		return fmt.Errorf("%w: track style %s", ErrInvalidConfig, cfg.Style)
	case cfg.Divisions < 1:
		return fmt.Errorf("%w: divisions must be positive, is %d", ErrInvalidConfig, cfg.Divisions)
	case !(cfg.TieSpacing > 0):
		return fmt.Errorf("%w: tie spacing must be positive, is %g", ErrInvalidConfig, cfg.TieSpacing)
	case !(cfg.Gauge >= 0):
		return fmt.Errorf("%w: gauge must not be negative, is %g", ErrInvalidConfig, cfg.Gauge)
	case cfg.Adaptive && !(cfg.MaxAngleDeg > 0):
		return fmt.Errorf("%w: adaptive subdivision needs a positive angle, is %g",
			ErrInvalidConfig, cfg.MaxAngleDeg)
	}
	return nil
}
