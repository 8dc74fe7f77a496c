/*
Package config reads the scene description for the track tools: curve
family, track style, sampling resolution, train settings, control points
and scenery footprints.

A scene is read from YAML and may be overridden from the environment,
with variables prefixed by RAILSPLINE_ (e.g. RAILSPLINE_CURVE=b-spline).
Control points and scenery are taken from the file only. Scenes are input
to the tools; nothing is written back.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/ctrlpt"
	"github.com/npillmayer/railspline/polygon"
	"github.com/npillmayer/railspline/spline"
	"github.com/npillmayer/railspline/track"
	"github.com/npillmayer/railspline/train"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'railspline.config'
func tracer() tracing.Trace {
	return tracing.Select("railspline.config")
}

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "RAILSPLINE"

// ErrInvalidScene indicates an unusable scene description.
var ErrInvalidScene = errors.New("invalid scene")

// Point is a control point as written in a scene file. A missing
// orientation means "up".
type Point struct {
	Pos    [3]float64 `yaml:"pos"`
	Orient [3]float64 `yaml:"orient,omitempty"`
}

// Scenery is the rectangular ground footprint of a piece of scenery, in
// the XZ plane.
type Scenery struct {
	Name string     `yaml:"name"`
	Min  [2]float64 `yaml:"min"`
	Max  [2]float64 `yaml:"max"`
}

// Scene holds the settings of a scene.
type Scene struct {
	Curve      string    `yaml:"curve" envconfig:"CURVE"`
	Track      string    `yaml:"track" envconfig:"TRACK"`
	Divisions  int       `yaml:"divisions" envconfig:"DIVISIONS"`
	TieSpacing float64   `yaml:"tie_spacing" envconfig:"TIE_SPACING"`
	Gauge      float64   `yaml:"gauge" envconfig:"GAUGE"`
	Adaptive   bool      `yaml:"adaptive" envconfig:"ADAPTIVE"`
	Speed      float64   `yaml:"speed" envconfig:"SPEED"` // path time per frame, 0 = derive from divisions
	Cars       int       `yaml:"cars" envconfig:"CARS"`
	CarSpacing float64   `yaml:"car_spacing" envconfig:"CAR_SPACING"`
	Points     []Point   `yaml:"points" ignored:"true"`
	Scenery    []Scenery `yaml:"scenery" ignored:"true"`
}

// Defaults returns the scene of the train view application: a cardinal
// spline through the default loop, with parallel rails.
func Defaults() *Scene {
	return &Scene{
		Curve:      spline.Cardinal.String(),
		Track:      track.Parallel.String(),
		Divisions:  track.DefaultDivisions,
		TieSpacing: track.DefaultTieSpacing,
		Gauge:      track.DefaultGauge,
		Cars:       1,
		CarSpacing: 10,
	}
}

// Parse reads a YAML scene. Settings missing from data keep their
// defaults. Unknown keys are an error.
func Parse(data []byte) (*Scene, error) {
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(data []byte) (*Scene, error) {
	s := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return s, nil
}

// Load reads the scene file at path, applies environment overrides and
// validates the result. The file alone need not be valid, as long as the
// overrides make it so. An empty path loads the defaults.
func Load(path string) (*Scene, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err = s.FromEnv(); err != nil {
		return nil, err
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	tracer().Infof("scene %q: %s curve, %s track, %d points", path, s.Curve, s.Track, len(s.Points))
	return s, nil
}

// FromEnv overrides scalar settings from RAILSPLINE_* environment variables.
func (s *Scene) FromEnv() error {
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

// Validate checks a scene.
func (s *Scene) Validate() error {
	if _, err := s.TrackConfig(); err != nil {
		return err
	}
	switch {
	case s.Cars < 0:
		return fmt.Errorf("%w: negative number of cars", ErrInvalidScene)
	case s.Cars > 1 && !(s.CarSpacing > 0):
		return fmt.Errorf("%w: car spacing must be positive, is %g", ErrInvalidScene, s.CarSpacing)
	case !(s.Speed >= 0) || math.IsInf(s.Speed, 0):
		return fmt.Errorf("%w: speed must be a non-negative number, is %g", ErrInvalidScene, s.Speed)
	}
	if _, err := s.Store(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	for _, sc := range s.Scenery {
		if !(sc.Min[0] < sc.Max[0] && sc.Min[1] < sc.Max[1]) {
			return fmt.Errorf("%w: scenery %q has an empty footprint", ErrInvalidScene, sc.Name)
		}
	}
	return nil
}

// Family returns the curve family.
func (s *Scene) Family() (spline.Family, error) {
	f, err := spline.ParseFamily(s.Curve)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return f, nil
}

// TrackConfig returns the configuration for the track builder.
func (s *Scene) TrackConfig() (track.Config, error) {
	cfg := track.DefaultConfig()
	var err error
	if cfg.Family, err = s.Family(); err != nil {
		return cfg, err
	}
	if cfg.Style, err = track.ParseStyle(s.Track); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	cfg.Divisions = s.Divisions
	cfg.TieSpacing = s.TieSpacing
	cfg.Gauge = s.Gauge
	cfg.Adaptive = s.Adaptive
	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return cfg, nil
}

// Store returns a new control point store with the scene's points, or
// with the default loop if the scene has none.
func (s *Scene) Store() (*ctrlpt.Store, error) {
	if len(s.Points) == 0 {
		return ctrlpt.DefaultLoop(), nil
	}
	st := ctrlpt.Nulltrack()
	for _, p := range s.Points {
		up := railspline.V(p.Orient[0], p.Orient[1], p.Orient[2])
		if up.Len() == 0 {
			up = railspline.WorldUp
		}
		st.Point(railspline.V(p.Pos[0], p.Pos[1], p.Pos[2]), up)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Obstacles returns the scenery footprints, in order.
func (s *Scene) Obstacles() []*polygon.Polygon {
	obs := make([]*polygon.Polygon, len(s.Scenery))
	for i, sc := range s.Scenery {
		obs[i] = polygon.Box(polygon.P(sc.Min[0], sc.Max[1]), polygon.P(sc.Max[0], sc.Min[1]))
	}
	return obs
}

// Consist returns the train's cars.
func (s *Scene) Consist() train.Consist {
	return train.Consist{Cars: s.Cars, Spacing: s.CarSpacing}
}

// Clock returns a clock at time 0 for a track of n control points. Without
// an explicit speed, the train moves as in the train view application.
func (s *Scene) Clock(n int) *train.Clock {
	speed := s.Speed
	if speed == 0 {
		speed = train.SpeedFromDivisions(n, s.Divisions)
	}
	return &train.Clock{Speed: speed}
}
