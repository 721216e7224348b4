package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate and Load when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Window holds the initial window settings.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
	MSAA   bool   `yaml:"msaa"`

	// ClearColor is the RGBA background, each channel in [0, 1].
	ClearColor [4]float64 `yaml:"clear_color"`
}

// Camera holds the projection and fly-controller settings.
type Camera struct {
	FovDegrees  float32    `yaml:"fov_degrees"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
}

// Grid describes the demo instance grid. Model names an entry of Config.Models.
type Grid struct {
	Model   string  `yaml:"model"`
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float32 `yaml:"spacing"`
	Seed    int64   `yaml:"seed"`
}

// ModelEntry is one model of the preload manifest.
type ModelEntry struct {
	ID            string     `yaml:"id"`
	Path          string     `yaml:"path"`
	Translate     [3]float32 `yaml:"translate"`
	Scale         float32    `yaml:"scale"`
	RotateDegrees [3]float32 `yaml:"rotate_degrees"`
}

// Physics configures the ball-drop simulation.
type Physics struct {
	Enabled  bool   `yaml:"enabled"`
	Model    string `yaml:"model"`
	TickRate int    `yaml:"tick_rate"`
}

// Config is the demo program configuration.
type Config struct {
	Window     Window       `yaml:"window"`
	Camera     Camera       `yaml:"camera"`
	Grid       Grid         `yaml:"grid"`
	Models     []ModelEntry `yaml:"models"`
	Physics    Physics      `yaml:"physics"`
	HotReload  bool         `yaml:"hot_reload"`
	Profiling  bool         `yaml:"profiling"`
	FixedDelta bool         `yaml:"fixed_delta"`
}

// Default returns the built-in configuration: an 800x600 window, the fly camera at (-5,0,2)
// and a 100x100 grid of the cube model spaced 50 units apart.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-instancer",
			Width:  800,
			Height: 600,
			VSync:      true,
			MSAA:       true,
			ClearColor: [4]float64{0.1, 0.1, 0.1, 1},
		},
		Camera: Camera{
			FovDegrees:  80,
			Near:        0.5,
			Far:         10000,
			Speed:       0.5,
			Sensitivity: 40,
			Position:    [3]float32{-5, 0, 2},
		},
		Grid: Grid{
			Model:   "cube",
			Rows:    100,
			Cols:    100,
			Spacing: 50,
			Seed:    1,
		},
		Models: []ModelEntry{
			{ID: "cube", Path: "assets/cube.obj", Scale: 1},
			{ID: "ball", Path: "assets/ball.obj", Scale: 0.5},
		},
		Physics: Physics{
			Enabled:  true,
			Model:    "ball",
			TickRate: 60,
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields Default().
// Unknown keys are rejected.
//
// Parameters:
//   - path: the YAML file path
//
// Returns:
//   - Config: the validated configuration
//   - error: read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, clip planes, colors and model references.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		invalid("camera fov %v must be in (0, 180)", c.Camera.FovDegrees)
	}
	for _, ch := range c.Window.ClearColor {
		if ch < 0 || ch > 1 {
			invalid("window clear color %v channels must be in [0, 1]", c.Window.ClearColor)
			break
		}
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		invalid("camera clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Pitch < -89 || c.Camera.Pitch > 89 {
		invalid("camera pitch %v must be in [-89, 89]", c.Camera.Pitch)
	}
	if c.Grid.Rows < 0 || c.Grid.Cols < 0 {
		invalid("grid size %dx%d must not be negative", c.Grid.Rows, c.Grid.Cols)
	}
	if c.Physics.TickRate <= 0 {
		invalid("physics tick rate %d must be positive", c.Physics.TickRate)
	}

	ids := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if m.ID == "" || m.Path == "" {
			invalid("model entry %q needs an id and a path", m.ID)
			continue
		}
		if m.Scale < 0 {
			invalid("model %q scale %v must not be negative", m.ID, m.Scale)
		}
		if _, dup := ids[m.ID]; dup {
			invalid("duplicate model id %q", m.ID)
		}
		ids[m.ID] = struct{}{}
	}
	if c.Grid.Rows*c.Grid.Cols > 0 {
		if _, ok := ids[c.Grid.Model]; !ok {
			invalid("grid model %q is not in models", c.Grid.Model)
		}
	}
	if c.Physics.Enabled {
		if _, ok := ids[c.Physics.Model]; !ok {
			invalid("physics model %q is not in models", c.Physics.Model)
		}
		// the ball owns the whole instance list of its model
		if c.Grid.Rows*c.Grid.Cols > 0 && c.Physics.Model == c.Grid.Model {
			invalid("physics model %q is also the grid model", c.Physics.Model)
		}
	}
	return errors.Join(errs...)
}

// Model returns the manifest entry with the given id.
func (c Config) Model(id string) (ModelEntry, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelEntry{}, false
}

// PreTransform returns the load-time transform of the entry: translate, then rotate (degrees),
// then scale. A zero Scale means 1.
func (m ModelEntry) PreTransform() mgl32.Mat4 {
	s := common.Coalesce(m.Scale, 1)
	rot := mgl32.Vec3{
		mgl32.DegToRad(m.RotateDegrees[0]),
		mgl32.DegToRad(m.RotateDegrees[1]),
		mgl32.DegToRad(m.RotateDegrees[2]),
	}
	return common.BuildModelMatrix(mgl32.Vec3(m.Translate), rot, mgl32.Vec3{s, s, s})
}
