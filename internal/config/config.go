package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"acupoint-viewer/internal/lasso"
	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/scene"

	"gopkg.in/yaml.v3"
)

// Path is the viewer config file, relative to the process working directory.
const Path = "config/viewer.yaml"

// Backend names accepted by Picking.Backend.
const (
	BackendGPU      = "gpu"
	BackendSoftware = "software"
)

// Window is the initial window geometry.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Model says where the hand model comes from and which sub-meshes are landmarks.
// An empty Source loads the built-in demo hand.
type Model struct {
	Source   string   `yaml:"source"`
	RotateY  float32  `yaml:"rotate_y"`
	Tag      string   `yaml:"landmark_tag"`
	Prefixes []string `yaml:"landmark_prefixes"`
}

// Lasso holds the sample-simplification thresholds.
type Lasso struct {
	JitterPx     float32 `yaml:"jitter_px"`
	CollinearDot float32 `yaml:"collinear_dot"`
}

// Camera is the initial main camera.
type Camera struct {
	FovY        float32    `yaml:"fov_y"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position"`
	MinDistance float32    `yaml:"min_distance"`
}

// Picking configures the off-screen pass.
type Picking struct {
	Backend   string  `yaml:"backend"`
	MaskDepth float32 `yaml:"mask_depth"`
}

// Prefs holds viewer preferences. Persisted across runs.
type Prefs struct {
	Window      Window  `yaml:"window"`
	Model       Model   `yaml:"model"`
	Lasso       Lasso   `yaml:"lasso"`
	Camera      Camera  `yaml:"camera"`
	Picking     Picking `yaml:"picking"`
	ShowFPS     bool    `yaml:"show_fps"`
	ShowLog     bool    `yaml:"show_log"`
	GridVisible bool    `yaml:"grid_visible"`
	LogLevel    string  `yaml:"log_level"`
}

// Default returns the default preferences.
func Default() Prefs {
	return Prefs{
		Window: Window{Width: 1280, Height: 800, Title: "acupoint viewer"},
		Model: Model{
			RotateY:  30,
			Tag:      scene.DefaultTag,
			Prefixes: append([]string(nil), scene.DefaultPrefixes...),
		},
		Lasso: Lasso{JitterPx: lasso.DefaultJitterPx, CollinearDot: lasso.DefaultCollinearDot},
		Camera: Camera{
			FovY:        75,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{2, 4, 6},
			MinDistance: 3,
		},
		Picking:     Picking{Backend: BackendGPU, MaskDepth: mask.DefaultDepth},
		GridVisible: true,
		LogLevel:    "info",
	}
}

// Matcher returns the landmark matcher described by the model section.
func (p Prefs) Matcher() scene.Matcher {
	return scene.Matcher{Tag: p.Model.Tag, Prefixes: p.Model.Prefixes}
}

// Validate checks values the picking pipeline depends on.
func (p Prefs) Validate() error {
	c := p.Camera
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("config: camera near/far must satisfy 0 < near < far, got %g/%g", c.Near, c.Far)
	}
	if c.FovY <= 0 || c.FovY >= 180 {
		return fmt.Errorf("config: camera fov_y %g out of range", c.FovY)
	}
	if d := p.Picking.MaskDepth; d <= c.Near || d >= c.Far {
		return fmt.Errorf("config: mask_depth %g must lie between near %g and far %g", d, c.Near, c.Far)
	}
	switch p.Picking.Backend {
	case BackendGPU, BackendSoftware:
	default:
		return fmt.Errorf("config: unknown picking backend %q", p.Picking.Backend)
	}
	if len(p.Model.Prefixes) == 0 {
		return fmt.Errorf("config: no landmark prefixes")
	}
	if p.Lasso.CollinearDot <= 0 || p.Lasso.CollinearDot > 1 {
		return fmt.Errorf("config: collinear_dot %g out of (0, 1]", p.Lasso.CollinearDot)
	}
	return nil
}

// Load reads preferences from path. If the file is missing or invalid, returns Default()
// and does not create a file. Keys absent from the file keep their default value.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes preferences to path, creating the parent directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Environment overrides read by ApplyEnv.
const (
	EnvModel   = "ACUVIEW_MODEL"
	EnvBackend = "ACUVIEW_PICKING"
	EnvLog     = "ACUVIEW_LOG"
	EnvFPS     = "ACUVIEW_SHOW_FPS"
)

// ApplyEnv overlays ACUVIEW_* variables that are set and non-empty.
func ApplyEnv(p *Prefs) {
	if v := os.Getenv(EnvModel); v != "" {
		p.Model.Source = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		p.Picking.Backend = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		p.LogLevel = v
	}
	if v := os.Getenv(EnvFPS); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			p.ShowFPS = b
		}
	}
}
