package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/render"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// ErrInvalid marks any configuration contract violation
var ErrInvalid = errors.New("config: invalid")

// ScreenConfig is the terminal grid and color output
type ScreenConfig struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	ColorMode string `toml:"color_mode"`
}

// RenderConfig is the worker pool and shading setup
type RenderConfig struct {
	FPS        int     `toml:"fps"`
	Workers    int     `toml:"workers"`
	Ramp       string  `toml:"ramp"`
	Brightness float32 `toml:"brightness"`
	Fog        float64 `toml:"fog"`
}

// CameraConfig is the view frustum
type CameraConfig struct {
	FOV         float32 `toml:"fov"`
	MaxDistance float32 `toml:"max_distance"`
}

// QuadtreeConfig is the broad phase layout
type QuadtreeConfig struct {
	X        float32 `toml:"x"`
	Z        float32 `toml:"z"`
	W        float32 `toml:"w"`
	H        float32 `toml:"h"`
	Capacity int     `toml:"capacity"`
	MaxDepth int     `toml:"max_depth"`
}

// AudioConfig toggles effect playback
type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Config is the full runtime configuration
type Config struct {
	Screen   ScreenConfig   `toml:"screen"`
	Render   RenderConfig   `toml:"render"`
	Camera   CameraConfig   `toml:"camera"`
	Quadtree QuadtreeConfig `toml:"quadtree"`
	Audio    AudioConfig    `toml:"audio"`
	Debug    bool           `toml:"debug"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Screen: ScreenConfig{
			Width:     parameter.ScreenWidth,
			Height:    parameter.ScreenHeight,
			ColorMode: parameter.ColorModeTrueColor,
		},
		Render: RenderConfig{
			FPS:        parameter.FramesPerSecond,
			Workers:    parameter.WorkerCount,
			Ramp:       parameter.GlyphRamp,
			Brightness: parameter.Brightness,
			Fog:        parameter.FogStrength,
		},
		Camera: CameraConfig{
			FOV:         parameter.CameraFOV,
			MaxDistance: parameter.RayMaxDistance,
		},
		Quadtree: QuadtreeConfig{
			X:        parameter.QuadtreeBoundsX,
			Z:        parameter.QuadtreeBoundsZ,
			W:        parameter.QuadtreeBoundsW,
			H:        parameter.QuadtreeBoundsH,
			Capacity: parameter.QuadtreeCapacity,
			MaxDepth: parameter.QuadtreeMaxDepth,
		},
		Audio: AudioConfig{Enabled: true},
	}
}

// Load reads a TOML file over the defaults, an empty path returns the defaults
// Unknown keys are rejected so typos do not silently fall back
// Load does not log; logging is configured from the result
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.Wrapf(ErrInvalid, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field contract
func (c Config) Validate() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		fail("screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	}
	switch c.Screen.ColorMode {
	case parameter.ColorModeTrueColor, parameter.ColorModePalette:
	default:
		fail("unknown color mode %q", c.Screen.ColorMode)
	}

	if c.Render.FPS <= 0 {
		fail("fps %d must be positive", c.Render.FPS)
	}
	if c.Render.Workers <= 0 {
		fail("workers %d must be positive", c.Render.Workers)
	} else if c.Screen.Width > 0 && c.Screen.Width%c.Render.Workers != 0 {
		fail("width %d not divisible by %d workers", c.Screen.Width, c.Render.Workers)
	}
	if c.Render.Brightness <= 0 {
		fail("brightness %v must be positive", c.Render.Brightness)
	}
	if c.Render.Fog < 0 || c.Render.Fog > 1 {
		fail("fog %v outside [0, 1]", c.Render.Fog)
	}
	if c.Render.Ramp == "" {
		fail("glyph ramp is empty")
	}
	for i, r := range []rune(c.Render.Ramp) {
		if r > 0xFFFF {
			fail("ramp glyph %d %q outside 16-bit cell range", i, r)
		} else if runewidth.RuneWidth(r) != 1 {
			fail("ramp glyph %d %q is not single-column", i, r)
		}
	}

	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		fail("fov %v outside (0, 180)", c.Camera.FOV)
	}
	if c.Camera.MaxDistance <= 0 {
		fail("max distance %v must be positive", c.Camera.MaxDistance)
	}

	if c.Quadtree.W <= 0 || c.Quadtree.H <= 0 {
		fail("quadtree extent %vx%v must be positive", c.Quadtree.W, c.Quadtree.H)
	}
	if c.Quadtree.Capacity <= 0 || c.Quadtree.MaxDepth <= 0 {
		fail("quadtree capacity %d and depth %d must be positive", c.Quadtree.Capacity, c.Quadtree.MaxDepth)
	}

	if len(problems) > 0 {
		return errors.Wrap(ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// WorldConfig converts to the physics world setup
func (c Config) WorldConfig() physics.WorldConfig {
	return physics.WorldConfig{
		Quadtree: physics.QuadtreeConfig{
			Bounds:   vmath.Rect{X: c.Quadtree.X, Z: c.Quadtree.Z, W: c.Quadtree.W, H: c.Quadtree.H},
			Capacity: c.Quadtree.Capacity,
			MaxDepth: c.Quadtree.MaxDepth,
		},
	}
}

// ShaderConfig converts to the render shader setup
func (c Config) ShaderConfig() render.ShaderConfig {
	return render.ShaderConfig{
		Ramp:        c.Render.Ramp,
		Brightness:  c.Render.Brightness,
		Fog:         c.Render.Fog,
		MaxDistance: c.Camera.MaxDistance,
		Background:  core.Indexed(core.PaletteBlack),
	}
}
