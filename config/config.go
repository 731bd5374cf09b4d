// Package config holds the application configuration and reads it from
// TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/present"
)

// ErrInvalidConfig is returned for configurations that fail validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the application configuration.
type Config struct {
	Window  Window  `toml:"window" yaml:"window"`
	Stretch Stretch `toml:"stretch" yaml:"stretch"`
	Present Present `toml:"present" yaml:"present"`
	Shaders Shaders `toml:"shaders" yaml:"shaders"`
	Camera  Camera  `toml:"camera" yaml:"camera"`
	Overlay Overlay `toml:"overlay" yaml:"overlay"`
}

// Window configures the application window.
type Window struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	MinWidth  int    `toml:"min_width" yaml:"min_width"`
	MinHeight int    `toml:"min_height" yaml:"min_height"`
}

// Stretch configures how content follows the window size.
type Stretch struct {
	// Policy is "fit", "scaled" or "disabled". Unknown names fall back to
	// fit.
	Policy string `toml:"policy" yaml:"policy"`

	// Background is "fit" or "cover".
	Background string `toml:"background" yaml:"background"`

	ReferenceWidth  float32 `toml:"reference_width" yaml:"reference_width"`
	ReferenceHeight float32 `toml:"reference_height" yaml:"reference_height"`
}

// Present configures the device and swapchain.
type Present struct {
	// Backend selects a registered backend; empty picks the default.
	Backend string `toml:"backend" yaml:"backend"`

	// Mode is the preferred present mode. Fifo is used when the surface
	// does not offer it.
	Mode string `toml:"mode" yaml:"mode"`

	FramesInFlight int  `toml:"frames_in_flight" yaml:"frames_in_flight"`
	Validation     bool `toml:"validation" yaml:"validation"`
}

// Shaders locates the scene shaders. Relative paths are resolved against
// Dir; "builtin:" paths select embedded shaders.
type Shaders struct {
	Dir           string `toml:"dir" yaml:"dir"`
	Vertex        string `toml:"vertex" yaml:"vertex"`
	Fragment      string `toml:"fragment" yaml:"fragment"`
	CubesFragment string `toml:"cubes_fragment" yaml:"cubes_fragment"`
	UI            string `toml:"ui" yaml:"ui"`

	// Watch reloads pipelines when their shader files change.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Vec3 is a position.
type Vec3 struct {
	X float32 `toml:"x" yaml:"x"`
	Y float32 `toml:"y" yaml:"y"`
	Z float32 `toml:"z" yaml:"z"`
}

// Camera configures the free-fly camera of the cube scene.
type Camera struct {
	Sensitivity float32 `toml:"sensitivity" yaml:"sensitivity"`
	MoveSpeed   float32 `toml:"move_speed" yaml:"move_speed"`
	MaxPitch    float32 `toml:"max_pitch" yaml:"max_pitch"`
	Start       Vec3    `toml:"start" yaml:"start"`
}

// Overlay configures the FPS counter.
type Overlay struct {
	ShowFPS bool `toml:"show_fps" yaml:"show_fps"`

	// FPSInterval is the FPS update interval in seconds.
	FPSInterval float64 `toml:"fps_interval" yaml:"fps_interval"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Window: Window{
			Title:     "shaderview",
			Width:     800,
			Height:    500,
			MinWidth:  400,
			MinHeight: 400,
		},
		Stretch: Stretch{
			Policy:          shaderview.StretchFit.String(),
			Background:      shaderview.BackgroundFit.String(),
			ReferenceWidth:  shaderview.DefaultReferenceWidth,
			ReferenceHeight: shaderview.DefaultReferenceHeight,
		},
		Present: Present{
			Mode:           gpucore.PresentModeMailbox.String(),
			FramesInFlight: present.DefaultFramesInFlight,
		},
		Shaders: Shaders{
			Dir:           "shaders",
			Vertex:        "builtin:fullscreen",
			Fragment:      "builtin:plasma",
			CubesFragment: "builtin:cubes",
			UI:            "builtin:ui",
		},
		Camera: Camera{
			Sensitivity: 0.005,
			MoveSpeed:   2.0,
			MaxPitch:    1.57,
			Start:       Vec3{Z: 2.2},
		},
		Overlay: Overlay{
			ShowFPS:     true,
			FPSInterval: 0.1,
		},
	}
}

// StretchPolicy returns the parsed stretch policy. Unknown names log a
// warning and return StretchFit.
func (s Stretch) StretchPolicy() shaderview.StretchPolicy {
	p, err := shaderview.ParseStretchPolicy(s.Policy)
	if err != nil {
		shaderview.Logger().Warn("using fit stretch policy", "err", err)
	}
	return p
}

// BackgroundMode returns the parsed background mode. Unknown names log a
// warning and return BackgroundFit.
func (s Stretch) BackgroundMode() shaderview.BackgroundMode {
	m, err := shaderview.ParseBackgroundMode(s.Background)
	if err != nil {
		shaderview.Logger().Warn("using fit background mode", "err", err)
	}
	return m
}

// Reference returns the reference size.
func (s Stretch) Reference() shaderview.Size {
	return shaderview.Sz(s.ReferenceWidth, s.ReferenceHeight)
}

// PresentMode returns the parsed present mode, fifo if it is unknown.
func (p Present) PresentMode() gpucore.PresentMode {
	m, _ := gpucore.ParsePresentMode(p.Mode)
	return m
}

// Interval returns the FPS update interval.
func (o Overlay) Interval() time.Duration {
	return time.Duration(o.FPSInterval * float64(time.Second))
}

// Validate checks every section and returns all problems found, wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	w := c.Window
	check(w.Width > 0 && w.Height > 0, "window size %dx%d must be positive", w.Width, w.Height)
	check(w.MinWidth >= 0 && w.MinHeight >= 0, "window minimum %dx%d must not be negative", w.MinWidth, w.MinHeight)
	check(w.MinWidth <= w.Width && w.MinHeight <= w.Height,
		"window size %dx%d is below minimum %dx%d", w.Width, w.Height, w.MinWidth, w.MinHeight)

	if err := shaderview.ValidateReference(c.Stretch.Reference()); err != nil {
		errs = append(errs, err)
	}

	check(c.Present.FramesInFlight >= 1 && c.Present.FramesInFlight <= 4,
		"frames_in_flight %d must be in [1,4]", c.Present.FramesInFlight)
	if _, err := gpucore.ParsePresentMode(c.Present.Mode); err != nil {
		errs = append(errs, err)
	}

	s := c.Shaders
	check(s.Vertex != "", "shaders.vertex must be set")
	check(s.Fragment != "", "shaders.fragment must be set")
	check(s.CubesFragment != "", "shaders.cubes_fragment must be set")
	check(s.UI != "", "shaders.ui must be set")

	cam := c.Camera
	check(cam.Sensitivity > 0, "camera sensitivity %g must be positive", cam.Sensitivity)
	check(cam.MoveSpeed > 0, "camera move_speed %g must be positive", cam.MoveSpeed)
	check(cam.MaxPitch > 0 && cam.MaxPitch < 1.5708, "camera max_pitch %g must be in (0, pi/2)", cam.MaxPitch)

	check(c.Overlay.FPSInterval > 0, "overlay fps_interval %g must be positive", c.Overlay.FPSInterval)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
