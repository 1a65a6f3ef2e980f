// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Viewer      ViewerConfig     `yaml:"viewer"`
	Feedback    FeedbackConfig   `yaml:"feedback"`
	Logging     LoggingConfig    `yaml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewerConfig holds panorama, camera and gesture settings.
type ViewerConfig struct {
	Image          string        `yaml:"image"`           // Equirectangular image shown at startup
	PanSensitivity [2]float32    `yaml:"pan_sensitivity"` // Radians per pixel, x then y
	InitialFOV     float32       `yaml:"initial_fov"`     // Degrees
	MinFOV         float32       `yaml:"min_fov"`
	MaxFOV         float32       `yaml:"max_fov"`
	PitchLimit     float32       `yaml:"pitch_limit"` // Radians, symmetric
	SphereRadius   float32       `yaml:"sphere_radius"`
	SphereSegments int           `yaml:"sphere_segments"`
	LongPress      time.Duration `yaml:"long_press"`
	TapSlop        float32       `yaml:"tap_slop"` // Pixels
	WheelZoomStep  float32       `yaml:"wheel_zoom_step"`
	Background     [3]float32    `yaml:"background"`
}

// FeedbackConfig holds long-press feedback sound settings.
type FeedbackConfig struct {
	Enabled bool          `yaml:"enabled"`
	Volume  float64       `yaml:"volume"`
	Pulse   time.Duration `yaml:"pulse"`
	PulseHz float64       `yaml:"pulse_hz"`
	Sound   string        `yaml:"sound"` // Optional WAV replacing the pulse
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a Config with the stock viewer settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "panoview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			PanSensitivity: [2]float32{0.005, 0.005},
			InitialFOV:     80,
			MinFOV:         20,
			MaxFOV:         80,
			PitchLimit:     1.1,
			SphereRadius:   8,
			SphereSegments: 300,
			LongPress:      400 * time.Millisecond,
			TapSlop:        10,
			WheelZoomStep:  1.1,
		},
		Feedback: FeedbackConfig{
			Enabled: true,
			Volume:  0.6,
			Pulse:   60 * time.Millisecond,
			PulseHz: 180,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Screenshots: ScreenshotConfig{
			Dir: "screenshots",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	v := c.Viewer
	if v.MinFOV <= 0 || v.MaxFOV >= 180 || v.MinFOV >= v.MaxFOV {
		errs = append(errs, fmt.Errorf("fov range [%g, %g] must satisfy 0 < min < max < 180", v.MinFOV, v.MaxFOV))
	}
	if v.InitialFOV < v.MinFOV || v.InitialFOV > v.MaxFOV {
		errs = append(errs, fmt.Errorf("initial fov %g outside [%g, %g]", v.InitialFOV, v.MinFOV, v.MaxFOV))
	}
	if v.PitchLimit <= 0 || v.PitchLimit >= 1.5708 {
		errs = append(errs, fmt.Errorf("pitch limit %g must be in (0, pi/2)", v.PitchLimit))
	}
	if v.SphereRadius <= 0 {
		errs = append(errs, fmt.Errorf("sphere radius %g must be positive", v.SphereRadius))
	}
	if v.SphereSegments < 3 {
		errs = append(errs, fmt.Errorf("sphere segments %d must be at least 3", v.SphereSegments))
	}
	if v.WheelZoomStep <= 1 {
		errs = append(errs, fmt.Errorf("wheel zoom step %g must be greater than 1", v.WheelZoomStep))
	}
	if c.Feedback.Volume < 0 || c.Feedback.Volume > 1 {
		errs = append(errs, fmt.Errorf("feedback volume %g outside [0, 1]", c.Feedback.Volume))
	}
	return errors.Join(errs...)
}
