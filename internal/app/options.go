package app

import (
	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/engine/camera"
	"github.com/Faultbox/panoview/internal/engine/gesture"
	"github.com/Faultbox/panoview/internal/engine/model"
	"github.com/Faultbox/panoview/internal/panorama"
	"github.com/Faultbox/panoview/pkg/math"
)

// ViewConfig maps viewer settings onto the panorama view.
func ViewConfig(v config.ViewerConfig) panorama.Config {
	return panorama.Config{
		Sensitivity: math.Vec2{X: v.PanSensitivity[0], Y: v.PanSensitivity[1]},
		InitialFOV:  v.InitialFOV,
		Limits: camera.Limits{
			PitchLimit: v.PitchLimit,
			MinFOV:     v.MinFOV,
			MaxFOV:     v.MaxFOV,
		},
		Sphere:        model.Sphere{Radius: v.SphereRadius, Segments: v.SphereSegments},
		WheelZoomStep: v.WheelZoomStep,
	}
}

// GestureConfig maps viewer settings onto the gesture recognizer. Zero
// values fall back to the recognizer defaults.
func GestureConfig(v config.ViewerConfig) gesture.Config {
	cfg := gesture.DefaultConfig()
	if v.TapSlop > 0 {
		cfg.Slop = v.TapSlop
	}
	if v.LongPress > 0 {
		cfg.LongPress = v.LongPress
	}
	return cfg
}
