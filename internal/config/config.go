// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Render    RenderConfig    `yaml:"render"`
	Assets    AssetsConfig    `yaml:"assets"`
	Controls  ControlsConfig  `yaml:"controls"`
	Animation AnimationConfig `yaml:"animation"`
	Capture   CaptureConfig   `yaml:"capture"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds rendering settings.
type RenderConfig struct {
	ClearColor     uint32 `yaml:"clear_color"`     // 0xRRGGBB behind the skybox
	Shadows        bool   `yaml:"shadows"`
	ShadowMapSize  int32  `yaml:"shadow_map_size"`
	MaxTextureSize int    `yaml:"max_texture_size"` // larger images are downscaled
	MSAASamples    int    `yaml:"msaa_samples"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	Root string `yaml:"root"` // directory containing skybox/, images/ and Obj/
}

// ControlsConfig holds orbit control tuning shared by both cameras.
type ControlsConfig struct {
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	PanSpeed      float32 `yaml:"pan_speed"`
}

// AnimationConfig holds animation timing.
type AnimationConfig struct {
	TimeScale float64 `yaml:"time_scale"` // radians per elapsed millisecond for the first spinner
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "dualview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			ClearColor:     0xAAAAAA,
			Shadows:        true,
			ShadowMapSize:  2048,
			MaxTextureSize: 4096,
			MSAASamples:    4,
		},
		Assets: AssetsConfig{
			Root: "resources",
		},
		Controls: ControlsConfig{
			DampingFactor: 0.05,
			RotateSpeed:   1.0,
			ZoomSpeed:     1.0,
			PanSpeed:      1.0,
		},
		Animation: AnimationConfig{
			TimeScale: 0.01,
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Prefix: "dualview",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if s := c.Render.ShadowMapSize; s <= 0 || s&(s-1) != 0 {
		errs = append(errs, fmt.Errorf("shadow_map_size %d must be a positive power of two", s))
	}
	if c.Render.MaxTextureSize < 1 {
		errs = append(errs, fmt.Errorf("max_texture_size %d must be at least 1", c.Render.MaxTextureSize))
	}
	if c.Render.MSAASamples < 0 {
		errs = append(errs, fmt.Errorf("msaa_samples %d must not be negative", c.Render.MSAASamples))
	}
	if d := c.Controls.DampingFactor; d < 0 || d > 1 {
		errs = append(errs, fmt.Errorf("damping_factor %v must be within [0, 1]", d))
	}
	if c.Render.ClearColor > 0xFFFFFF {
		errs = append(errs, fmt.Errorf("clear_color %#x is not 0xRRGGBB", c.Render.ClearColor))
	}
	return errors.Join(errs...)
}
