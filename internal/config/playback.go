package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/sensorplay/internal/units"
)

// DefaultConfigPath is the path to the canonical playback defaults file.
const DefaultConfigPath = "config/playback.defaults.json"

// PlaybackConfig represents the root configuration for a replay session.
// Every field is optional; the Get* accessors supply defaults for fields
// that are absent from the JSON file.
type PlaybackConfig struct {
	// File selection
	DataDir         *string `json:"data_dir,omitempty"`
	LidarExtension  *string `json:"lidar_extension,omitempty"`
	ObjectExtension *string `json:"object_extension,omitempty"`
	LidarPrefix     *string `json:"lidar_prefix,omitempty"`
	ObjectPrefix    *string `json:"object_prefix,omitempty"`

	// Transport
	FrameRateHz  *float64 `json:"frame_rate_hz,omitempty"`
	SpeedStep    *float64 `json:"speed_step,omitempty"`
	SpeedMin     *float64 `json:"speed_min,omitempty"`
	SpeedMax     *float64 `json:"speed_max,omitempty"`
	InitialSpeed *float64 `json:"initial_speed,omitempty"`

	// Alignment
	MaxMatchDiffMs *uint64 `json:"max_match_diff_ms,omitempty"`

	// Display
	DisplayTimezone *string `json:"display_timezone,omitempty"`
}

// EmptyPlaybackConfig returns a PlaybackConfig with all fields set to nil.
func EmptyPlaybackConfig() *PlaybackConfig {
	return &PlaybackConfig{}
}

// LoadPlaybackConfig loads a PlaybackConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the JSON file fall back to their defaults, so partial configs are safe.
func LoadPlaybackConfig(path string) (*PlaybackConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPlaybackConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching upward from the
// current directory. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *PlaybackConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/*
	}
	for _, path := range candidates {
		if cfg, err := LoadPlaybackConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *PlaybackConfig) Validate() error {
	if c.FrameRateHz != nil && *c.FrameRateHz <= 0 {
		return fmt.Errorf("frame_rate_hz must be positive, got %f", *c.FrameRateHz)
	}
	if c.SpeedStep != nil && *c.SpeedStep <= 0 {
		return fmt.Errorf("speed_step must be positive, got %f", *c.SpeedStep)
	}
	if c.SpeedMin != nil && *c.SpeedMin <= 0 {
		return fmt.Errorf("speed_min must be positive, got %f", *c.SpeedMin)
	}

	lo, hi := c.GetSpeedMin(), c.GetSpeedMax()
	if lo > hi {
		return fmt.Errorf("speed_min (%f) must not exceed speed_max (%f)", lo, hi)
	}
	if c.InitialSpeed != nil {
		if s := *c.InitialSpeed; s < lo || s > hi {
			return fmt.Errorf("initial_speed must be between %f and %f, got %f", lo, hi, s)
		}
	}

	if c.LidarExtension != nil && c.ObjectExtension != nil && *c.LidarExtension == *c.ObjectExtension {
		return fmt.Errorf("lidar_extension and object_extension must differ, both are %q", *c.LidarExtension)
	}

	if c.DisplayTimezone != nil && *c.DisplayTimezone != "Local" && !units.IsTimezoneValid(*c.DisplayTimezone) {
		return fmt.Errorf("invalid display_timezone %q", *c.DisplayTimezone)
	}

	return nil
}

// GetDataDir returns the data_dir value or the default.
func (c *PlaybackConfig) GetDataDir() string {
	if c.DataDir == nil || *c.DataDir == "" {
		return "../../data/uam_data"
	}
	return *c.DataDir
}

// GetLidarExtension returns the lidar_extension value or the default.
func (c *PlaybackConfig) GetLidarExtension() string {
	if c.LidarExtension == nil {
		return "uld"
	}
	return *c.LidarExtension
}

// GetObjectExtension returns the object_extension value or the default.
func (c *PlaybackConfig) GetObjectExtension() string {
	if c.ObjectExtension == nil {
		return "udd"
	}
	return *c.ObjectExtension
}

// GetLidarPrefix returns the lidar_prefix value or the default.
func (c *PlaybackConfig) GetLidarPrefix() string {
	if c.LidarPrefix == nil {
		return "lidar_0_"
	}
	return *c.LidarPrefix
}

// GetObjectPrefix returns the object_prefix value or the default.
func (c *PlaybackConfig) GetObjectPrefix() string {
	if c.ObjectPrefix == nil {
		return "detectinfo_"
	}
	return *c.ObjectPrefix
}

// GetFrameRateHz returns the frame_rate_hz value or the default.
func (c *PlaybackConfig) GetFrameRateHz() float64 {
	if c.FrameRateHz == nil {
		return 5
	}
	return *c.FrameRateHz
}

// GetBaseFramePeriod returns the automatic-advance period at speed 1.0.
func (c *PlaybackConfig) GetBaseFramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.GetFrameRateHz())
}

// GetSpeedStep returns the speed_step value or the default.
func (c *PlaybackConfig) GetSpeedStep() float64 {
	if c.SpeedStep == nil {
		return 0.05
	}
	return *c.SpeedStep
}

// GetSpeedMin returns the speed_min value or the default.
func (c *PlaybackConfig) GetSpeedMin() float64 {
	if c.SpeedMin == nil {
		return 0.005
	}
	return *c.SpeedMin
}

// GetSpeedMax returns the speed_max value or the default.
func (c *PlaybackConfig) GetSpeedMax() float64 {
	if c.SpeedMax == nil {
		return 30.0
	}
	return *c.SpeedMax
}

// GetInitialSpeed returns the initial_speed value or the default.
func (c *PlaybackConfig) GetInitialSpeed() float64 {
	if c.InitialSpeed == nil {
		return 1.0
	}
	return *c.InitialSpeed
}

// GetMaxMatchDiffMs returns the max_match_diff_ms value or the default.
func (c *PlaybackConfig) GetMaxMatchDiffMs() uint64 {
	if c.MaxMatchDiffMs == nil {
		return 100
	}
	return *c.MaxMatchDiffMs
}

// GetDisplayTimezone returns the display_timezone value or the default.
func (c *PlaybackConfig) GetDisplayTimezone() string {
	if c.DisplayTimezone == nil || *c.DisplayTimezone == "" {
		return "Local"
	}
	return *c.DisplayTimezone
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// WithDataDir returns a copy of c with data_dir overridden. CLI flags use
// the With* helpers to layer over the file config.
func (c *PlaybackConfig) WithDataDir(dir string) *PlaybackConfig {
	out := *c
	out.DataDir = ptrString(dir)
	return &out
}

// WithFrameRateHz returns a copy of c with frame_rate_hz overridden.
func (c *PlaybackConfig) WithFrameRateHz(hz float64) *PlaybackConfig {
	out := *c
	out.FrameRateHz = ptrFloat64(hz)
	return &out
}

// WithMaxMatchDiffMs returns a copy of c with max_match_diff_ms overridden.
func (c *PlaybackConfig) WithMaxMatchDiffMs(ms uint64) *PlaybackConfig {
	out := *c
	out.MaxMatchDiffMs = ptrUint64(ms)
	return &out
}
