package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmptyPlaybackConfigDefaults(t *testing.T) {
	cfg := EmptyPlaybackConfig()

	if cfg.GetDataDir() != "../../data/uam_data" {
		t.Errorf("GetDataDir() = %q", cfg.GetDataDir())
	}
	if cfg.GetLidarExtension() != "uld" || cfg.GetObjectExtension() != "udd" {
		t.Errorf("extensions = %q/%q, want uld/udd", cfg.GetLidarExtension(), cfg.GetObjectExtension())
	}
	if cfg.GetLidarPrefix() != "lidar_0_" || cfg.GetObjectPrefix() != "detectinfo_" {
		t.Errorf("prefixes = %q/%q", cfg.GetLidarPrefix(), cfg.GetObjectPrefix())
	}
	if cfg.GetBaseFramePeriod() != 200*time.Millisecond {
		t.Errorf("GetBaseFramePeriod() = %v, want 200ms", cfg.GetBaseFramePeriod())
	}
	if cfg.GetSpeedStep() != 0.05 || cfg.GetSpeedMin() != 0.005 || cfg.GetSpeedMax() != 30 {
		t.Errorf("speed bounds = %v/%v/%v", cfg.GetSpeedStep(), cfg.GetSpeedMin(), cfg.GetSpeedMax())
	}
	if cfg.GetInitialSpeed() != 1.0 {
		t.Errorf("GetInitialSpeed() = %v, want 1.0", cfg.GetInitialSpeed())
	}
	if cfg.GetMaxMatchDiffMs() != 100 {
		t.Errorf("GetMaxMatchDiffMs() = %d, want 100", cfg.GetMaxMatchDiffMs())
	}
	if cfg.GetDisplayTimezone() != "Local" {
		t.Errorf("GetDisplayTimezone() = %q, want Local", cfg.GetDisplayTimezone())
	}
}

func TestMustLoadDefaultConfigMatchesAccessorDefaults(t *testing.T) {
	file := MustLoadDefaultConfig()
	empty := EmptyPlaybackConfig()

	if file.GetBaseFramePeriod() != empty.GetBaseFramePeriod() {
		t.Errorf("base period: file %v, defaults %v", file.GetBaseFramePeriod(), empty.GetBaseFramePeriod())
	}
	if file.GetSpeedMax() != empty.GetSpeedMax() || file.GetSpeedMin() != empty.GetSpeedMin() {
		t.Error("speed bounds in defaults file drift from accessor defaults")
	}
	if file.GetMaxMatchDiffMs() != empty.GetMaxMatchDiffMs() {
		t.Error("max_match_diff_ms in defaults file drifts from accessor default")
	}
}

func TestLoadPlaybackConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "playback.json")

	testJSON := `{
  "data_dir": "/srv/uam",
  "frame_rate_hz": 10,
  "speed_max": 4,
  "display_timezone": "UTC"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadPlaybackConfig(configPath)
	if err != nil {
		t.Fatalf("LoadPlaybackConfig() error = %v", err)
	}
	if cfg.GetDataDir() != "/srv/uam" {
		t.Errorf("GetDataDir() = %q, want /srv/uam", cfg.GetDataDir())
	}
	if cfg.GetBaseFramePeriod() != 100*time.Millisecond {
		t.Errorf("GetBaseFramePeriod() = %v, want 100ms", cfg.GetBaseFramePeriod())
	}
	if cfg.GetSpeedMax() != 4 {
		t.Errorf("GetSpeedMax() = %v, want 4", cfg.GetSpeedMax())
	}
	// Omitted fields keep their defaults
	if cfg.GetSpeedStep() != 0.05 {
		t.Errorf("GetSpeedStep() = %v, want default 0.05", cfg.GetSpeedStep())
	}
}

func TestLoadPlaybackConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"zero frame rate", write("rate.json", `{"frame_rate_hz": 0}`), "frame_rate_hz"},
		{"inverted speed bounds", write("bounds.json", `{"speed_min": 5, "speed_max": 1}`), "speed_min"},
		{"initial speed out of range", write("init.json", `{"initial_speed": 99}`), "initial_speed"},
		{"same extensions", write("ext.json", `{"lidar_extension": "bin", "object_extension": "bin"}`), "must differ"},
		{"bad timezone", write("tz.json", `{"display_timezone": "Mars/Olympus"}`), "display_timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlaybackConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	base := EmptyPlaybackConfig()
	cfg := base.WithDataDir("/tmp/x").WithFrameRateHz(20).WithMaxMatchDiffMs(50)

	if cfg.GetDataDir() != "/tmp/x" || cfg.GetBaseFramePeriod() != 50*time.Millisecond || cfg.GetMaxMatchDiffMs() != 50 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if base.DataDir != nil || base.FrameRateHz != nil {
		t.Error("With* helpers mutated the receiver")
	}
}
