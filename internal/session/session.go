// Package session performs the one-shot startup of a replay: it selects the
// recorded files for a time range, decodes them, aligns the two streams and
// refuses to continue when nothing usable was loaded.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/sensorplay/internal/align"
	"github.com/banshee-data/sensorplay/internal/config"
	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/fsutil"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/banshee-data/sensorplay/internal/playback"
	"github.com/banshee-data/sensorplay/internal/timeutil"
	"github.com/banshee-data/sensorplay/internal/units"
)

// Session is a loaded, aligned recording ready for playback.
type Session struct {
	ID       string
	OpenedAt time.Time

	Config    *config.PlaybackConfig
	Location  *time.Location
	Selection frames.Selection

	LidarReports  []frames.FileReport
	ObjectReports []frames.FileReport

	Data *playback.Dataset
}

// Open loads every file in cfg's data directory whose name falls in
// [start, end] and aligns the result. It returns an error wrapping
// playback.ErrNoFrames when no frame of either kind survived decoding.
// A nil fsys selects the OS filesystem.
func Open(cfg *config.PlaybackConfig, start, end string, fsys fsutil.FileSystem) (*Session, error) {
	if cfg == nil {
		cfg = config.EmptyPlaybackConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if start > end {
		return nil, fmt.Errorf("start %q is after end %q", start, end)
	}
	loc, err := units.LoadDisplayLocation(cfg.GetDisplayTimezone())
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.NewString(),
		OpenedAt: time.Now(),
		Config:   cfg,
		Location: loc,
	}

	s.Selection, err = frames.SelectFiles(fsys, frames.SelectOptions{
		Dir:             cfg.GetDataDir(),
		Start:           start,
		End:             end,
		LidarExtension:  cfg.GetLidarExtension(),
		ObjectExtension: cfg.GetObjectExtension(),
		LidarPrefix:     cfg.GetLidarPrefix(),
		ObjectPrefix:    cfg.GetObjectPrefix(),
	})
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[session %s] selected %d lidar and %d object files from %s (%d ignored)",
		s.ID, len(s.Selection.Lidar), len(s.Selection.Objects), cfg.GetDataDir(), len(s.Selection.Ignored))

	loader := frames.NewLoader(fsys)
	lidar, lidarReports := loader.LoadLidar(s.Selection.Lidar)
	objects, objectReports := loader.LoadObjects(s.Selection.Objects)
	s.LidarReports, s.ObjectReports = lidarReports, objectReports
	monitoring.Logf("[session %s] lidar frames: %d", s.ID, len(lidar))
	monitoring.Logf("[session %s] object frames: %d", s.ID, len(objects))

	s.Data = playback.NewDataset(lidar, objects, cfg.GetMaxMatchDiffMs())
	if err := s.Data.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}

	if monitoring.Verbose() {
		monitoring.Logf("[session %s] timeline:\n%s", s.ID, s.Data.Timeline.Describe(lidar, objects, loc))
	}
	monitoring.Logf("[session %s] %s", s.ID, s.Summary())
	return s, nil
}

// Summary reports how well the object stream matched the lidar stream.
func (s *Session) Summary() align.Summary {
	return align.Summarize(s.Data.Nearest, s.Config.GetMaxMatchDiffMs())
}

// PlaybackConfig converts the session config into controller pacing.
func (s *Session) PlaybackConfig() playback.Config {
	c := s.Config
	return playback.Config{
		BasePeriod:   c.GetBaseFramePeriod(),
		SpeedStep:    c.GetSpeedStep(),
		SpeedMin:     c.GetSpeedMin(),
		SpeedMax:     c.GetSpeedMax(),
		InitialSpeed: c.GetInitialSpeed(),
	}
}

// NewController returns a playback controller over the session's dataset.
func (s *Session) NewController(clock timeutil.Clock, sink playback.Sink) (*playback.Controller, error) {
	return playback.NewController(s.Data, s.PlaybackConfig(), clock, sink)
}

// FailedFiles lists the files that could not be opened or decoded to the
// end, with the reason.
func (s *Session) FailedFiles() map[string]error {
	out := make(map[string]error)
	for _, reports := range [][]frames.FileReport{s.LidarReports, s.ObjectReports} {
		for _, r := range reports {
			switch {
			case r.OpenErr != nil:
				out[r.Path] = r.OpenErr
			case r.Stop != nil:
				out[r.Path] = r.Stop
			}
		}
	}
	return out
}
