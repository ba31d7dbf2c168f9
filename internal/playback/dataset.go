// Package playback drives the display cursor over a loaded recording.
//
// A Controller owns the only mutable state: the active mode, the transport
// (playing or paused), two cursors and the speed coefficient. The Dataset it
// walks is immutable once built. All methods are expected to be called from a
// single goroutine; the command-line player funnels ticks and commands
// through one select loop.
package playback

import (
	"errors"

	"github.com/banshee-data/sensorplay/internal/align"
	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/units"
)

var (
	// ErrNoFrames is returned when neither stream produced a usable frame.
	ErrNoFrames = errors.New("playback: no frames loaded")
	// ErrNoLidarFrames is returned when a lidar-indexed operation is
	// requested on a recording without lidar frames.
	ErrNoLidarFrames = errors.New("playback: no lidar frames loaded")
)

// Dataset bundles the decoded streams with the structures derived from them.
type Dataset struct {
	Lidar    frames.LidarFrames
	Objects  frames.ObjectFrames
	Timeline align.Timeline
	Nearest  align.NearestMap

	// firstObject[i] is the lowest object index matched to lidar frame i.
	firstObject []int
}

// NewDataset merges the streams and precomputes the nearest map using
// maxDiff milliseconds as the match threshold.
func NewDataset(lidar frames.LidarFrames, objects frames.ObjectFrames, maxDiff uint64) *Dataset {
	nearest := align.BuildNearestMap(objects, lidar, maxDiff)
	return &Dataset{
		Lidar:       lidar,
		Objects:     objects,
		Timeline:    align.BuildTimeline(lidar, objects),
		Nearest:     nearest,
		firstObject: nearest.FirstObjectFor(len(lidar)),
	}
}

// Validate fails with ErrNoFrames when there is nothing to play.
func (d *Dataset) Validate() error {
	if d == nil || len(d.Timeline) == 0 {
		return ErrNoFrames
	}
	return nil
}

// timelineTimestamp returns the timestamp of timeline entry i.
func (d *Dataset) timelineTimestamp(i int) uint64 {
	return d.Timeline.Timestamp(i, d.Lidar, d.Objects)
}

// ObjectForLidar returns the object frame index paired with lidar frame i in
// binary-search mode, or align.Unmatched.
func (d *Dataset) ObjectForLidar(i int) int {
	if i < 0 || i >= len(d.firstObject) {
		return align.Unmatched
	}
	return d.firstObject[i]
}

// PrecedingLidar scans the timeline backward from position pos for the most
// recent lidar entry whose timestamp is at or before ts. It returns the lidar
// index or align.Unmatched.
func (d *Dataset) PrecedingLidar(pos int, ts uint64) int {
	for i := pos - 1; i >= 0; i-- {
		e := d.Timeline[i]
		if e.Kind != frames.KindLidar {
			continue
		}
		if d.Lidar[e.Index].Timestamp <= ts {
			return e.Index
		}
	}
	return align.Unmatched
}

// closestTimelineEntry linearly scans the timeline for the entry nearest ts.
// The first minimum wins.
func (d *Dataset) closestTimelineEntry(ts uint64) int {
	best, bestDiff := 0, ^uint64(0)
	for i := range d.Timeline {
		if diff := units.AbsDiff(ts, d.timelineTimestamp(i)); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// closestLidarFrame linearly scans the lidar frames for the one nearest ts.
// The first minimum wins.
func (d *Dataset) closestLidarFrame(ts uint64) int {
	best, bestDiff := 0, ^uint64(0)
	for i := range d.Lidar {
		if diff := units.AbsDiff(ts, d.Lidar[i].Timestamp); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}
