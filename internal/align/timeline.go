// Package align merges the lidar and detection streams into one timeline and
// pairs every detection frame with its nearest lidar frame.
package align

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/units"
)

// Entry is one position in the merged timeline: a lookup key into either the
// lidar or the object collection.
type Entry struct {
	Kind  frames.Kind
	Index int
}

// Timeline is the chronologically merged sequence of both streams.
type Timeline []Entry

// BuildTimeline merges two ascending collections in one forward pass. On
// equal timestamps the object frame is emitted first. Object frames with a
// zero timestamp are dropped.
func BuildTimeline(lidar frames.LidarFrames, objects frames.ObjectFrames) Timeline {
	out := make(Timeline, 0, len(lidar)+len(objects))
	li, oi := 0, 0
	for li < len(lidar) || oi < len(objects) {
		if oi < len(objects) && (li >= len(lidar) || objects[oi].Timestamp <= lidar[li].Timestamp) {
			if objects[oi].Timestamp == 0 {
				oi++
				continue
			}
			out = append(out, Entry{Kind: frames.KindObject, Index: oi})
			oi++
			continue
		}
		out = append(out, Entry{Kind: frames.KindLidar, Index: li})
		li++
	}
	return out
}

// Timestamp resolves the timestamp of entry i.
func (t Timeline) Timestamp(i int, lidar frames.LidarFrames, objects frames.ObjectFrames) uint64 {
	e := t[i]
	if e.Kind == frames.KindLidar {
		return lidar[e.Index].Timestamp
	}
	return objects[e.Index].Timestamp
}

// Describe renders one line per entry: position, kind, index and time.
func (t Timeline) Describe(lidar frames.LidarFrames, objects frames.ObjectFrames, loc *time.Location) string {
	var b strings.Builder
	for i, e := range t {
		ts := t.Timestamp(i, lidar, objects)
		tag := "lid"
		if e.Kind == frames.KindObject {
			tag = "obj"
		}
		fmt.Fprintf(&b, "[%d] %s idx = %d, time = %d / %s\n", i, tag, e.Index, ts, units.FormatUnixMillis(ts, loc))
	}
	return b.String()
}
