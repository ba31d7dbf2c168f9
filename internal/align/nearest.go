package align

import (
	"math"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/units"
)

// DefaultMaxDiffMs is the widest gap, in milliseconds, accepted between a
// detection frame and its matched lidar frame.
const DefaultMaxDiffMs uint64 = 100

// Unmatched marks a detection frame with no lidar frame within the threshold.
const Unmatched = -1

// Match records the closest lidar frame found for one detection frame.
// Diff holds the best difference seen even when the match was rejected;
// it is math.MaxUint64 when there were no lidar frames to search.
type Match struct {
	Lidar int
	Diff  uint64
}

// Matched reports whether the match passed the threshold.
func (m Match) Matched() bool { return m.Lidar != Unmatched }

// NearestMap maps each object frame index to its Match.
type NearestMap []Match

// FindClosestLidarFrame binary-searches lidar, assumed ascending, for the
// frame nearest to ts. The best candidate only changes on a strict
// improvement, so among equidistant frames the one visited first while
// narrowing wins. The match is rejected when the best difference exceeds
// maxDiff.
func FindClosestLidarFrame(ts uint64, lidar frames.LidarFrames, maxDiff uint64) Match {
	left, right := 0, len(lidar)-1
	best := Unmatched
	bestDiff := uint64(math.MaxUint64)

	for left <= right {
		mid := (left + right) / 2
		lt := lidar[mid].Timestamp
		if diff := units.AbsDiff(ts, lt); diff < bestDiff {
			bestDiff = diff
			best = mid
		}
		if lt < ts {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}

	if bestDiff > maxDiff {
		best = Unmatched
	}
	return Match{Lidar: best, Diff: bestDiff}
}

// BuildNearestMap matches every object frame against lidar.
func BuildNearestMap(objects frames.ObjectFrames, lidar frames.LidarFrames, maxDiff uint64) NearestMap {
	out := make(NearestMap, len(objects))
	for i, o := range objects {
		out[i] = FindClosestLidarFrame(o.Timestamp, lidar, maxDiff)
	}
	return out
}

// FirstObjectFor returns, for each lidar index, the lowest object index
// matched to it, or Unmatched.
func (m NearestMap) FirstObjectFor(lidarLen int) []int {
	out := make([]int, lidarLen)
	for i := range out {
		out[i] = Unmatched
	}
	for oi, match := range m {
		if match.Matched() && match.Lidar < lidarLen && out[match.Lidar] == Unmatched {
			out[match.Lidar] = oi
		}
	}
	return out
}
