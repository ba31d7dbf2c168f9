// Package testutil provides shared test utilities and fixtures.
//
// The frame builders produce small, valid lidar and detection streams from
// plain timestamp lists so tests can focus on ordering and matching.
package testutil

import (
	"testing"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/fsutil"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/stretchr/testify/require"
)

// BaseTimestamp is a plausible epoch-millisecond timestamp used by fixtures.
const BaseTimestamp uint64 = 1_700_000_000_000

// MuteLogs silences monitoring.Logf for the duration of the test.
func MuteLogs(t *testing.T) {
	t.Helper()
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = original })
}

// LidarFrames builds one single-point lidar frame per timestamp.
func LidarFrames(timestamps ...uint64) frames.LidarFrames {
	out := make(frames.LidarFrames, len(timestamps))
	for i, ts := range timestamps {
		out[i] = frames.LidarFrame{
			Timestamp: ts,
			Points: []frames.LidarPoint{{
				Position:     frames.Vec3{X: float32(i), Y: 1, Z: 0.5},
				Reflectivity: uint32(i % 256),
				ClusterID:    frames.Unclustered,
			}},
		}
	}
	return out
}

// ObjectFrames builds one object frame per timestamp, each holding a single
// detection whose class id is the frame index modulo 80.
func ObjectFrames(timestamps ...uint64) frames.ObjectFrames {
	out := make(frames.ObjectFrames, len(timestamps))
	for i, ts := range timestamps {
		out[i] = frames.ObjectFrame{
			Timestamp:  ts,
			Detections: []frames.Detection{Detection(int32(i % 80))},
		}
	}
	return out
}

// Detection returns a detection of the given class with a 1m box whose
// nearest corner sits 2m ahead of the sensor.
func Detection(classID int32) frames.Detection {
	return frames.Detection{
		ClassID:  classID,
		Nearest:  frames.Vec3{X: 2, Y: 0, Z: 0},
		Min:      frames.Vec3{X: 2, Y: -0.5, Z: 0},
		Max:      frames.Vec3{X: 3, Y: 0.5, Z: 1},
		Distance: 2,
		Size:     1,
	}
}

// Offsets turns millisecond offsets from BaseTimestamp into timestamps.
func Offsets(ms ...uint64) []uint64 {
	out := make([]uint64, len(ms))
	for i, m := range ms {
		out[i] = BaseTimestamp + m
	}
	return out
}

// WriteRecordings stores encoded lidar and object frames in fsys under the
// given paths.
func WriteRecordings(t *testing.T, fsys fsutil.FileSystem, lidarPath string, lidar frames.LidarFrames, objectPath string, objects frames.ObjectFrames) {
	t.Helper()
	if lidarPath != "" {
		require.NoError(t, fsys.WriteFile(lidarPath, frames.EncodeLidarFrames(lidar), 0o644))
	}
	if objectPath != "" {
		require.NoError(t, fsys.WriteFile(objectPath, frames.EncodeObjectFrames(objects), 0o644))
	}
}
