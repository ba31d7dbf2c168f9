package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/fsutil"
	"github.com/banshee-data/sensorplay/internal/testutil"
)

func testOptions() genOptions {
	return genOptions{
		Dir:            "/out",
		Stamp:          "25-03-14-09-30-00",
		Start:          1_741_944_600_000,
		LidarFrames:    10,
		PointsPerFrame: 16,
		ObjectEvery:    2,
		PeriodMs:       100,
		JitterMs:       40,
		Seed:           7,
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(testOptions())
	b := generate(testOptions())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("generate() differs between runs with the same seed:\n%s", diff)
	}

	assert.Len(t, a.Lidar, 10)
	assert.Len(t, a.Objects, 5)
	for i, o := range a.Objects {
		lidarTS := a.Lidar[2*i].Timestamp
		if o.Timestamp < lidarTS || o.Timestamp > lidarTS+40 {
			t.Errorf("object %d timestamp %d not within jitter of lidar %d", i, o.Timestamp, lidarTS)
		}
		last := o.Detections[len(o.Detections)-1]
		assert.Equal(t, frames.NoClass, last.ClassID)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	testutil.MuteLogs(t)

	for _, compress := range []bool{false, true} {
		opts := testOptions()
		opts.Compress = compress
		fsys := fsutil.NewMemoryFileSystem()
		g := generate(opts)
		require.NoError(t, write(fsys, opts, &g))

		if compress {
			assert.Equal(t, "/out/lidar_0_25-03-14-09-30-00.uld.zst", g.LidarPath)
		} else {
			assert.Equal(t, "/out/detectinfo_25-03-14-09-30-00.udd", g.ObjectPath)
		}

		loader := frames.NewLoader(fsys)
		lidar, report, err := loader.LoadLidarFile(g.LidarPath)
		require.NoError(t, err)
		assert.NoError(t, report.Stop)
		if diff := cmp.Diff([]frames.LidarFrame(g.Lidar), lidar); diff != "" {
			t.Errorf("lidar round trip (compress=%v) mismatch (-want +got):\n%s", compress, diff)
		}

		objects, _, err := loader.LoadObjectFile(g.ObjectPath)
		require.NoError(t, err)
		assert.Len(t, objects, len(g.Objects))
	}
}

func TestWriteCorruption(t *testing.T) {
	testutil.MuteLogs(t)

	tests := []struct {
		mode       string
		lidarStop  error
		objectStop error
		skipped    int
	}{
		{CorruptSentinel, nil, nil, 1},
		{CorruptImplausible, nil, nil, 1},
		{CorruptTruncated, frames.ErrTruncated, frames.ErrTruncated, 0},
		{CorruptOversized, nil, frames.ErrSuspectedCorruption, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			opts := testOptions()
			opts.Corrupt = tt.mode
			fsys := fsutil.NewMemoryFileSystem()
			g := generate(opts)
			require.NoError(t, write(fsys, opts, &g))

			loader := frames.NewLoader(fsys)
			lidar, lr, err := loader.LoadLidarFile(g.LidarPath)
			require.NoError(t, err)
			assert.ErrorIs(t, lr.Stop, tt.lidarStop)
			assert.Len(t, lidar, len(g.Lidar), "well-formed frames survive")
			assert.Equal(t, tt.skipped, lr.Skipped())

			objects, or, err := loader.LoadObjectFile(g.ObjectPath)
			require.NoError(t, err)
			assert.ErrorIs(t, or.Stop, tt.objectStop)
			assert.Len(t, objects, len(g.Objects))
		})
	}
}

func TestWriteUnknownCorruption(t *testing.T) {
	opts := testOptions()
	opts.Corrupt = "bogus"
	g := generate(opts)
	assert.Error(t, write(fsutil.NewMemoryFileSystem(), opts, &g))
}
