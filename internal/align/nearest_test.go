package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/sensorplay/internal/testutil"
)

func TestFindClosestLidarFrame(t *testing.T) {
	t.Parallel()

	base := testutil.BaseTimestamp
	tests := []struct {
		name     string
		lidar    []uint64
		ts       uint64
		maxDiff  uint64
		want     Match
		wantDiff uint64
	}{
		{"exact", testutil.Offsets(0, 100, 200), base + 100, 100, Match{Lidar: 1, Diff: 0}, 0},
		{"nearest below", testutil.Offsets(0, 100, 200), base + 130, 100, Match{Lidar: 1, Diff: 30}, 30},
		{"nearest above", testutil.Offsets(0, 100, 200), base + 180, 100, Match{Lidar: 2, Diff: 20}, 20},
		{"before first", testutil.Offsets(0, 100), base - 40, 100, Match{Lidar: 0, Diff: 40}, 40},
		{"after last", testutil.Offsets(0, 100), base + 190, 100, Match{Lidar: 1, Diff: 90}, 90},
		{"at threshold", testutil.Offsets(0), base + 100, 100, Match{Lidar: 0, Diff: 100}, 100},
		{"beyond threshold", testutil.Offsets(0), base + 101, 100, Match{Lidar: Unmatched, Diff: 101}, 101},
		{"equidistant keeps first visited", testutil.Offsets(100, 200, 300), base + 150, 100, Match{Lidar: 1, Diff: 50}, 50},
		{"equidistant pair", testutil.Offsets(100, 200), base + 150, 100, Match{Lidar: 0, Diff: 50}, 50},
		{"duplicates not leftmost", testutil.Offsets(100, 100, 100), base + 100, 100, Match{Lidar: 1, Diff: 0}, 0},
		{"no lidar", nil, base, 100, Match{Lidar: Unmatched, Diff: math.MaxUint64}, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindClosestLidarFrame(tt.ts, testutil.LidarFrames(tt.lidar...), tt.maxDiff)
			if got != tt.want {
				t.Errorf("FindClosestLidarFrame() = %+v, want %+v", got, tt.want)
			}
			if got.Diff != tt.wantDiff {
				t.Errorf("Diff = %d, want %d", got.Diff, tt.wantDiff)
			}
		})
	}
}

func TestBuildNearestMap(t *testing.T) {
	t.Parallel()

	lidar := testutil.LidarFrames(testutil.Offsets(0, 100, 200)...)
	objects := testutil.ObjectFrames(testutil.Offsets(10, 90, 95, 450)...)
	m := BuildNearestMap(objects, lidar, DefaultMaxDiffMs)

	assert.Len(t, m, 4)
	assert.Equal(t, Match{Lidar: 0, Diff: 10}, m[0])
	assert.Equal(t, Match{Lidar: 1, Diff: 10}, m[1])
	assert.Equal(t, Match{Lidar: 1, Diff: 5}, m[2])
	assert.False(t, m[3].Matched())
}

func TestFirstObjectFor(t *testing.T) {
	t.Parallel()

	m := NearestMap{
		{Lidar: 1, Diff: 10},
		{Lidar: 1, Diff: 5},
		{Lidar: Unmatched, Diff: 500},
		{Lidar: 3, Diff: 0},
	}
	got := m.FirstObjectFor(4)
	assert.Equal(t, []int{Unmatched, 0, Unmatched, 3}, got)

	assert.Equal(t, []int{}, NearestMap{}.FirstObjectFor(0))
}
