package align

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/testutil"
)

func lid(i int) Entry { return Entry{Kind: frames.KindLidar, Index: i} }
func obj(i int) Entry { return Entry{Kind: frames.KindObject, Index: i} }

func TestBuildTimeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lidar   []uint64
		objects []uint64
		want    Timeline
	}{
		{
			name:    "interleaved",
			lidar:   testutil.Offsets(0, 100, 200),
			objects: testutil.Offsets(50, 150),
			want:    Timeline{lid(0), obj(0), lid(1), obj(1), lid(2)},
		},
		{
			name:    "object first on equal timestamps",
			lidar:   testutil.Offsets(0, 100),
			objects: testutil.Offsets(0, 100),
			want:    Timeline{obj(0), lid(0), obj(1), lid(1)},
		},
		{
			name:    "zero timestamp objects dropped",
			lidar:   testutil.Offsets(0, 100, 200),
			objects: append([]uint64{0}, testutil.Offsets(100, 150)...),
			want:    Timeline{lid(0), obj(1), lid(1), obj(2), lid(2)},
		},
		{
			name:    "lidar drained after objects end",
			lidar:   testutil.Offsets(0, 100, 200),
			objects: testutil.Offsets(10),
			want:    Timeline{lid(0), obj(0), lid(1), lid(2)},
		},
		{
			name:    "no lidar",
			objects: testutil.Offsets(10, 20),
			want:    Timeline{obj(0), obj(1)},
		},
		{
			name:  "no objects",
			lidar: testutil.Offsets(10, 20),
			want:  Timeline{lid(0), lid(1)},
		},
		{
			name: "both empty",
			want: Timeline{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lidar := testutil.LidarFrames(tt.lidar...)
			objects := testutil.ObjectFrames(tt.objects...)
			got := BuildTimeline(lidar, objects)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildTimeline() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildTimelineOrderingAndCount(t *testing.T) {
	t.Parallel()

	lidar := testutil.LidarFrames(testutil.Offsets(0, 100, 200, 300, 400, 500)...)
	objects := testutil.ObjectFrames(append([]uint64{0, 0}, testutil.Offsets(30, 130, 130, 330, 700)...)...)
	tl := BuildTimeline(lidar, objects)

	assert.Len(t, tl, len(lidar)+len(objects)-2)
	for i := 1; i < len(tl); i++ {
		prev := tl.Timestamp(i-1, lidar, objects)
		cur := tl.Timestamp(i, lidar, objects)
		if cur < prev {
			t.Errorf("timeline not ordered at %d: %d after %d", i, cur, prev)
		}
	}
	assert.Equal(t, obj(6), tl[len(tl)-1])
}

func TestTimelineDescribe(t *testing.T) {
	t.Parallel()

	lidar := testutil.LidarFrames(testutil.Offsets(0)...)
	objects := testutil.ObjectFrames(testutil.Offsets(5)...)
	out := BuildTimeline(lidar, objects).Describe(lidar, objects, time.UTC)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"[0] lid idx = 0, time = 1700000000000 / 2023-11-14 22:13:20.000",
		"[1] obj idx = 0, time = 1700000000005 / 2023-11-14 22:13:20.005",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}
}
