package scene

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/playback"
	"github.com/banshee-data/sensorplay/internal/units"
)

// Describe renders the textual detail of a displayed frame, with times shown
// in loc.
//
// In timeline mode only the active entry is described. In binary-search mode
// the lidar frame is followed by its paired object frame, or a note that none
// was mapped.
func Describe(fr playback.Frame, loc *time.Location) string {
	var b strings.Builder

	if fr.Mode == playback.ModeBinarySearch {
		if fr.Lidar != nil {
			writeLidar(&b, fr.LidarIndex, fr.Lidar, loc)
		}
		if fr.Object != nil {
			writeObjects(&b, fr.ObjectIndex, fr.Object, loc)
		} else {
			fmt.Fprintf(&b, "[Object] No object frame mapped to lidar frame %d\n", fr.LidarIndex)
		}
		return b.String()
	}

	switch {
	case fr.Object != nil:
		writeObjects(&b, fr.ObjectIndex, fr.Object, loc)
	case fr.Lidar != nil:
		writeLidar(&b, fr.LidarIndex, fr.Lidar, loc)
	}
	return b.String()
}

func writeLidar(b *strings.Builder, idx int, f *frames.LidarFrame, loc *time.Location) {
	fmt.Fprintf(b, "[Lidar] idx = %d, time = %d (%s), num = %d\n",
		idx, f.Timestamp, units.FormatUnixMillis(f.Timestamp, loc), f.Count())
}

func writeObjects(b *strings.Builder, idx int, f *frames.ObjectFrame, loc *time.Location) {
	fmt.Fprintf(b, "[Object] idx = %d, time = %d (%s), num = %d\n",
		idx, f.Timestamp, units.FormatUnixMillis(f.Timestamp, loc), f.Count())

	ids := make([]string, len(f.Detections))
	for i, d := range f.Detections {
		ids[i] = fmt.Sprint(d.ClassID)
	}
	fmt.Fprintf(b, "obj_id = [ %s ]\n", strings.Join(ids, ", "))

	for _, d := range f.Detections {
		fmt.Fprintf(b, "id=[%d] %s/ nearest(%s), min(%s), max(%s), distance=%g, size=%g\n",
			d.ClassID, ClassLabel(d.ClassID), vec(d.Nearest), vec(d.Min), vec(d.Max), d.Distance, d.Size)
	}
}

func vec(v frames.Vec3) string {
	return fmt.Sprintf("%g, %g, %g", v.X, v.Y, v.Z)
}
