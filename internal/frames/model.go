package frames

import "fmt"

// Plausible epoch-millisecond range for recorded timestamps. Records outside
// [MinPlausibleTimestamp, MaxPlausibleTimestamp] are skipped during decoding.
const (
	MinPlausibleTimestamp uint64 = 1_600_000_000_000
	MaxPlausibleTimestamp uint64 = 1_900_000_000_000
)

// MaxObjectCount is the largest detection count accepted in one record.
// A larger value is treated as file corruption and ends decoding of that file.
const MaxObjectCount uint32 = 100_000

// Wire sizes in bytes.
const (
	HeaderSize     = 12
	LidarPointSize = 20
	DetectionSize  = 48
)

// Sentinel identifiers carried in the element payloads.
const (
	Unclustered int32 = -1
	NoClass     int32 = -1
)

// Kind distinguishes the two sensor streams.
type Kind uint8

const (
	KindLidar Kind = iota
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindLidar:
		return "lidar"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Vec3 is a position in the sensor frame, in metres.
type Vec3 struct {
	X, Y, Z float32
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("%.4f, %.4f, %.4f", v.X, v.Y, v.Z)
}

// LidarPoint is one return in a point cloud.
type LidarPoint struct {
	Position     Vec3
	Reflectivity uint32
	ClusterID    int32 // Unclustered when the point belongs to no cluster
}

// LidarFrame is one timestamped point cloud.
type LidarFrame struct {
	Timestamp uint64 // epoch milliseconds
	Points    []LidarPoint
}

// Time returns the frame timestamp in epoch milliseconds.
func (f LidarFrame) Time() uint64 { return f.Timestamp }

// Count returns the number of points in the frame.
func (f LidarFrame) Count() uint32 { return uint32(len(f.Points)) }

// Detection is one detected object with its axis-aligned bounds.
type Detection struct {
	ClassID  int32
	Nearest  Vec3
	Min      Vec3
	Max      Vec3
	Distance float32
	Size     float32
}

// ObjectFrame is one timestamped set of detections.
type ObjectFrame struct {
	Timestamp  uint64 // epoch milliseconds
	Detections []Detection
}

// Time returns the frame timestamp in epoch milliseconds.
func (f ObjectFrame) Time() uint64 { return f.Timestamp }

// Count returns the number of detections in the frame.
func (f ObjectFrame) Count() uint32 { return uint32(len(f.Detections)) }

// Timestamped is implemented by both frame kinds.
type Timestamped interface {
	Time() uint64
}

// Collection is an append-ordered sequence of frames of one kind. Frames are
// kept in file-open order, then on-disk record order; callers rely on that
// order being ascending in time and nothing here re-sorts.
type Collection[T Timestamped] []T

// Timestamp returns the timestamp of frame i.
func (c Collection[T]) Timestamp(i int) uint64 { return c[i].Time() }

// Len returns the number of frames.
func (c Collection[T]) Len() int { return len(c) }

// LidarFrames is the lidar frame collection.
type LidarFrames = Collection[LidarFrame]

// ObjectFrames is the detection frame collection.
type ObjectFrames = Collection[ObjectFrame]

// PlausibleTimestamp reports whether ts falls in the accepted recording range.
func PlausibleTimestamp(ts uint64) bool {
	return ts >= MinPlausibleTimestamp && ts <= MaxPlausibleTimestamp
}
