package frames

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/banshee-data/sensorplay/internal/monitoring"
)

// Reasons decoding of a file stopped before the end of its data. They are
// reported in FileReport.Stop and never returned from a load call.
var (
	ErrShortHeader         = errors.New("stream ended inside a record header")
	ErrTruncated           = errors.New("record payload truncated")
	ErrSuspectedCorruption = errors.New("record count exceeds ceiling")
)

// AppendRecordHeader appends a timestamp/count header. The count is written
// as given so callers can produce records whose payload disagrees with it.
func AppendRecordHeader(buf []byte, timestamp uint64, count uint32) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, timestamp)
	return binary.LittleEndian.AppendUint32(buf, count)
}

func appendVec3(buf []byte, v Vec3) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.X))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Y))
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Z))
}

// AppendLidarPoints appends the 20-byte wire form of each point.
func AppendLidarPoints(buf []byte, points []LidarPoint) []byte {
	for _, p := range points {
		buf = appendVec3(buf, p.Position)
		buf = binary.LittleEndian.AppendUint32(buf, p.Reflectivity)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(p.ClusterID))
	}
	return buf
}

// AppendDetections appends the 48-byte wire form of each detection.
func AppendDetections(buf []byte, dets []Detection) []byte {
	for _, d := range dets {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(d.ClassID))
		buf = appendVec3(buf, d.Nearest)
		buf = appendVec3(buf, d.Min)
		buf = appendVec3(buf, d.Max)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(d.Distance))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(d.Size))
	}
	return buf
}

// EncodeLidarFrames serialises frames as consecutive well-formed records.
func EncodeLidarFrames(frames []LidarFrame) []byte {
	var buf []byte
	for _, f := range frames {
		buf = AppendRecordHeader(buf, f.Timestamp, f.Count())
		buf = AppendLidarPoints(buf, f.Points)
	}
	return buf
}

// EncodeObjectFrames serialises frames as consecutive well-formed records.
func EncodeObjectFrames(frames []ObjectFrame) []byte {
	var buf []byte
	for _, f := range frames {
		buf = AppendRecordHeader(buf, f.Timestamp, f.Count())
		buf = AppendDetections(buf, f.Detections)
	}
	return buf
}

func readVec3(b []byte) Vec3 {
	return Vec3{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeLidarFrame(ts uint64, count uint32, payload []byte) LidarFrame {
	points := make([]LidarPoint, count)
	for i := range points {
		b := payload[i*LidarPointSize : (i+1)*LidarPointSize]
		points[i] = LidarPoint{
			Position:     readVec3(b[0:12]),
			Reflectivity: binary.LittleEndian.Uint32(b[12:16]),
			ClusterID:    int32(binary.LittleEndian.Uint32(b[16:20])),
		}
	}
	return LidarFrame{Timestamp: ts, Points: points}
}

func decodeObjectFrame(ts uint64, count uint32, payload []byte) ObjectFrame {
	dets := make([]Detection, count)
	for i := range dets {
		b := payload[i*DetectionSize : (i+1)*DetectionSize]
		dets[i] = Detection{
			ClassID:  int32(binary.LittleEndian.Uint32(b[0:4])),
			Nearest:  readVec3(b[4:16]),
			Min:      readVec3(b[16:28]),
			Max:      readVec3(b[28:40]),
			Distance: readFloat32(b[40:44]),
			Size:     readFloat32(b[44:48]),
		}
	}
	return ObjectFrame{Timestamp: ts, Detections: dets}
}

// recordFormat describes one of the two record layouts.
type recordFormat[T Timestamped] struct {
	kind     Kind
	elemSize int
	maxCount uint32 // 0 disables the corruption ceiling
	build    func(ts uint64, count uint32, payload []byte) T
}

var (
	lidarFormat = recordFormat[LidarFrame]{
		kind:     KindLidar,
		elemSize: LidarPointSize,
		build:    decodeLidarFrame,
	}
	objectFormat = recordFormat[ObjectFrame]{
		kind:     KindObject,
		elemSize: DetectionSize,
		maxCount: MaxObjectCount,
		build:    decodeObjectFrame,
	}
)

// DecodeLidar decodes every retained lidar record in data.
func DecodeLidar(data []byte) ([]LidarFrame, FileReport) {
	return decodeRecords(data, lidarFormat)
}

// DecodeObjects decodes every retained detection record in data.
func DecodeObjects(data []byte) ([]ObjectFrame, FileReport) {
	return decodeRecords(data, objectFormat)
}

// decodeRecords walks data record by record. Sentinel and implausible
// records are skipped along with their payload when it fits; a short header,
// a short payload, or (for detections) an oversized count ends the walk.
func decodeRecords[T Timestamped](data []byte, format recordFormat[T]) ([]T, FileReport) {
	report := FileReport{Kind: format.kind}
	var out []T

	off := 0
	for idx := 0; off < len(data); idx++ {
		if len(data)-off < HeaderSize {
			report.Stop = ErrShortHeader
			monitoring.Logf("[loader] %s idx %d: %v (%d trailing bytes)", format.kind, idx, ErrShortHeader, len(data)-off)
			break
		}
		ts := binary.LittleEndian.Uint64(data[off : off+8])
		count := binary.LittleEndian.Uint32(data[off+8 : off+12])
		off += HeaderSize
		report.Records++

		payloadLen := uint64(count) * uint64(format.elemSize)
		remaining := uint64(len(data) - off)

		skip := ""
		switch {
		case count == 0 || ts == 0:
			report.Sentinel++
			skip = "empty marker"
		case !PlausibleTimestamp(ts):
			report.Implausible++
			skip = "unrealistic time"
		}
		if skip != "" {
			monitoring.Verbosef("[loader] [SKIPPED] %s idx %d (%s): time=%d num=%d", format.kind, idx, skip, ts, count)
			// a count that overruns the data is garbage: resume right after the header
			if payloadLen <= remaining {
				off += int(payloadLen)
			}
			continue
		}

		if format.maxCount > 0 && count > format.maxCount {
			report.Stop = ErrSuspectedCorruption
			monitoring.Logf("[loader] %s idx %d: unreasonably large count %d (max %d), abandoning file", format.kind, idx, count, format.maxCount)
			break
		}

		if payloadLen > remaining {
			report.Stop = ErrTruncated
			monitoring.Logf("[loader] %s idx %d: incomplete data read, want %d bytes, have %d", format.kind, idx, payloadLen, remaining)
			break
		}

		out = append(out, format.build(ts, count, data[off:off+int(payloadLen)]))
		off += int(payloadLen)
		report.Loaded++
		monitoring.Verbosef("[loader] [LOADED] %s idx %d: time=%d num=%d", format.kind, idx, ts, count)
	}

	return out, report
}
