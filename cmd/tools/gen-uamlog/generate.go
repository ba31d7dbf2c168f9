package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/fsutil"
)

// Corruption modes appended after the well-formed records.
const (
	CorruptNone        = ""
	CorruptSentinel    = "sentinel"    // zero-count record, skipped
	CorruptImplausible = "implausible" // timestamp 1, skipped
	CorruptTruncated   = "truncated"   // payload shorter than its count, ends the file
	CorruptOversized   = "oversized"   // object count above the ceiling, ends the file
)

// genOptions describes one synthetic recording.
type genOptions struct {
	Dir            string
	Stamp          string // filename timestamp, e.g. 25-03-14-09-30-00
	Start          uint64 // epoch ms of the first lidar frame
	LidarFrames    int
	PointsPerFrame int
	ObjectEvery    int    // one object frame per this many lidar frames
	PeriodMs       uint64 // lidar frame spacing
	JitterMs       uint64 // maximum object offset from its lidar frame
	Corrupt        string
	Compress       bool
	Seed           uint64
}

type generated struct {
	LidarPath, ObjectPath string
	Lidar                 frames.LidarFrames
	Objects               frames.ObjectFrames
}

func generate(opts genOptions) generated {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	var out generated

	every := max(opts.ObjectEvery, 1)
	for i := 0; i < opts.LidarFrames; i++ {
		ts := opts.Start + uint64(i)*opts.PeriodMs
		out.Lidar = append(out.Lidar, lidarFrame(rng, ts, opts.PointsPerFrame, i))

		if i%every != 0 {
			continue
		}
		jitter := uint64(0)
		if opts.JitterMs > 0 {
			jitter = rng.Uint64N(opts.JitterMs + 1)
		}
		out.Objects = append(out.Objects, objectFrame(rng, ts+jitter))
	}
	return out
}

func lidarFrame(rng *rand.Rand, ts uint64, n, frame int) frames.LidarFrame {
	pts := make([]frames.LidarPoint, n)
	for j := range pts {
		theta := 2 * math.Pi * float64(j) / float64(max(n, 1))
		r := 5 + 3*rng.Float64()
		cluster := frames.Unclustered
		if j%7 == 0 {
			cluster = int32(frame % 5)
		}
		pts[j] = frames.LidarPoint{
			Position:     frames.Vec3{X: float32(r * math.Cos(theta)), Y: float32(r * math.Sin(theta)), Z: float32(rng.Float64())},
			Reflectivity: rng.Uint32N(256),
			ClusterID:    cluster,
		}
	}
	return frames.LidarFrame{Timestamp: ts, Points: pts}
}

var sampleClasses = []int32{0, 1, 2, 3, 5, 7, 9, 11}

func objectFrame(rng *rand.Rand, ts uint64) frames.ObjectFrame {
	n := 1 + rng.IntN(3)
	dets := make([]frames.Detection, 0, n+1)
	for range n {
		x := float32(2 + 10*rng.Float64())
		y := float32(-4 + 8*rng.Float64())
		w := float32(0.5 + rng.Float64())
		h := float32(0.5 + 1.5*rng.Float64())
		lo := frames.Vec3{X: x, Y: y - w/2, Z: 0}
		hi := frames.Vec3{X: x + w, Y: y + w/2, Z: h}
		dist := float32(math.Hypot(float64(x), float64(y)))
		dets = append(dets, frames.Detection{
			ClassID:  sampleClasses[rng.IntN(len(sampleClasses))],
			Nearest:  frames.Vec3{X: x, Y: y, Z: h / 2},
			Min:      lo,
			Max:      hi,
			Distance: dist,
			Size:     w * w * h,
		})
	}
	// An unclassified detection, which renderers skip.
	dets = append(dets, frames.Detection{ClassID: frames.NoClass})
	return frames.ObjectFrame{Timestamp: ts, Detections: dets}
}

// appendCorruption appends a malformed record of the given mode to an
// encoded stream.
func appendCorruption(buf []byte, mode string, kind frames.Kind, ts uint64) ([]byte, error) {
	switch mode {
	case CorruptNone:
		return buf, nil
	case CorruptSentinel:
		return frames.AppendRecordHeader(buf, ts, 0), nil
	case CorruptImplausible:
		buf = frames.AppendRecordHeader(buf, 1, 1)
		if kind == frames.KindLidar {
			return frames.AppendLidarPoints(buf, []frames.LidarPoint{{}}), nil
		}
		return frames.AppendDetections(buf, []frames.Detection{{}}), nil
	case CorruptTruncated:
		buf = frames.AppendRecordHeader(buf, ts, 5)
		if kind == frames.KindLidar {
			return frames.AppendLidarPoints(buf, []frames.LidarPoint{{}}), nil
		}
		return frames.AppendDetections(buf, []frames.Detection{{}}), nil
	case CorruptOversized:
		if kind == frames.KindLidar {
			return buf, nil
		}
		return frames.AppendRecordHeader(buf, ts, frames.MaxObjectCount+1), nil
	default:
		return nil, fmt.Errorf("unknown corruption mode %q", mode)
	}
}

// write encodes g into opts.Dir and fills in the output paths.
func write(fsys fsutil.FileSystem, opts genOptions, g *generated) error {
	if err := fsys.MkdirAll(opts.Dir, 0o755); err != nil {
		return err
	}

	last := opts.Start + uint64(opts.LidarFrames)*opts.PeriodMs
	lidar, err := appendCorruption(frames.EncodeLidarFrames(g.Lidar), opts.Corrupt, frames.KindLidar, last)
	if err != nil {
		return err
	}
	objects, err := appendCorruption(frames.EncodeObjectFrames(g.Objects), opts.Corrupt, frames.KindObject, last)
	if err != nil {
		return err
	}

	g.LidarPath = filepath.Join(opts.Dir, "lidar_0_"+opts.Stamp+".uld")
	g.ObjectPath = filepath.Join(opts.Dir, "detectinfo_"+opts.Stamp+".udd")

	if opts.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		defer enc.Close()
		lidar = enc.EncodeAll(lidar, nil)
		objects = enc.EncodeAll(objects, nil)
		g.LidarPath += frames.CompressedSuffix
		g.ObjectPath += frames.CompressedSuffix
	}

	if err := fsys.WriteFile(g.LidarPath, lidar, 0o644); err != nil {
		return err
	}
	return fsys.WriteFile(g.ObjectPath, objects, 0o644)
}
