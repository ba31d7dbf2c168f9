// Command gen-uamlog writes a synthetic lidar (.uld) and detection (.udd)
// recording pair for exercising the loader and player.
//
// Usage:
//
//	go run ./cmd/tools/gen-uamlog -dir ./data/sample -n 300 -corrupt truncated
package main

import (
	"flag"
	"log"
	"time"

	"github.com/banshee-data/sensorplay/internal/fsutil"
)

func main() {
	dir := flag.String("dir", "data/sample", "Output directory")
	stamp := flag.String("stamp", "", "Filename timestamp (default: derived from -start)")
	startMs := flag.Uint64("start", 1_741_944_600_000, "Epoch milliseconds of the first lidar frame")
	n := flag.Int("n", 100, "Number of lidar frames")
	points := flag.Int("points", 2000, "Points per lidar frame")
	every := flag.Int("object-every", 2, "Emit one object frame per this many lidar frames")
	period := flag.Uint64("period", 100, "Lidar frame spacing in milliseconds")
	jitter := flag.Uint64("jitter", 60, "Maximum object frame offset in milliseconds")
	corrupt := flag.String("corrupt", "", "Append a malformed record: sentinel, implausible, truncated or oversized")
	compress := flag.Bool("zstd", false, "Write zstd-compressed files")
	seed := flag.Uint64("seed", 1, "Random seed")
	flag.Parse()

	opts := genOptions{
		Dir:            *dir,
		Stamp:          *stamp,
		Start:          *startMs,
		LidarFrames:    *n,
		PointsPerFrame: *points,
		ObjectEvery:    *every,
		PeriodMs:       *period,
		JitterMs:       *jitter,
		Corrupt:        *corrupt,
		Compress:       *compress,
		Seed:           *seed,
	}
	if opts.Stamp == "" {
		opts.Stamp = time.UnixMilli(int64(opts.Start)).UTC().Format(filenameLayout)
	}

	g := generate(opts)
	if err := write(fsutil.OSFileSystem{}, opts, &g); err != nil {
		log.Fatalf("Failed to write recording: %v", err)
	}
	log.Printf("✓ Created: %s (%d lidar frames)", g.LidarPath, len(g.Lidar))
	log.Printf("✓ Created: %s (%d object frames)", g.ObjectPath, len(g.Objects))
}

// filenameLayout matches the recorder's yy-mm-dd-HH-MM-SS file stamps.
const filenameLayout = "06-01-02-15-04-05"
