// Command align-report loads a recording range and reports how closely the
// detection stream lines up with the lidar stream.
//
// Usage:
//
//	go run ./cmd/tools/align-report -dir ./data/sample -start 25-03-14-09-30-00 -end 25-03-14-09-35-00 -plot offsets.png
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/banshee-data/sensorplay/internal/align"
	"github.com/banshee-data/sensorplay/internal/config"
	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/banshee-data/sensorplay/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a playback config JSON file")
	dir := flag.String("dir", "", "Override the data directory")
	start := flag.String("start", "", "First filename timestamp (inclusive)")
	end := flag.String("end", "", "Last filename timestamp (inclusive)")
	maxDiff := flag.Uint64("max-diff", 0, "Override the match threshold in milliseconds")
	plotPath := flag.String("plot", "", "Write a match-offset plot to this path (.png, .svg or .pdf)")
	quiet := flag.Bool("quiet", false, "Suppress loader logging")
	flag.Parse()

	if *start == "" || *end == "" {
		log.Fatal("both -start and -end are required")
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.EmptyPlaybackConfig()
	if *configPath != "" {
		loaded, err := config.LoadPlaybackConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *dir != "" {
		cfg = cfg.WithDataDir(*dir)
	}
	if *maxDiff > 0 {
		cfg = cfg.WithMaxMatchDiffMs(*maxDiff)
	}

	sess, err := session.Open(cfg, *start, *end, nil)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}

	printReport(os.Stdout, sess)

	if *plotPath != "" {
		if err := align.PlotOffsets(sess.Data.Nearest, cfg.GetMaxMatchDiffMs(), *plotPath); err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		log.Printf("✓ Plot written: %s", *plotPath)
	}
}

// printReport writes per-file decode results followed by the alignment
// summary and the object frames that found no lidar frame.
func printReport(w io.Writer, sess *session.Session) {
	fmt.Fprintf(w, "Session %s\n", sess.ID)
	fmt.Fprintln(w, "Files:")
	for _, reports := range [][]frames.FileReport{sess.LidarReports, sess.ObjectReports} {
		for _, r := range reports {
			fmt.Fprintf(w, "  %-6s %s: %d loaded, %d skipped", r.Kind, r.Path, r.Loaded, r.Skipped())
			switch {
			case r.OpenErr != nil:
				fmt.Fprintf(w, " (open failed: %v)", r.OpenErr)
			case r.Stop != nil:
				fmt.Fprintf(w, " (stopped: %v)", r.Stop)
			}
			fmt.Fprintln(w)
		}
	}

	d := sess.Data
	s := sess.Summary()
	fmt.Fprintf(w, "Lidar frames:  %d\n", len(d.Lidar))
	fmt.Fprintf(w, "Object frames: %d\n", len(d.Objects))
	fmt.Fprintf(w, "Timeline:      %d entries\n", len(d.Timeline))
	fmt.Fprintln(w, s)

	if s.Unmatched == 0 {
		return
	}
	fmt.Fprintln(w, "Unmatched object frames:")
	for i, m := range d.Nearest {
		if m.Matched() {
			continue
		}
		if m.Diff == math.MaxUint64 {
			fmt.Fprintf(w, "  #%d time=%d (no lidar frames)\n", i, d.Objects[i].Timestamp)
			continue
		}
		fmt.Fprintf(w, "  #%d time=%d nearest lidar %dms away\n", i, d.Objects[i].Timestamp, m.Diff)
	}
}
