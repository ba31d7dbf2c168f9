// Command sensorplay replays recorded lidar and object-detection logs.
//
// It loads every log in the data directory whose timestamp lies in
// [-start, -end], aligns the two streams and plays them back at the
// configured frame rate. Single-key commands are read from stdin (press
// enter after each line):
//
//	p      play/pause
//	o / l  timeline / binary-search mode
//	u / i  previous / next timeline entry
//	j / k  previous / next lidar frame
//	- / +  slower / faster
//	space  print the current frame
//	q      quit
//
// Usage:
//
//	go run ./cmd/sensorplay -start 25-03-14-09-30-00 -end 25-03-14-09-35-00
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/sensorplay/internal/config"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/banshee-data/sensorplay/internal/playback"
	"github.com/banshee-data/sensorplay/internal/scene"
	"github.com/banshee-data/sensorplay/internal/session"
	"github.com/banshee-data/sensorplay/internal/timeutil"
	"github.com/banshee-data/sensorplay/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a playback config JSON file (defaults apply when empty)")
	dataDir     = flag.String("dir", "", "Override the data directory from the config")
	start       = flag.String("start", "", "First timestamp to load, e.g. 25-03-14-09-30-00 (inclusive)")
	end         = flag.String("end", "", "Last timestamp to load (inclusive)")
	maxDiff     = flag.Uint64("max-diff", 0, "Override the lidar match threshold in milliseconds")
	verbose     = flag.Bool("verbose", false, "Log per-record decode diagnostics and the full timeline")
	tick        = flag.Duration("tick", 10*time.Millisecond, "Controller polling interval")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("sensorplay", version.String())
		return
	}
	if *start == "" || *end == "" {
		log.Fatal("both -start and -end are required")
	}
	monitoring.SetVerbose(*verbose)

	cfg := config.EmptyPlaybackConfig()
	if *configPath != "" {
		loaded, err := config.LoadPlaybackConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *dataDir != "" {
		cfg = cfg.WithDataDir(*dataDir)
	}
	if *maxDiff > 0 {
		cfg = cfg.WithMaxMatchDiffMs(*maxDiff)
	}

	sess, err := session.Open(cfg, *start, *end, nil)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	for path, ferr := range sess.FailedFiles() {
		log.Printf("Warning: %s: %v", path, ferr)
	}

	clock := timeutil.RealClock{}
	sink := newConsoleSink(os.Stdout, sess.Location)
	ctrl, err := sess.NewController(clock, sink)
	if err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Print(playback.KeyHelp())
	log.Printf("Playing session %s (%s)", sess.ID, ctrl.State())
	if err := run(ctx, ctrl, clock, *tick, readKeys(os.Stdin)); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
	log.Printf("Stopped at %s", ctrl.State())
}

// run drives ctrl from clock ticks and key presses until ctx is cancelled,
// the key channel closes or 'q' is pressed. Everything touching ctrl happens
// on this goroutine.
func run(ctx context.Context, ctrl *playback.Controller, clock timeutil.Clock, interval time.Duration, keys <-chan rune) error {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	ctrl.Start()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			ctrl.Tick()
		case r, ok := <-keys:
			if !ok || r == 'q' {
				return nil
			}
			cmd, known := playback.ParseKey(r)
			if !known {
				continue
			}
			if err := ctrl.Handle(cmd); err != nil {
				log.Printf("%s: %v", cmd, err)
			}
		}
	}
}

// readKeys forwards every rune read from r, skipping line breaks. The channel
// closes at EOF.
func readKeys(r io.Reader) <-chan rune {
	out := make(chan rune)
	go func() {
		defer close(out)
		br := bufio.NewReader(r)
		for {
			ch, _, err := br.ReadRune()
			if err != nil {
				return
			}
			if ch == '\n' || ch == '\r' {
				continue
			}
			out <- ch
		}
	}()
	return out
}

// consoleSink turns emitted frames into scenes and prints a one-line summary
// for each, plus the full description when detail was requested.
type consoleSink struct {
	w      io.Writer
	loc    *time.Location
	colors *scene.ColorContext
}

func newConsoleSink(w io.Writer, loc *time.Location) *consoleSink {
	return &consoleSink{w: w, loc: loc, colors: scene.NewColorContext()}
}

func (s *consoleSink) Emit(fr playback.Frame) {
	sc := scene.Build(fr, s.colors)
	fmt.Fprintf(s.w, "[%s %d] lidar points=%d detections=%d lines=%d\n",
		fr.Mode, fr.Position, len(sc.LidarPoints), len(sc.Labels), len(sc.Grid)+len(sc.Lines))
	if !fr.Detail {
		return
	}
	fmt.Fprint(s.w, scene.Describe(fr, s.loc))
	for _, l := range sc.Labels {
		for _, line := range l.Lines() {
			fmt.Fprintln(s.w, "  "+line)
		}
	}
}
