package playback

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/sensorplay/internal/align"
	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/banshee-data/sensorplay/internal/timeutil"
)

// Config holds the pacing parameters of a Controller.
type Config struct {
	// BasePeriod is the display period at a speed coefficient of 1.
	BasePeriod   time.Duration
	SpeedStep    float64
	SpeedMin     float64
	SpeedMax     float64
	InitialSpeed float64
}

// DefaultConfig returns 5 Hz playback with a 0.05 coefficient step bounded
// to [0.005, 30].
func DefaultConfig() Config {
	return Config{
		BasePeriod:   200 * time.Millisecond,
		SpeedStep:    0.05,
		SpeedMin:     0.005,
		SpeedMax:     30,
		InitialSpeed: 1,
	}
}

// withDefaults fills every zero field of c from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BasePeriod <= 0 {
		c.BasePeriod = def.BasePeriod
	}
	if c.SpeedStep <= 0 {
		c.SpeedStep = def.SpeedStep
	}
	if c.SpeedMin <= 0 {
		c.SpeedMin = def.SpeedMin
	}
	if c.SpeedMax <= 0 {
		c.SpeedMax = def.SpeedMax
	}
	if c.InitialSpeed <= 0 {
		c.InitialSpeed = def.InitialSpeed
	}
	return c
}

// Frame is what the controller hands to its Sink for one displayed instant.
// Lidar and Object are nil when the instant has no frame of that kind.
type Frame struct {
	Mode Mode
	// Position is the timeline index in ModeTimeline and the lidar index in
	// ModeBinarySearch.
	Position int

	Lidar       *frames.LidarFrame
	LidarIndex  int
	Object      *frames.ObjectFrame
	ObjectIndex int

	// Detail is set when the user asked for the textual description.
	Detail bool
}

// Sink receives every frame the controller displays.
type Sink interface {
	Emit(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

// Emit calls f(fr).
func (f SinkFunc) Emit(fr Frame) { f(fr) }

// State is a snapshot of the controller.
type State struct {
	Mode           Mode
	Transport      Transport
	TimelineCursor int
	LidarCursor    int
	Speed          float64
}

func (s State) String() string {
	return fmt.Sprintf("mode=%s transport=%s timeline=%d lidar=%d speed=%.3f",
		s.Mode, s.Transport, s.TimelineCursor, s.LidarCursor, s.Speed)
}

// Controller is the playback state machine.
type Controller struct {
	data  *Dataset
	cfg   Config
	clock timeutil.Clock
	sink  Sink

	mode           Mode
	transport      Transport
	timelineCursor int
	lidarCursor    int
	speed          float64
	lastAdvance    time.Time
}

// NewController returns a controller positioned at the first timeline entry,
// playing in timeline mode. Zero Config fields take their DefaultConfig
// values. It fails with ErrNoFrames on an empty dataset.
func NewController(data *Dataset, cfg Config, clock timeutil.Clock, sink Sink) (*Controller, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if sink == nil {
		sink = SinkFunc(func(Frame) {})
	}
	c := &Controller{
		data:      data,
		cfg:       cfg,
		clock:     clock,
		sink:      sink,
		mode:      ModeTimeline,
		transport: Playing,
		speed:     clampSpeed(cfg.InitialSpeed, cfg),
	}
	c.lastAdvance = clock.Now()
	return c, nil
}

// State returns the current controller state.
func (c *Controller) State() State {
	return State{
		Mode:           c.mode,
		Transport:      c.transport,
		TimelineCursor: c.timelineCursor,
		LidarCursor:    c.lidarCursor,
		Speed:          c.speed,
	}
}

// Period returns the current automatic advance period.
func (c *Controller) Period() time.Duration {
	return time.Duration(math.Round(float64(c.cfg.BasePeriod) * c.speed))
}

// Start emits the initial frame.
func (c *Controller) Start() {
	c.emit(false)
}

// Tick advances the active cursor by one position when playing and at least
// one period has elapsed since the last advance. The cursor holds at the last
// position. Tick reports whether a frame was emitted.
func (c *Controller) Tick() bool {
	if c.transport != Playing {
		return false
	}
	now := c.clock.Now()
	if now.Sub(c.lastAdvance) < c.Period() {
		return false
	}
	if !c.move(1) {
		return false
	}
	c.lastAdvance = now
	c.emit(false)
	return true
}

// Handle applies one user command. It returns ErrNoLidarFrames when a
// lidar-indexed command cannot be served; the state is left unchanged.
func (c *Controller) Handle(cmd Command) error {
	switch cmd {
	case CmdTogglePlay:
		c.TogglePlay()
	case CmdTimelineMode:
		c.SwitchToTimeline()
	case CmdBinarySearchMode:
		return c.SwitchToBinarySearch()
	case CmdTimelinePrev:
		c.StepTimeline(-1)
	case CmdTimelineNext:
		c.StepTimeline(1)
	case CmdLidarPrev:
		return c.StepLidar(-1)
	case CmdLidarNext:
		return c.StepLidar(1)
	case CmdSlower:
		c.AdjustSpeed(c.cfg.SpeedStep)
	case CmdFaster:
		c.AdjustSpeed(-c.cfg.SpeedStep)
	case CmdShowDetail:
		c.emit(true)
	default:
		return fmt.Errorf("playback: unknown command %s", cmd)
	}
	return nil
}

// TogglePlay flips the transport. Resuming restarts the advance timer so a
// long pause does not cause an immediate jump.
func (c *Controller) TogglePlay() {
	if c.transport == Playing {
		c.transport = Paused
	} else {
		c.transport = Playing
		c.lastAdvance = c.clock.Now()
	}
	monitoring.Logf("[playback] %s", c.transport)
}

// StepTimeline moves the timeline cursor by delta, clamped, in timeline mode,
// and pauses.
func (c *Controller) StepTimeline(delta int) {
	c.mode = ModeTimeline
	c.transport = Paused
	c.move(delta)
	monitoring.Logf("[playback] timeline_idx = %d", c.timelineCursor)
	c.emit(false)
}

// StepLidar moves the lidar cursor by delta, clamped, in binary-search mode,
// and pauses.
func (c *Controller) StepLidar(delta int) error {
	if len(c.data.Lidar) == 0 {
		monitoring.Logf("[playback] ignoring lidar step: %v", ErrNoLidarFrames)
		return ErrNoLidarFrames
	}
	c.mode = ModeBinarySearch
	c.transport = Paused
	c.move(delta)
	monitoring.Logf("[playback] lidar_idx = %d", c.lidarCursor)
	c.emit(false)
	return nil
}

// AdjustSpeed adds delta to the speed coefficient, saturating at the
// configured bounds. A larger coefficient means slower playback.
func (c *Controller) AdjustSpeed(delta float64) {
	next := clampSpeed(c.speed+delta, c.cfg)
	if next == c.speed {
		return
	}
	c.speed = next
	monitoring.Logf("[playback] speed coefficient = %.3f (period %s)", c.speed, c.Period())
}

// SwitchToTimeline moves to the timeline entry closest in time to the
// displayed lidar frame. It does nothing when already in timeline mode.
func (c *Controller) SwitchToTimeline() {
	if c.mode == ModeTimeline {
		return
	}
	ts := c.data.Lidar[c.lidarCursor].Timestamp
	c.timelineCursor = c.data.closestTimelineEntry(ts)
	c.mode = ModeTimeline
	c.transport = Paused
	monitoring.Logf("[playback] switched to timeline mode at entry %d", c.timelineCursor)
	c.emit(false)
}

// SwitchToBinarySearch moves to the lidar frame closest in time to the
// displayed timeline entry. It does nothing when already in binary-search
// mode and fails with ErrNoLidarFrames when there are no lidar frames.
func (c *Controller) SwitchToBinarySearch() error {
	if c.mode == ModeBinarySearch {
		return nil
	}
	if len(c.data.Lidar) == 0 {
		monitoring.Logf("[playback] staying in timeline mode: %v", ErrNoLidarFrames)
		return ErrNoLidarFrames
	}
	ts := c.data.timelineTimestamp(c.timelineCursor)
	c.lidarCursor = c.data.closestLidarFrame(ts)
	c.mode = ModeBinarySearch
	c.transport = Paused
	monitoring.Logf("[playback] switched to binary-search mode at lidar frame %d", c.lidarCursor)
	c.emit(false)
	return nil
}

// move shifts the active cursor by delta within its bounds and reports
// whether it changed.
func (c *Controller) move(delta int) bool {
	cursor, n := &c.timelineCursor, len(c.data.Timeline)
	if c.mode == ModeBinarySearch {
		cursor, n = &c.lidarCursor, len(c.data.Lidar)
	}
	next := clampIndex(*cursor+delta, n)
	if next == *cursor {
		return false
	}
	*cursor = next
	return true
}

// Current builds the frame for the active position.
func (c *Controller) Current() Frame {
	fr := Frame{Mode: c.mode, LidarIndex: align.Unmatched, ObjectIndex: align.Unmatched}
	d := c.data

	if c.mode == ModeBinarySearch {
		fr.Position = c.lidarCursor
		fr.LidarIndex = c.lidarCursor
		fr.Lidar = &d.Lidar[c.lidarCursor]
		if oi := d.ObjectForLidar(c.lidarCursor); oi != align.Unmatched {
			fr.ObjectIndex = oi
			fr.Object = &d.Objects[oi]
		}
		return fr
	}

	fr.Position = c.timelineCursor
	entry := d.Timeline[c.timelineCursor]
	if entry.Kind == frames.KindLidar {
		fr.LidarIndex = entry.Index
		fr.Lidar = &d.Lidar[entry.Index]
		return fr
	}
	fr.ObjectIndex = entry.Index
	fr.Object = &d.Objects[entry.Index]
	if li := d.PrecedingLidar(c.timelineCursor, fr.Object.Timestamp); li != align.Unmatched {
		fr.LidarIndex = li
		fr.Lidar = &d.Lidar[li]
	}
	return fr
}

func (c *Controller) emit(detail bool) {
	fr := c.Current()
	fr.Detail = detail
	c.sink.Emit(fr)
}

func clampIndex(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampSpeed(v float64, cfg Config) float64 {
	if v < cfg.SpeedMin {
		return cfg.SpeedMin
	}
	if v > cfg.SpeedMax {
		return cfg.SpeedMax
	}
	return v
}
