package playback

import "fmt"

// Mode selects which cursor drives the display.
type Mode uint8

const (
	// ModeTimeline walks the merged timeline one entry at a time.
	ModeTimeline Mode = iota
	// ModeBinarySearch walks the lidar frames and overlays the object frame
	// paired with each through the nearest map.
	ModeBinarySearch
)

func (m Mode) String() string {
	switch m {
	case ModeTimeline:
		return "timeline"
	case ModeBinarySearch:
		return "binary-search"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Transport is the play/pause state.
type Transport uint8

const (
	Playing Transport = iota
	Paused
)

func (t Transport) String() string {
	switch t {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("Transport(%d)", uint8(t))
	}
}

// Command is a user request handled by Controller.Handle.
type Command uint8

const (
	CmdTogglePlay Command = iota
	CmdTimelineMode
	CmdBinarySearchMode
	CmdTimelinePrev
	CmdTimelineNext
	CmdLidarPrev
	CmdLidarNext
	CmdSlower // raise the speed coefficient
	CmdFaster // lower the speed coefficient
	CmdShowDetail
)

var commandNames = map[Command]string{
	CmdTogglePlay:       "toggle-play",
	CmdTimelineMode:     "timeline-mode",
	CmdBinarySearchMode: "binary-search-mode",
	CmdTimelinePrev:     "timeline-prev",
	CmdTimelineNext:     "timeline-next",
	CmdLidarPrev:        "lidar-prev",
	CmdLidarNext:        "lidar-next",
	CmdSlower:           "slower",
	CmdFaster:           "faster",
	CmdShowDetail:       "show-detail",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// keyBindings maps single-key input to commands.
var keyBindings = map[rune]Command{
	'p': CmdTogglePlay,
	'o': CmdTimelineMode,
	'l': CmdBinarySearchMode,
	'u': CmdTimelinePrev,
	'i': CmdTimelineNext,
	'j': CmdLidarPrev,
	'k': CmdLidarNext,
	'-': CmdSlower,
	'+': CmdFaster,
	' ': CmdShowDetail,
}

// ParseKey maps a key to its command.
func ParseKey(r rune) (Command, bool) {
	cmd, ok := keyBindings[r]
	return cmd, ok
}

// KeyHelp lists the key bindings, one per line.
func KeyHelp() string {
	return "p: play/pause\n" +
		"o: timeline mode\n" +
		"l: binary-search mode\n" +
		"u/i: previous/next timeline entry\n" +
		"j/k: previous/next lidar frame\n" +
		"-/+: slower/faster\n" +
		"space: print current frame detail\n"
}
