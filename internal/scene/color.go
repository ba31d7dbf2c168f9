package scene

import "fmt"

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float32
}

func (c Color) String() string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", c.R, c.G, c.B)
}

// Named palette colors.
var (
	Red        = Color{1, 0, 0}
	Orange     = Color{1, 0.65, 0}
	Yellow     = Color{1, 1, 0}
	Pink       = Color{1, 0.75, 0.8}
	DarkViolet = Color{0.58, 0, 0.83}
	Magenta    = Color{1, 0, 1}
	Aqua       = Color{0, 1, 1}
	Gray       = Color{0.6, 0.6, 0.6}
)

// Palette is the cycle of colors handed out to detection classes.
var Palette = []Color{Red, Orange, Yellow, Pink, DarkViolet, Magenta, Aqua}

var colorNames = map[Color]string{
	Red:        "red",
	Orange:     "orange",
	Yellow:     "yellow",
	Pink:       "pink",
	DarkViolet: "dark violet",
	Magenta:    "magenta",
	Aqua:       "aqua",
}

// ColorName returns the palette name of c, or "custom".
func ColorName(c Color) string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "custom"
}

// ReflectivityColor maps a lidar return's reflectivity onto a green to blue
// ramp.
func ReflectivityColor(reflectivity uint32) Color {
	sense := float32(reflectivity) / 26.54
	return Color{R: 0, G: 0.973 - sense, B: 0.364 + sense}
}

// ColorContext assigns palette colors to class ids in the order they are
// first seen, cycling through Palette. The zero value is ready to use.
// It is owned by a single renderer and is not safe for concurrent use.
type ColorContext struct {
	assigned map[int32]Color
	next     int
}

// NewColorContext returns an empty context.
func NewColorContext() *ColorContext {
	return &ColorContext{}
}

// ColorFor returns the color for classID, assigning the next palette entry
// on first use.
func (c *ColorContext) ColorFor(classID int32) Color {
	if col, ok := c.assigned[classID]; ok {
		return col
	}
	if c.assigned == nil {
		c.assigned = make(map[int32]Color)
	}
	col := Palette[c.next%len(Palette)]
	c.assigned[classID] = col
	c.next++
	return col
}

// Len returns the number of class ids assigned so far.
func (c *ColorContext) Len() int { return len(c.assigned) }

// Reset forgets every assignment; the next class seen gets Palette[0].
func (c *ColorContext) Reset() {
	c.assigned = nil
	c.next = 0
}
