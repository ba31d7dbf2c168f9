// Package scene turns displayed frames into drawing primitives and text for a
// renderer. It does not draw anything itself.
package scene

import (
	"fmt"

	"github.com/banshee-data/sensorplay/internal/frames"
	"github.com/banshee-data/sensorplay/internal/playback"
)

// Point is a colored position.
type Point struct {
	Position frames.Vec3
	Color    Color
}

// Line is a colored segment.
type Line struct {
	Start, End frames.Vec3
	Color      Color
}

// Box is an axis-aligned box given by a corner and three edge vectors.
type Box struct {
	Origin              frames.Vec3
	XEdge, YEdge, ZEdge frames.Vec3
	Color               Color
}

// Label is the on-screen text record for one detection.
type Label struct {
	Color    Color
	ClassID  int32
	Label    string
	Min, Max frames.Vec3
	Distance float32
}

// Lines returns the label as the four text rows drawn on screen.
func (l Label) Lines() []string {
	return []string{
		fmt.Sprintf("%s: %s (id=%d)", ColorName(l.Color), l.Label, l.ClassID),
		fmt.Sprintf("min(%s)", l.Min),
		fmt.Sprintf("max(%s)", l.Max),
		fmt.Sprintf("distance=%f", l.Distance),
	}
}

// Ground grid drawn under every scene.
const (
	GridExtent    float32 = 10
	GridDivisions         = 16
	GridZ         float32 = -0.01
)

// Scene is everything a renderer needs for one displayed instant.
type Scene struct {
	Grid         []Line
	LidarPoints  []Point
	ObjectPoints []Point
	Lines        []Line
	Boxes        []Box
	Labels       []Label
}

// Build renders fr on top of the ground grid. Class colors come from ctx,
// which may be nil for a throwaway context.
func Build(fr playback.Frame, ctx *ColorContext) Scene {
	s := Scene{Grid: GridLines(GridExtent, GridDivisions, GridZ)}
	if fr.Lidar != nil {
		s.AddLidar(fr.Lidar)
	}
	if fr.Object != nil {
		if ctx == nil {
			ctx = NewColorContext()
		}
		s.AddObjects(fr.Object, ctx)
	}
	return s
}

// AddLidar appends one point per return, colored by reflectivity.
func (s *Scene) AddLidar(f *frames.LidarFrame) {
	for _, p := range f.Points {
		s.LidarPoints = append(s.LidarPoints, Point{Position: p.Position, Color: ReflectivityColor(p.Reflectivity)})
	}
}

// AddObjects appends the overlay for every classified detection: its three
// reference points, its bounding box, a ray from the sensor origin to the
// nearest point and a label.
func (s *Scene) AddObjects(f *frames.ObjectFrame, ctx *ColorContext) {
	var origin frames.Vec3
	for _, d := range f.Detections {
		if d.ClassID == frames.NoClass {
			continue
		}
		col := ctx.ColorFor(d.ClassID)
		s.ObjectPoints = append(s.ObjectPoints,
			Point{Position: d.Nearest, Color: col},
			Point{Position: d.Min, Color: col},
			Point{Position: d.Max, Color: col},
		)
		s.Boxes = append(s.Boxes, BoxBetween(d.Min, d.Max, col))
		s.Lines = append(s.Lines, Line{Start: origin, End: d.Nearest, Color: col})
		s.Labels = append(s.Labels, Label{
			Color:    col,
			ClassID:  d.ClassID,
			Label:    ClassLabel(d.ClassID),
			Min:      d.Min,
			Max:      d.Max,
			Distance: d.Distance,
		})
	}
}

// BoxBetween returns the axis-aligned box spanning lo to hi.
func BoxBetween(lo, hi frames.Vec3, col Color) Box {
	span := hi.Sub(lo)
	return Box{
		Origin: lo,
		XEdge:  frames.Vec3{X: span.X},
		YEdge:  frames.Vec3{Y: span.Y},
		ZEdge:  frames.Vec3{Z: span.Z},
		Color:  col,
	}
}

// GridLines returns a square ground grid of half-width extent with
// divisions cells per half axis, drawn at height z.
func GridLines(extent float32, divisions int, z float32) []Line {
	if divisions <= 0 {
		return nil
	}
	out := make([]Line, 0, 2*(2*divisions+1))
	for i := -divisions; i <= divisions; i++ {
		off := extent * float32(i) / float32(divisions)
		out = append(out,
			Line{Start: frames.Vec3{X: off, Y: -extent, Z: z}, End: frames.Vec3{X: off, Y: extent, Z: z}, Color: Gray},
			Line{Start: frames.Vec3{X: -extent, Y: off, Z: z}, End: frames.Vec3{X: extent, Y: off, Z: z}, Color: Gray},
		)
	}
	return out
}
