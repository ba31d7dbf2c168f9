package align

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Summary describes how well the detection stream lines up with the lidar
// stream. Offsets are in milliseconds and cover matched frames only.
type Summary struct {
	ObjectFrames int
	Matched      int
	Unmatched    int
	MaxDiffMs    uint64

	MeanOffsetMs   float64
	StdDevOffsetMs float64
	MedianOffsetMs float64
	P95OffsetMs    float64
	WorstOffsetMs  float64
}

// MatchRate returns the fraction of object frames that found a lidar frame.
func (s Summary) MatchRate() float64 {
	if s.ObjectFrames == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.ObjectFrames)
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d object frames matched within %dms (%.1f%%); offset mean=%.1fms sd=%.1fms p50=%.1fms p95=%.1fms max=%.1fms",
		s.Matched, s.ObjectFrames, s.MaxDiffMs, 100*s.MatchRate(),
		s.MeanOffsetMs, s.StdDevOffsetMs, s.MedianOffsetMs, s.P95OffsetMs, s.WorstOffsetMs)
}

// matchedOffsets returns the Diff of every matched entry, ascending.
func (m NearestMap) matchedOffsets() []float64 {
	offsets := make([]float64, 0, len(m))
	for _, match := range m {
		if match.Matched() {
			offsets = append(offsets, float64(match.Diff))
		}
	}
	sort.Float64s(offsets)
	return offsets
}

// Summarize computes offset statistics for a nearest map built with maxDiff.
func Summarize(m NearestMap, maxDiff uint64) Summary {
	s := Summary{ObjectFrames: len(m), MaxDiffMs: maxDiff}
	offsets := m.matchedOffsets()
	s.Matched = len(offsets)
	s.Unmatched = s.ObjectFrames - s.Matched
	if len(offsets) == 0 {
		return s
	}

	s.MeanOffsetMs, s.StdDevOffsetMs = stat.MeanStdDev(offsets, nil)
	if len(offsets) == 1 {
		s.StdDevOffsetMs = 0
	}
	s.MedianOffsetMs = stat.Quantile(0.5, stat.Empirical, offsets, nil)
	s.P95OffsetMs = stat.Quantile(0.95, stat.Empirical, offsets, nil)
	s.WorstOffsetMs = offsets[len(offsets)-1]
	return s
}

// PlotOffsets writes a PNG (or any format vg supports, chosen by the
// extension of path) showing the match offset of each object frame, with
// rejected frames drawn at the threshold in a second colour.
func PlotOffsets(m NearestMap, maxDiff uint64, path string) error {
	p := plot.New()
	p.Title.Text = "Detection to lidar match offset"
	p.X.Label.Text = "Object frame"
	p.Y.Label.Text = "Offset (ms)"

	matched := make(plotter.XYs, 0, len(m))
	rejected := make(plotter.XYs, 0)
	for i, match := range m {
		if match.Matched() {
			matched = append(matched, plotter.XY{X: float64(i), Y: float64(match.Diff)})
		} else {
			rejected = append(rejected, plotter.XY{X: float64(i), Y: float64(maxDiff)})
		}
	}

	if len(matched) > 0 {
		sc, err := plotter.NewScatter(matched)
		if err != nil {
			return fmt.Errorf("matched series: %w", err)
		}
		sc.Color = color.RGBA{R: 0, G: 120, B: 200, A: 255}
		sc.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("matched", sc)
	}
	if len(rejected) > 0 {
		sc, err := plotter.NewScatter(rejected)
		if err != nil {
			return fmt.Errorf("rejected series: %w", err)
		}
		sc.Color = color.RGBA{R: 220, G: 40, B: 40, A: 255}
		sc.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("unmatched", sc)
	}

	if len(m) > 0 {
		limit, err := plotter.NewLine(plotter.XYs{
			{X: 0, Y: float64(maxDiff)},
			{X: float64(len(m) - 1), Y: float64(maxDiff)},
		})
		if err != nil {
			return fmt.Errorf("threshold line: %w", err)
		}
		limit.Color = color.Gray{Y: 120}
		limit.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(limit)
		p.Legend.Add(fmt.Sprintf("threshold %dms", maxDiff), limit)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
