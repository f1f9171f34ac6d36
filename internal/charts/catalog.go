package charts

import (
	"fmt"
	"image/color"
	"math"

	"bench-graphs/internal/bench"
)

// Catalog returns the five benchmark charts in the order they are generated.
func Catalog() []Spec {
	return []Spec{
		ThreadSpeedupChart(),
		ThreadEfficiencyChart(),
		BlockSizeChart(),
		FileSizeChart(),
		MemoryChart(),
	}
}

// ThreadSpeedupChart plots measured speedup against perfect linear scaling.
func ThreadSpeedupChart() Spec {
	d := bench.ThreadSpeedup.Clone()
	return Spec{
		Name:        "thread_speedup",
		Kind:        Line,
		Title:       "Thread Scaling Performance (70MB File)",
		XLabel:      d.XLabel,
		YLabel:      d.YLabel,
		Data:        d,
		SeriesLabel: "Actual Speedup",
		Color:       Blue,
		Reference: &Reference{
			Label: "Ideal (Linear)",
			Y:     append([]float64(nil), d.X...),
			Color: referenceGray,
		},
		Width:  10,
		Height: 6,
	}
}

// ThreadEfficiencyChart plots parallel efficiency with the 100% line.
func ThreadEfficiencyChart() Spec {
	d := bench.ThreadEfficiency.Clone()
	return Spec{
		Name:   "thread_efficiency",
		Kind:   Line,
		Title:  "Parallel Efficiency vs Thread Count",
		XLabel: d.XLabel,
		YLabel: d.YLabel,
		Data:   d,
		Color:  Magenta,
		HLine: &HLine{
			Label: "100% Efficiency",
			Y:     100,
			Color: referenceGray,
		},
		YRange: &Range{Min: 0, Max: 130},
		Width:  10,
		Height: 6,
	}
}

// BlockSizeChart shows throughput per block size, one labelled bar each.
func BlockSizeChart() Spec {
	d := bench.BlockSizeThroughput.Clone()
	return Spec{
		Name:           "block_size_comparison",
		Kind:           Bar,
		Title:          "Impact of Block Size on Performance",
		XLabel:         d.XLabel,
		YLabel:         d.YLabel,
		Data:           d,
		Color:          Orange,
		BarEdgeWidth:   1,
		ValueFormat:    "%.1f",
		ValueLabelSize: 10,
		Width:          10,
		Height:         6,
	}
}

// FileSizeChart plots throughput as the input grows.
func FileSizeChart() Spec {
	d := bench.FileSizeThroughput.Clone()
	return Spec{
		Name:   "file_size_scaling",
		Kind:   Line,
		Title:  "Throughput vs File Size (16 threads)",
		XLabel: d.XLabel,
		YLabel: d.YLabel,
		Data:   d,
		Color:  Red,
		Width:  10,
		Height: 6,
	}
}

// MemoryChart compares peak memory before and after the buffer rework.
func MemoryChart() Spec {
	d := bench.MemoryUsage.Clone()
	return Spec{
		Name:           "memory_optimization",
		Kind:           Bar,
		Title:          "Memory Optimization Results (281MB File)",
		YLabel:         d.YLabel,
		Data:           d,
		BarColors:      []color.Color{Green, LightLeaf},
		BarEdgeWidth:   2,
		ValueFormat:    "%.0f MB",
		ValueLabelSize: 12,
		Annotations: []Annotation{{
			Text:   ReductionLabel(d.Y[0], d.Y[1]),
			X:      0.8,
			Y:      300,
			ArrowX: 0.5,
			ArrowY: 250,
			Color:  annotationGreen,
		}},
		Width:  8,
		Height: 6,
	}
}

// ReductionLabel renders the drop from before to after as "69% Reduction".
func ReductionLabel(before, after float64) string {
	return fmt.Sprintf("%.0f%% Reduction", math.Round(bench.Reduction(before, after)*100))
}
