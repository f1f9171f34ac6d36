// Package bench holds the measurements of the parallel bzip2 compressor that
// the charts are drawn from. The values are literal benchmark results and are
// kept exactly as measured.
package bench

import (
	"errors"
	"fmt"
	"math"
)

// Dataset is one ordered set of measurements. Either X or Categories names the
// independent variable; Y is the dependent one.
type Dataset struct {
	Name       string    `yaml:"name"`
	XLabel     string    `yaml:"x_label,omitempty"`
	YLabel     string    `yaml:"y_label"`
	X          []float64 `yaml:"x,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
	Y          []float64 `yaml:"y"`
}

// Len returns the number of independent values.
func (d Dataset) Len() int {
	if d.Categories != nil {
		return len(d.Categories)
	}
	return len(d.X)
}

// ShapeError reports a dataset whose series cannot be paired point by point.
type ShapeError struct {
	Dataset string
	Series  string
	XLen    int
	YLen    int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dataset %q: %s has %d values, expected %d", e.Dataset, e.Series, e.YLen, e.XLen)
}

// ErrEmptyDataset is returned for datasets with no points.
var ErrEmptyDataset = errors.New("dataset has no points")

// Validate checks that X (or Categories) and Y pair up and that every value is finite.
func (d Dataset) Validate() error {
	if d.X != nil && d.Categories != nil {
		return fmt.Errorf("dataset %q: both x values and categories are set", d.Name)
	}
	n := d.Len()
	if n == 0 && len(d.Y) == 0 {
		return fmt.Errorf("dataset %q: %w", d.Name, ErrEmptyDataset)
	}
	if len(d.Y) != n {
		return &ShapeError{Dataset: d.Name, Series: "y", XLen: n, YLen: len(d.Y)}
	}
	if err := checkFinite(d.Name, "x", d.X); err != nil {
		return err
	}
	return checkFinite(d.Name, "y", d.Y)
}

func checkFinite(dataset, series string, vs []float64) error {
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("dataset %q: %s[%d] is not a finite number (%v)", dataset, series, i, v)
		}
	}
	return nil
}

// ThreadSpeedup is wall-clock speedup over one thread on the 70MB file.
var ThreadSpeedup = Dataset{
	Name:   "thread_speedup",
	XLabel: "Number of Threads",
	YLabel: "Speedup",
	X:      []float64{1, 2, 4, 8, 16, 32},
	Y:      []float64{1.00, 2.39, 3.91, 7.14, 17.58, 14.75},
}

// ThreadEfficiency is speedup divided by thread count, in percent. The 119.5%
// at two threads is the recorded value.
var ThreadEfficiency = Dataset{
	Name:   "thread_efficiency",
	XLabel: "Number of Threads",
	YLabel: "Efficiency (%)",
	X:      []float64{1, 2, 4, 8, 16, 32},
	Y:      []float64{100.0, 119.5, 97.75, 89.25, 109.875, 46.09},
}

// BlockSizeThroughput is throughput in MB/s per compression block size in KB.
var BlockSizeThroughput = Dataset{
	Name:   "block_size_comparison",
	XLabel: "Block Size (KB)",
	YLabel: "Throughput (MB/s)",
	X:      []float64{100, 300, 500, 900, 2000, 5000},
	Y:      []float64{160.86, 129.05, 128.39, 106.76, 60.78, 62.61},
}

// FileSizeThroughput is throughput in MB/s per input size in MB, at 16 threads.
var FileSizeThroughput = Dataset{
	Name:   "file_size_scaling",
	XLabel: "File Size (MB)",
	YLabel: "Throughput (MB/s)",
	X:      []float64{6, 30, 61, 124, 313},
	Y:      []float64{20.97, 63.25, 107.37, 111.25, 107.63},
}

// MemoryUsage is peak resident memory in MB on the 281MB file.
var MemoryUsage = Dataset{
	Name:       "memory_optimization",
	YLabel:     "Memory Usage (MB)",
	Categories: []string{"Before Optimization", "After Optimization"},
	Y:          []float64{391, 121},
}

// Clone returns a copy of d that shares no slices with it.
func (d Dataset) Clone() Dataset {
	c := d
	c.X = cloneFloats(d.X)
	c.Y = cloneFloats(d.Y)
	if d.Categories != nil {
		c.Categories = append([]string(nil), d.Categories...)
	}
	return c
}

func cloneFloats(vs []float64) []float64 {
	if vs == nil {
		return nil
	}
	return append([]float64(nil), vs...)
}

// All returns copies of the datasets in chart order.
func All() []Dataset {
	return []Dataset{
		ThreadSpeedup.Clone(),
		ThreadEfficiency.Clone(),
		BlockSizeThroughput.Clone(),
		FileSizeThroughput.Clone(),
		MemoryUsage.Clone(),
	}
}

// Reduction returns the fractional drop from before to after, e.g. 0.69 for 391 -> 121.
func Reduction(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return (before - after) / before
}
