package bench

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAllDatasetsAreWellFormed(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	for _, d := range all {
		assert.NoError(t, d.Validate(), d.Name)
		assert.Equal(t, d.Len(), len(d.Y), d.Name)
	}
}

func TestDatasetLiterals(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 4, 8, 16, 32}, ThreadSpeedup.X)
	assert.Equal(t, []float64{1.00, 2.39, 3.91, 7.14, 17.58, 14.75}, ThreadSpeedup.Y)
	assert.Equal(t, 119.5, ThreadEfficiency.Y[1])
	assert.Equal(t, []float64{160.86, 129.05, 128.39, 106.76, 60.78, 62.61}, BlockSizeThroughput.Y)
	assert.Equal(t, []string{"Before Optimization", "After Optimization"}, MemoryUsage.Categories)
	assert.Equal(t, []float64{391, 121}, MemoryUsage.Y)
}

func TestValidateMismatch(t *testing.T) {
	d := Dataset{Name: "broken", X: []float64{1, 2, 3}, Y: []float64{1, 2}}
	err := d.Validate()
	require.Error(t, err)

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "broken", shapeErr.Dataset)
	assert.Equal(t, 3, shapeErr.XLen)
	assert.Equal(t, 2, shapeErr.YLen)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestValidateEmptyAndNonFinite(t *testing.T) {
	err := Dataset{Name: "empty"}.Validate()
	assert.ErrorIs(t, err, ErrEmptyDataset)

	err = Dataset{Name: "nan", X: []float64{1}, Y: []float64{math.NaN()}}.Validate()
	assert.ErrorContains(t, err, "not a finite number")

	err = Dataset{Name: "both", X: []float64{1}, Categories: []string{"a"}, Y: []float64{1}}.Validate()
	assert.ErrorContains(t, err, "both x values and categories")
}

func TestValidateProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Float64Range(-1e6, 1e6)
		x := rapid.SliceOfN(value, 1, 32).Draw(t, "x")
		y := rapid.SliceOfN(value, 0, 32).Draw(t, "y")

		err := Dataset{Name: "generated", X: x, Y: y}.Validate()
		if len(x) == len(y) {
			if err != nil {
				t.Fatalf("equal lengths %d rejected: %v", len(x), err)
			}
			return
		}
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("lengths %d/%d: expected ShapeError, got %v", len(x), len(y), err)
		}
	})
}

func TestReduction(t *testing.T) {
	r := Reduction(MemoryUsage.Y[0], MemoryUsage.Y[1])
	assert.Equal(t, 69, int(math.Round(r*100)))
	assert.Zero(t, Reduction(0, 10))
}

func TestAllReturnsIndependentCopies(t *testing.T) {
	all := All()
	all[0].X[0] = 99
	all[0].Y[0] = 99
	all[4].Categories[0] = "changed"

	assert.Equal(t, 1.0, ThreadSpeedup.X[0])
	assert.Equal(t, 1.0, ThreadSpeedup.Y[0])
	assert.Equal(t, 1.0, ThreadEfficiency.X[0], "thread datasets do not share x values")
	assert.Equal(t, "Before Optimization", MemoryUsage.Categories[0])
	assert.Equal(t, 1.0, All()[0].X[0])
}

func TestCloneKeepsNilSeries(t *testing.T) {
	c := MemoryUsage.Clone()
	assert.Nil(t, c.X)
	assert.Equal(t, MemoryUsage, c)
}
