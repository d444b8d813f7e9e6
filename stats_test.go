package zonal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_EmptyInput(t *testing.T) {
	// Every requested key is present and zero, not absent.
	stats := Stats(nil, []string{"MIN", "MAX", "MEAN", "MEDIAN", "VARIANCE", "STDEV", "PERC90"})
	assert.Equal(t, map[string]float64{
		"min": 0, "max": 0, "mean": 0, "median": 0, "var": 0, "stdev": 0, "perc90": 0,
	}, stats)

	stats = Stats([]float64{}, []string{"MEAN"})
	assert.Equal(t, map[string]float64{"mean": 0}, stats)
}

func TestStats_Aliases(t *testing.T) {
	values := []float64{1, 2, 3}

	tests := []struct {
		option string
		key    string
	}{
		{"MIN", "min"},
		{"MINIMUM", "min"},
		{"max", "max"},
		{"Maximum", "max"},
		{"MEAN", "mean"},
		{"AVERAGE", "mean"},
		{"avg", "mean"},
		{"MEDIAN", "median"},
		{"VAR", "var"},
		{"VARIANCE", "var"},
		{"STDEV", "stdev"},
		{"PERC90", "perc90"},
	}

	for _, tt := range tests {
		stats := Stats(values, []string{tt.option})
		require.Len(t, stats, 1, tt.option)
		_, ok := stats[tt.key]
		assert.True(t, ok, "option %s should produce key %s", tt.option, tt.key)
	}
}

func TestStats_UnrecognizedDropped(t *testing.T) {
	// An unrecognized name is silently dropped; callers detect it by
	// comparing result size against the number of names requested.
	stats := Stats([]float64{1, 2}, []string{"MIN", "MODE"})
	assert.Len(t, stats, 1)
	assert.Equal(t, float64(1), stats["min"])
}

func TestStats_Median(t *testing.T) {
	// Rank round(0.5*n): for n=4 that's rank 2, the lower middle value.
	stats := Stats([]float64{1, 2, 3, 4}, []string{"MEDIAN"})
	assert.Equal(t, float64(2), stats["median"])

	stats = Stats([]float64{5, 1, 3}, []string{"MEDIAN"})
	assert.Equal(t, float64(3), stats["median"])

	stats = Stats([]float64{7}, []string{"MEDIAN"})
	assert.Equal(t, float64(7), stats["median"])
}

func TestStats_Perc90(t *testing.T) {
	// Rank ceil(0.9*n), no interpolation.
	stats := Stats([]float64{5, 1, 9, 3}, []string{"MIN", "MAX", "PERC90"})
	assert.Equal(t, float64(1), stats["min"])
	assert.Equal(t, float64(9), stats["max"])
	assert.Equal(t, float64(9), stats["perc90"])

	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i + 1)
	}
	stats = Stats(values, []string{"PERC90"})
	assert.Equal(t, float64(18), stats["perc90"])
}

func TestStats_MeanVarianceStdev(t *testing.T) {
	stats := Stats([]float64{2, 4, 4, 4, 5, 5, 7, 9}, []string{"MEAN", "VARIANCE", "STDEV"})
	assert.InDelta(t, 5.0, stats["mean"], 1e-12)
	assert.InDelta(t, 4.0, stats["var"], 1e-12)
	assert.InDelta(t, 2.0, stats["stdev"], 1e-12)
}

func TestStats_SortsInPlace(t *testing.T) {
	values := []float64{9, 1, 5}
	Stats(values, []string{"MIN"})
	assert.Equal(t, []float64{1, 5, 9}, values)
}

func TestStats_RunningMeanFormulation(t *testing.T) {
	// The mean accumulates per-value quotients; replicate that exactly.
	values := []float64{0.1, 0.2, 0.3}
	n := float64(len(values))
	var want float64
	for _, v := range values {
		want += v / n
	}
	stats := Stats(values, []string{"MEAN"})
	assert.Equal(t, want, stats["mean"])
}

func TestStats_NaNPropagates(t *testing.T) {
	// NaN values flow through arithmetic untouched.
	stats := Stats([]float64{1, math.NaN()}, []string{"MEAN"})
	assert.True(t, math.IsNaN(stats["mean"]))
}
