package zonal

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindseysim/zonal/raster"
)

func TestIgnoreValues(t *testing.T) {
	assert.Nil(t, IgnoreValues())

	ignore := IgnoreValues(-9999, 0)
	assert.True(t, ignore(-9999))
	assert.True(t, ignore(0))
	assert.False(t, ignore(1))
}

func TestMaskedPixels(t *testing.T) {
	pixels := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	mask := Mask{
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	}

	t.Run("no ignore", func(t *testing.T) {
		values := MaskedPixels(pixels, mask, nil)
		assert.Equal(t, []float64{2, 4, 5, 9}, values)
	})

	t.Run("ignore set", func(t *testing.T) {
		values := MaskedPixels(pixels, mask, IgnoreValues(4, 9))
		assert.Equal(t, []float64{2, 5}, values)
	})

	t.Run("ignore predicate", func(t *testing.T) {
		values := MaskedPixels(pixels, mask, func(v float64) bool { return v > 4 })
		assert.Equal(t, []float64{2, 4}, values)
	})

	t.Run("empty mask", func(t *testing.T) {
		assert.Nil(t, MaskedPixels(pixels, nil, nil))
		assert.Nil(t, MaskedPixels(nil, mask, nil))
	})
}

func TestMaskedPixels_NoDataNotAutomatic(t *testing.T) {
	// No-data pixels count as real data unless explicitly ignored.
	pixels := [][]float64{{-9999, 5}}
	mask := Mask{{1, 1}}

	assert.Equal(t, []float64{-9999, 5}, MaskedPixels(pixels, mask, nil))
	assert.Equal(t, []float64{5}, MaskedPixels(pixels, mask, IgnoreValues(-9999)))
}

func TestPixelsByFeatureMask(t *testing.T) {
	grid := raster.Grid{OriginX: 0, OriginY: 4, PixelX: 1, PixelY: -1, Width: 4, Height: 4}
	m, err := raster.NewMemory(grid, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	require.NoError(t, err)

	t.Run("covering polygon", func(t *testing.T) {
		// Real y 2..4 maps to pixel rows 0..1; x 1..3 to columns 1..2.
		poly := orb.Polygon{{{1, 2}, {3, 2}, {3, 4}, {1, 4}, {1, 2}}}
		values, err := PixelsByFeatureMask(m, 1, poly, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []float64{2, 3, 6, 7}, values)
	})

	t.Run("outside raster", func(t *testing.T) {
		poly := orb.Polygon{{{100, 100}, {110, 100}, {110, 110}, {100, 110}, {100, 100}}}
		values, err := PixelsByFeatureMask(m, 1, poly, nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("nil geometry", func(t *testing.T) {
		values, err := PixelsByFeatureMask(m, 1, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("unsupported geometry", func(t *testing.T) {
		_, err := PixelsByFeatureMask(m, 1, orb.LineString{{0, 0}, {3, 3}}, nil)
		assert.ErrorIs(t, err, ErrUnsupportedGeometry)
	})

	t.Run("bad band", func(t *testing.T) {
		poly := orb.Polygon{{{1, 2}, {3, 2}, {3, 4}, {1, 4}, {1, 2}}}
		_, err := PixelsByFeatureMask(m, 9, poly, nil)
		assert.ErrorIs(t, err, raster.ErrBandRange)
	})
}
