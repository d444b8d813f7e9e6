package zonal

import (
	"github.com/paulmach/orb"

	"github.com/lindseysim/zonal/raster"
)

// Ignore decides whether a pixel value is excluded from a sample. A nil
// Ignore retains everything.
type Ignore func(value float64) bool

// IgnoreValues builds an Ignore excluding exact matches of the given
// values. With no values it returns nil.
func IgnoreValues(values ...float64) Ignore {
	if len(values) == 0 {
		return nil
	}
	set := make(map[float64]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(value float64) bool {
		_, drop := set[value]
		return drop
	}
}

// MaskedPixels returns the flat list of pixel values under presence pixels
// of the mask, in row-major order, excluding values the ignore predicate
// rejects. The pixel window and the mask must have the same shape.
//
// No-data detection is not automatic: unless the raster's no-data value is
// covered by the ignore predicate, no-data pixels are counted as real data.
func MaskedPixels(pixels [][]float64, mask Mask, ignore Ignore) []float64 {
	if len(pixels) == 0 || len(mask) == 0 {
		return nil
	}
	var values []float64
	for y, row := range mask {
		for x, m := range row {
			if m == 0 {
				continue
			}
			v := pixels[y][x]
			if ignore != nil && ignore(v) {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}

// PixelsByFeatureMask collects the raster values of one band under a
// feature geometry: it locates the feature's pixel window on the raster,
// rasterizes the geometry into a presence mask, reads the window, and
// extracts the masked values. A geometry outside the raster bounds yields
// an empty sample and no error.
func PixelsByFeatureMask(src raster.Source, band int, geom orb.Geometry, ignore Ignore) ([]float64, error) {
	if geom == nil {
		return nil, nil
	}
	window, ok := FeatureWindow(src.Grid(), geom.Bound())
	if !ok {
		return nil, nil
	}
	mask, err := Rasterize(geom, window)
	if err != nil {
		return nil, err
	}
	pixels, err := src.Read(band, window.OffsetX, window.OffsetY, window.Width, window.Height)
	if err != nil {
		return nil, err
	}
	return MaskedPixels(pixels, mask, ignore), nil
}
