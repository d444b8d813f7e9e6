// Package zonal computes per-feature zonal statistics: aggregate statistics
// over the raster pixels spatially overlapped by each feature of a vector
// layer. The pipeline locates each feature's pixel window on a raster grid
// (FeatureWindow), scan-converts the feature's polygon into a presence mask
// (Rasterize), collects the raster values under the mask (MaskedPixels),
// and aggregates them (Stats); Statistics drives the pipeline over a whole
// layer and one or more rasters.
package zonal

import (
	"errors"
	"fmt"

	"github.com/lindseysim/zonal/raster"
	"github.com/lindseysim/zonal/vector"
)

// Common errors returned by this package.
var (
	ErrNoRasters           = errors.New("zonal: no rasters supplied")
	ErrBandMismatch        = errors.New("zonal: inconsistent number of rasters and bands")
	ErrNoStatistics        = errors.New("zonal: no statistics supplied")
	ErrUnknownStatistic    = errors.New("zonal: unrecognized statistic name")
	ErrFieldNotFound       = errors.New("zonal: field does not exist")
	ErrUnsupportedGeometry = errors.New("zonal: geometry cannot be rasterized")
)

// Options configures a Statistics run. The zero value computes every
// recognized statistic on band 1 of every raster, keyed by feature ID, with
// no values ignored.
type Options struct {
	// Bands selects the band to read per raster, 1-based. Nil selects band
	// 1 everywhere; a single entry is broadcast across all rasters;
	// otherwise the length must match the raster list.
	Bands []int

	// Statistics names the statistics to compute (see Stats for the
	// recognized names). Nil computes all of them.
	Statistics []string

	// Ignore excludes pixel values from the sample. Raster no-data values
	// are NOT excluded unless listed here; leaving this nil counts no-data
	// pixels as real data.
	Ignore Ignore

	// UniqueField names the field identifying each feature in the output.
	// Empty uses the feature ID under the key "FID".
	UniqueField string

	// NameField optionally names a display-name field to copy into each
	// row.
	NameField string
}

// Row is one output record of a Statistics run: the unique-id value, the
// optional display-name value, the pixel counts ("count_total", plus
// "count_N" per raster when more than one raster is supplied), and the
// requested statistics under their canonical lowercase keys.
type Row map[string]interface{}

// Statistics computes zonal statistics for every feature of a layer over
// one or more rasters, returning one row per feature in iteration order.
//
// Statistics are computed once over the merged pixel sample of all rasters,
// not per raster; only the pixel counts are kept per raster. A nil entry in
// the raster list contributes zero pixels and is skipped without error. A
// feature outside the raster bounds, or without geometry, still produces a
// row, with zero counts and every requested statistic 0. When all rasters
// share an identical grid the feature's window and presence mask are
// computed once and reused across them.
func Statistics(features vector.Source, rasters []raster.Source, opts Options) ([]Row, error) {
	if len(rasters) == 0 {
		return nil, ErrNoRasters
	}

	bands := opts.Bands
	switch {
	case len(bands) == 0:
		bands = make([]int, len(rasters))
		for i := range bands {
			bands[i] = 1
		}
	case len(bands) == 1 && len(rasters) > 1:
		band := bands[0]
		bands = make([]int, len(rasters))
		for i := range bands {
			bands[i] = band
		}
	case len(bands) != len(rasters):
		return nil, fmt.Errorf("%w: %d rasters, %d bands", ErrBandMismatch, len(rasters), len(bands))
	}

	// If every raster sits on the same grid, the window and mask can be
	// computed once per feature and shared.
	identical := true
	var checkGrid *raster.Grid
	for _, r := range rasters {
		if r == nil {
			continue
		}
		g := r.Grid()
		if checkGrid == nil {
			checkGrid = &g
		} else if !checkGrid.Equal(g) {
			identical = false
			break
		}
	}

	uniqueField := vector.FID
	if opts.UniqueField != "" {
		f, ok := features.FindField(opts.UniqueField)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, opts.UniqueField)
		}
		uniqueField = f
	}
	var nameField *vector.Field
	if opts.NameField != "" {
		f, ok := features.FindField(opts.NameField)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, opts.NameField)
		}
		nameField = &f
	}

	statNames := opts.Statistics
	if statNames == nil {
		statNames = DefaultStatistics
	}
	if len(statNames) == 0 {
		return nil, ErrNoStatistics
	}
	// Probe with an empty sample: Stats drops unrecognized names silently,
	// so a key-count mismatch is how bad names surface.
	if len(Stats(nil, statNames)) != len(statNames) {
		return nil, fmt.Errorf("%w in %v", ErrUnknownStatistic, statNames)
	}

	var table []Row
	features.Reset()
	for {
		feature, ok := features.Next()
		if !ok {
			break
		}

		row := Row{}
		row[uniqueField.Name] = feature.Value(uniqueField).Interface()
		if nameField != nil {
			row[nameField.Name] = feature.Value(*nameField).Interface()
		}

		// With identical grids, locate and rasterize once for the feature.
		var (
			sharedMask   Mask
			sharedWindow Window
			sharedOK     bool
		)
		if identical && feature.Geometry != nil && checkGrid != nil {
			sharedWindow, sharedOK = FeatureWindow(*checkGrid, feature.Geometry.Bound())
			if sharedOK {
				mask, err := Rasterize(feature.Geometry, sharedWindow)
				if err != nil {
					return nil, err
				}
				sharedMask = mask
			}
		}

		var pixels []float64
		countTotal := 0
		for i, r := range rasters {
			var (
				sample []float64
				err    error
			)
			if r != nil {
				if identical {
					sample, err = sampleWithMask(r, bands[i], sharedMask, sharedWindow, sharedOK, opts.Ignore)
				} else {
					sample, err = PixelsByFeatureMask(r, bands[i], feature.Geometry, opts.Ignore)
				}
				if err != nil {
					return nil, err
				}
				pixels = append(pixels, sample...)
			}
			if len(rasters) > 1 {
				row[fmt.Sprintf("count_%d", i+1)] = len(sample)
			}
			countTotal += len(sample)
		}
		row["count_total"] = countTotal

		for key, value := range Stats(pixels, statNames) {
			row[key] = value
		}
		table = append(table, row)
	}
	return table, nil
}

// sampleWithMask reads one raster's window and extracts the masked values,
// reusing a mask and window computed for a grid identical to the raster's.
func sampleWithMask(src raster.Source, band int, mask Mask, window Window, ok bool, ignore Ignore) ([]float64, error) {
	if !ok || mask == nil {
		return nil, nil
	}
	pixels, err := src.Read(band, window.OffsetX, window.OffsetY, window.Width, window.Height)
	if err != nil {
		return nil, err
	}
	return MaskedPixels(pixels, mask, ignore), nil
}
