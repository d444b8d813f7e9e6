// Package raster provides read access to gridded raster data for zonal
// statistics. A raster is described by its Grid (origin, signed pixel size,
// pixel dimensions) and exposes rectangular pixel-window reads per band.
package raster

import (
	"errors"
	"fmt"
)

// Common errors returned by this package.
var (
	ErrBadGrid     = errors.New("raster: pixel size must be non-zero")
	ErrBandRange   = errors.New("raster: band number out of range")
	ErrReadBounds  = errors.New("raster: read window exceeds band bounds")
	ErrRaggedBand  = errors.New("raster: band rows have inconsistent widths")
	ErrEmptyRaster = errors.New("raster: raster has no bands")
)

// Grid describes a raster's geometry: the real-world coordinate of the
// top-left (or bottom-left, for positive PixelY) corner, the signed pixel
// sizes, and the raster dimensions in pixels. PixelY is conventionally
// negative for north-up rasters.
type Grid struct {
	OriginX float64
	OriginY float64
	PixelX  float64
	PixelY  float64
	Width   int
	Height  int
}

// Equal reports whether two grids have identical origin, pixel size, and
// dimensions. Sources with equal grids are pixel-aligned with each other.
func (g Grid) Equal(o Grid) bool {
	return g.OriginX == o.OriginX && g.OriginY == o.OriginY &&
		g.PixelX == o.PixelX && g.PixelY == o.PixelY &&
		g.Width == o.Width && g.Height == o.Height
}

// Valid reports whether the grid has non-zero pixel sizes and positive
// dimensions.
func (g Grid) Valid() bool {
	return g.PixelX != 0 && g.PixelY != 0 && g.Width > 0 && g.Height > 0
}

// Source is an open raster dataset. Band numbers start at 1, following the
// convention of every raster format in use. Implementations are not safe for
// concurrent use; the caller owns the handle for the duration of a
// processing pass.
type Source interface {
	// Grid returns the raster's grid geometry.
	Grid() Grid

	// Bands returns the number of bands.
	Bands() int

	// Read returns the pixel values of a rectangular window of the given
	// band as values[row][col], with width*height pixels starting at the
	// given pixel offset from the raster origin. A width or height of zero
	// reads to the edge of the band. Requests extending past the band
	// bounds are an error, never a partial read.
	Read(band, offsetX, offsetY, width, height int) ([][]float64, error)

	// NoData returns the band's declared no-data value, if any. Note that
	// no layer of this package excludes no-data pixels automatically.
	NoData(band int) (float64, bool)

	// Close releases resources associated with the source.
	Close() error
}

// Memory is an in-memory Source. It backs both programmatic rasters and
// formats that are parsed fully into memory (see OpenASCIIGrid).
type Memory struct {
	grid   Grid
	bands  [][][]float64
	nodata map[int]float64
}

// NewMemory creates an in-memory raster from one or more bands of
// values[row][col]. Every band must match the grid's dimensions.
func NewMemory(grid Grid, bands ...[][]float64) (*Memory, error) {
	if !grid.Valid() {
		return nil, ErrBadGrid
	}
	if len(bands) == 0 {
		return nil, ErrEmptyRaster
	}
	for _, band := range bands {
		if len(band) != grid.Height {
			return nil, fmt.Errorf("%w: %d rows, grid height %d", ErrRaggedBand, len(band), grid.Height)
		}
		for _, row := range band {
			if len(row) != grid.Width {
				return nil, fmt.Errorf("%w: %d columns, grid width %d", ErrRaggedBand, len(row), grid.Width)
			}
		}
	}
	return &Memory{
		grid:   grid,
		bands:  bands,
		nodata: make(map[int]float64),
	}, nil
}

// Grid returns the raster's grid geometry.
func (m *Memory) Grid() Grid {
	return m.grid
}

// Bands returns the number of bands.
func (m *Memory) Bands() int {
	return len(m.bands)
}

// SetNoData declares a no-data value for a band.
func (m *Memory) SetNoData(band int, value float64) error {
	if band < 1 || band > len(m.bands) {
		return fmt.Errorf("%w: band %d of %d", ErrBandRange, band, len(m.bands))
	}
	m.nodata[band] = value
	return nil
}

// NoData returns the band's declared no-data value, if any.
func (m *Memory) NoData(band int) (float64, bool) {
	v, ok := m.nodata[band]
	return v, ok
}

// Read returns a copy of the pixel values in the requested window.
func (m *Memory) Read(band, offsetX, offsetY, width, height int) ([][]float64, error) {
	if band < 1 || band > len(m.bands) {
		return nil, fmt.Errorf("%w: band %d of %d", ErrBandRange, band, len(m.bands))
	}
	if offsetX < 0 || offsetX > m.grid.Width {
		return nil, fmt.Errorf("%w: x offset %d, width %d", ErrReadBounds, offsetX, m.grid.Width)
	}
	if offsetY < 0 || offsetY > m.grid.Height {
		return nil, fmt.Errorf("%w: y offset %d, height %d", ErrReadBounds, offsetY, m.grid.Height)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative window size", ErrReadBounds)
	}
	if width == 0 {
		width = m.grid.Width - offsetX
	} else if offsetX+width > m.grid.Width {
		return nil, fmt.Errorf("%w: x offset %d + width %d > %d", ErrReadBounds, offsetX, width, m.grid.Width)
	}
	if height == 0 {
		height = m.grid.Height - offsetY
	} else if offsetY+height > m.grid.Height {
		return nil, fmt.Errorf("%w: y offset %d + height %d > %d", ErrReadBounds, offsetY, height, m.grid.Height)
	}

	values := make([][]float64, height)
	src := m.bands[band-1]
	for y := 0; y < height; y++ {
		row := make([]float64, width)
		copy(row, src[offsetY+y][offsetX:offsetX+width])
		values[y] = row
	}
	return values, nil
}

// Close releases the band data.
func (m *Memory) Close() error {
	m.bands = nil
	return nil
}
