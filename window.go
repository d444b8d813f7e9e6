package zonal

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/lindseysim/zonal/raster"
)

// Window is a pixel-aligned sub-rectangle of a raster grid: the real-world
// coordinate of its minimum-x, maximum-y corner (minimum-y for grids with a
// positive PixelY), its size in pixels, its integer pixel offset from the
// raster's own origin, and the grid's pixel size.
type Window struct {
	OriginX float64
	OriginY float64
	Width   int
	Height  int
	OffsetX int
	OffsetY int
	PixelX  float64
	PixelY  float64
}

// FeatureWindow computes the window of raster pixels that could be covered
// by a feature with the given bounding extent. The window is snapped to the
// raster grid and clamped to the raster bounds; partial overlap is accepted
// silently. The second return is false when the extent does not overlap the
// raster's pixel bounds at all, which is the normal "feature outside raster"
// case and not an error.
func FeatureWindow(grid raster.Grid, bound orb.Bound) (Window, bool) {
	xmin, xmax := bound.Min[0], bound.Max[0]
	ymin, ymax := bound.Min[1], bound.Max[1]

	// Snap xmin down to the grid, clamped at the raster's own origin.
	if xmin < grid.OriginX {
		xmin = grid.OriginX
	} else {
		xmin -= gridMod(xmin-grid.OriginX, grid.PixelX)
	}
	offsetX := int((xmin - grid.OriginX) / grid.PixelX)

	// The y edge nearest the origin depends on the sign convention: north-up
	// grids (negative PixelY) have their origin at the top, so the window's
	// y anchor is ymax snapped up; bottom-origin grids snap ymin down.
	var offsetY int
	if grid.PixelY < 0 {
		if ymax > grid.OriginY {
			ymax = grid.OriginY
		} else {
			ymax += gridMod(grid.OriginY-ymax, -grid.PixelY)
		}
		offsetY = int((ymax - grid.OriginY) / grid.PixelY)
	} else {
		if ymin < grid.OriginY {
			ymin = grid.OriginY
		} else {
			ymin -= gridMod(ymin-grid.OriginY, grid.PixelY)
		}
		offsetY = int((ymin - grid.OriginY) / grid.PixelY)
	}

	width := int((xmax - xmin) / grid.PixelX)
	height := int((ymax - ymin) / grid.PixelY)
	if grid.PixelY < 0 {
		height = -height
	}

	if offsetX > grid.Width || offsetY > grid.Height {
		return Window{}, false
	}
	if offsetX+width > grid.Width {
		width = grid.Width - offsetX
	}
	if offsetY+height > grid.Height {
		height = grid.Height - offsetY
	}
	if width <= 0 || height <= 0 {
		return Window{}, false
	}

	originY := ymin
	if grid.PixelY < 0 {
		originY = ymax
	}
	return Window{
		OriginX: xmin,
		OriginY: originY,
		Width:   width,
		Height:  height,
		OffsetX: offsetX,
		OffsetY: offsetY,
		PixelX:  grid.PixelX,
		PixelY:  grid.PixelY,
	}, true
}

// gridMod returns the non-negative remainder of a/b for positive b, the
// distance from a down to the grid line below it.
func gridMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
