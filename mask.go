package zonal

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Mask is a presence grid the shape of a Window: mask[row][col] is 1 for
// pixels inside a feature's polygon and 0 for pixels outside it or inside a
// hole.
type Mask [][]uint8

// Count returns the number of presence pixels.
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Rasterize scan-converts a polygon or multipolygon into a presence mask
// the shape of the window. Ring vertices map to pixel space through the
// window's origin and pixel size with truncation toward zero, the same
// affine FeatureWindow derives its offsets from. The first ring of each
// polygon paints presence, every subsequent ring is a hole and erases; the
// parts of a multipolygon overlay onto the same mask. Any other geometry
// type is a fatal input error.
func Rasterize(geom orb.Geometry, w Window) (Mask, error) {
	if rasterizeHook != nil {
		rasterizeHook(geom, w)
	}

	var polygons orb.MultiPolygon
	switch g := geom.(type) {
	case orb.Polygon:
		polygons = orb.MultiPolygon{g}
	case orb.MultiPolygon:
		polygons = g
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, geom)
	}

	mask := make(Mask, w.Height)
	for y := range mask {
		mask[y] = make([]uint8, w.Width)
	}

	for _, poly := range polygons {
		for r, ring := range poly {
			paint := uint8(1)
			if r > 0 {
				paint = 0
			}
			fillRing(mask, ringToPixels(ring, w), paint)
		}
	}
	return mask, nil
}

// rasterizeHook, when set, observes every Rasterize call. Tests use it to
// verify mask reuse across rasters sharing a grid.
var rasterizeHook func(geom orb.Geometry, w Window)

// pixel is a ring vertex in window pixel coordinates.
type pixel struct {
	x, y int
}

func ringToPixels(ring orb.Ring, w Window) []pixel {
	pixels := make([]pixel, len(ring))
	for i, p := range ring {
		pixels[i] = pixel{
			x: int((p[0] - w.OriginX) / w.PixelX),
			y: int((p[1] - w.OriginY) / w.PixelY),
		}
	}
	return pixels
}

// fillRing paints the interior of a closed ring onto the mask with an
// even-odd scanline fill sampled at pixel centers. Rings with fewer than
// three vertices enclose nothing and paint nothing.
func fillRing(mask Mask, ring []pixel, value uint8) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return
	}

	height := len(mask)
	if height == 0 {
		return
	}
	width := len(mask[0])

	crossings := make([]float64, 0, 8)
	for y := 0; y < height; y++ {
		yc := float64(y) + 0.5
		crossings = crossings[:0]
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			ay, by := float64(a.y), float64(b.y)
			if (ay <= yc) == (by <= yc) {
				continue
			}
			x := float64(a.x) + (yc-ay)*float64(b.x-a.x)/(by-ay)
			crossings = append(crossings, x)
		}
		sort.Float64s(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			// A pixel is covered when its center lies between a crossing pair.
			x0 := int(math.Ceil(crossings[i] - 0.5))
			x1 := int(math.Ceil(crossings[i+1] - 0.5))
			if x0 < 0 {
				x0 = 0
			}
			if x1 > width {
				x1 = width
			}
			for x := x0; x < x1; x++ {
				mask[y][x] = value
			}
		}
	}
}
