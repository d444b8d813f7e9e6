package vector

import (
	"fmt"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// fgbGeometryType maps an orb geometry to its FlatGeobuf type tag.
func fgbGeometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// geometryToFGB converts an orb geometry to a FlatGeobuf writer geometry.
func geometryToFGB(geom orb.Geometry, builder *flatbuffers.Builder) (*writer.Geometry, error) {
	if geom == nil {
		return nil, ErrNilGeometry
	}

	g := writer.NewGeometry(builder)
	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})

	case orb.MultiPoint:
		g.SetType(flattypes.GeometryTypeMultiPoint)
		g.SetXY(pointsToXY(v))

	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(pointsToXY(v))

	case orb.MultiLineString:
		g.SetType(flattypes.GeometryTypeMultiLineString)
		xy, ends := partsToXYEnds(len(v), func(i int) []orb.Point { return v[i] })
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := partsToXYEnds(len(v), func(i int) []orb.Point { return v[i] })
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := partsToXYEnds(len(poly), func(i int) []orb.Point { return poly[i] })
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, geom)
	}
	return g, nil
}

// geometryFromFGB converts a FlatGeobuf geometry to an orb geometry.
func geometryFromFGB(fgbGeom *flattypes.Geometry) (orb.Geometry, error) {
	if fgbGeom == nil {
		return nil, ErrNilGeometry
	}

	switch fgbGeom.Type() {
	case flattypes.GeometryTypePoint:
		if fgbGeom.XyLength() < 2 {
			return orb.Point{}, nil
		}
		return orb.Point{fgbGeom.Xy(0), fgbGeom.Xy(1)}, nil

	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(xyToPoints(fgbGeom)), nil

	case flattypes.GeometryTypeLineString:
		return orb.LineString(xyToPoints(fgbGeom)), nil

	case flattypes.GeometryTypeMultiLineString:
		mls := make(orb.MultiLineString, 0)
		for _, part := range xyEndsToParts(fgbGeom) {
			mls = append(mls, orb.LineString(part))
		}
		return mls, nil

	case flattypes.GeometryTypePolygon:
		return polygonFromFGB(fgbGeom), nil

	case flattypes.GeometryTypeMultiPolygon:
		partsLen := fgbGeom.PartsLength()
		if partsLen == 0 {
			// Single-part encoding without a parts vector.
			return orb.MultiPolygon{polygonFromFGB(fgbGeom)}, nil
		}
		mp := make(orb.MultiPolygon, 0, partsLen)
		for i := 0; i < partsLen; i++ {
			var part flattypes.Geometry
			if fgbGeom.Parts(&part, i) {
				mp = append(mp, polygonFromFGB(&part))
			}
		}
		return mp, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, flattypes.EnumNamesGeometryType[fgbGeom.Type()])
}

func polygonFromFGB(fgbGeom *flattypes.Geometry) orb.Polygon {
	if fgbGeom.EndsLength() == 0 {
		// No ends vector means a single ring.
		return orb.Polygon{orb.Ring(xyToPoints(fgbGeom))}
	}
	poly := make(orb.Polygon, 0, fgbGeom.EndsLength())
	for _, part := range xyEndsToParts(fgbGeom) {
		poly = append(poly, orb.Ring(part))
	}
	return poly
}

func pointsToXY(points []orb.Point) []float64 {
	xy := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func partsToXYEnds(n int, part func(int) []orb.Point) ([]float64, []uint32) {
	total := 0
	for i := 0; i < n; i++ {
		total += len(part(i))
	}
	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, n)
	cumulative := uint32(0)
	for i := 0; i < n; i++ {
		points := part(i)
		for _, p := range points {
			xy = append(xy, p[0], p[1])
		}
		cumulative += uint32(len(points))
		ends = append(ends, cumulative)
	}
	return xy, ends
}

func xyToPoints(fgbGeom *flattypes.Geometry) []orb.Point {
	xyLen := fgbGeom.XyLength()
	points := make([]orb.Point, 0, xyLen/2)
	for i := 0; i+1 < xyLen; i += 2 {
		points = append(points, orb.Point{fgbGeom.Xy(i), fgbGeom.Xy(i + 1)})
	}
	return points
}

func xyEndsToParts(fgbGeom *flattypes.Geometry) [][]orb.Point {
	xyLen := fgbGeom.XyLength()
	endsLen := fgbGeom.EndsLength()
	parts := make([][]orb.Point, 0, endsLen)
	start := uint32(0)
	for i := 0; i < endsLen; i++ {
		end := fgbGeom.Ends(i)
		points := make([]orb.Point, 0, end-start)
		for j := start; j < end; j++ {
			idx := int(j) * 2
			if idx+1 < xyLen {
				points = append(points, orb.Point{fgbGeom.Xy(idx), fgbGeom.Xy(idx + 1)})
			}
		}
		parts = append(parts, points)
		start = end
	}
	return parts
}
