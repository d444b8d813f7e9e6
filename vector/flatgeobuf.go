package vector

import (
	"fmt"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
)

// CRS identifies a coordinate reference system in FlatGeobuf metadata.
type CRS struct {
	Code        int // EPSG code (e.g., 4326 for WGS84)
	Name        string
	Description string
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{Code: 4326, Name: "WGS 84"}
}

// FGBSource is a Source backed by a FlatGeobuf file. Features and
// attributes are decoded once at open time; iteration is over the decoded
// slice in file order, with feature IDs assigned from file position.
type FGBSource struct {
	name     string
	crs      *CRS
	bound    orb.Bound
	fields   []Field
	features []*Feature
	cursor   int
}

// Open opens a FlatGeobuf file as a feature Source. The file must carry a
// spatial index; index-free files cannot be iterated by the underlying
// reader.
func Open(path string) (*FGBSource, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}
	return newFGBSource(fgb)
}

// FromData opens FlatGeobuf byte data as a feature Source.
func FromData(data []byte) (*FGBSource, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return newFGBSource(fgb)
}

func newFGBSource(fgb *flatgeobuf.FlatGeoBuf) (*FGBSource, error) {
	h := fgb.Header()
	if h == nil {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidData)
	}

	src := &FGBSource{name: string(h.Name())}

	var crs flattypes.Crs
	if h.Crs(&crs) != nil {
		src.crs = &CRS{
			Code:        int(crs.Code()),
			Name:        string(crs.Name()),
			Description: string(crs.Description()),
		}
	}

	src.fields = make([]Field, 0, h.ColumnsLength())
	for i := 0; i < h.ColumnsLength(); i++ {
		var col flattypes.Column
		if !h.Columns(&col, i) {
			continue
		}
		src.fields = append(src.fields, Field{
			Name:      string(col.Name()),
			Type:      fieldTypeFromColumn(col.Type()),
			Width:     int(col.Width()),
			Precision: int(col.Precision()),
			Index:     i,
		})
	}

	if h.FeaturesCount() == 0 {
		return src, nil
	}
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, fmt.Errorf("%w: file has no spatial index", ErrInvalidData)
	}

	minX, minY := h.Envelope(0), h.Envelope(1)
	maxX, maxY := h.Envelope(2), h.Envelope(3)
	src.bound = orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}

	raw, err := fgb.Search(minX, minY, maxX, maxY)
	if err != nil {
		return nil, err
	}
	src.features = make([]*Feature, 0, len(raw))
	for i, fgbFeature := range raw {
		f, err := decodeFeature(fgbFeature, h)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		f.ID = int64(i)
		src.features = append(src.features, f)
	}
	return src, nil
}

// decodeFeature converts a FlatGeobuf feature into a Feature with typed
// attribute values.
func decodeFeature(fgbFeature *flattypes.Feature, header *flattypes.Header) (*Feature, error) {
	if fgbFeature == nil {
		return nil, ErrInvalidData
	}

	var geomObj flattypes.Geometry
	geom := fgbFeature.Geometry(&geomObj)
	if geom == nil {
		return nil, ErrNilGeometry
	}
	orbGeom, err := geometryFromFGB(geom)
	if err != nil {
		return nil, err
	}

	f := &Feature{Geometry: orbGeom}
	if n := fgbFeature.PropertiesLength(); n > 0 && header.ColumnsLength() > 0 {
		raw := make([]byte, n)
		for i := 0; i < n; i++ {
			raw[i] = byte(fgbFeature.Properties(i))
		}
		f.Attributes = decodeAttributes(raw, header)
	}
	return f, nil
}

// fieldTypeFromColumn folds FlatGeobuf column types into the four attribute
// types this package models. All integral widths (including bool) read as
// Integer; both float widths read as Real; everything else reads as String.
func fieldTypeFromColumn(t flattypes.ColumnType) FieldType {
	switch t {
	case flattypes.ColumnTypeBool,
		flattypes.ColumnTypeByte, flattypes.ColumnTypeUByte,
		flattypes.ColumnTypeShort, flattypes.ColumnTypeUShort,
		flattypes.ColumnTypeInt, flattypes.ColumnTypeUInt,
		flattypes.ColumnTypeLong, flattypes.ColumnTypeULong:
		return TypeInteger
	case flattypes.ColumnTypeFloat, flattypes.ColumnTypeDouble:
		return TypeReal
	case flattypes.ColumnTypeDateTime:
		return TypeDateTime
	}
	return TypeString
}

// Name returns the layer name from the file header.
func (s *FGBSource) Name() string {
	return s.name
}

// CRS returns the coordinate reference system from the file header, or nil.
func (s *FGBSource) CRS() *CRS {
	return s.crs
}

// Fields returns the layer schema.
func (s *FGBSource) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FindField resolves a field by name.
func (s *FGBSource) FindField(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bound returns the layer envelope from the file header.
func (s *FGBSource) Bound() orb.Bound {
	return s.bound
}

// Len returns the number of features.
func (s *FGBSource) Len() int {
	return len(s.features)
}

// Reset restarts the iteration cursor.
func (s *FGBSource) Reset() {
	s.cursor = 0
}

// Next returns the next feature in file order.
func (s *FGBSource) Next() (*Feature, bool) {
	if s.cursor >= len(s.features) {
		return nil, false
	}
	f := s.features[s.cursor]
	s.cursor++
	return f, true
}

// Close releases the decoded features.
func (s *FGBSource) Close() error {
	s.features = nil
	return nil
}
