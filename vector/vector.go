// Package vector provides read and write access to vector feature data for
// zonal statistics. A feature Source exposes a restartable iteration over
// features, each carrying an orb geometry and typed attribute values, plus
// the field metadata describing its schema. The concrete on-disk format is
// FlatGeobuf (see Open and Write); MemorySource serves programmatic data.
package vector

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/paulmach/orb"
)

// Common errors returned by this package.
var (
	ErrNilGeometry     = errors.New("vector: nil geometry")
	ErrUnsupportedType = errors.New("vector: unsupported geometry type")
	ErrInvalidData     = errors.New("vector: invalid data")
	ErrFieldNotFound   = errors.New("vector: field does not exist")
	ErrNoFeatures      = errors.New("vector: no features")
)

// FieldType enumerates the attribute value types a field can hold.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInteger
	TypeReal
	TypeDateTime
)

// String returns the type name.
func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInteger:
		return "Integer"
	case TypeReal:
		return "Real"
	case TypeDateTime:
		return "DateTime"
	}
	return "Unknown"
}

// Field describes one attribute column of a feature schema.
type Field struct {
	Name      string
	Type      FieldType
	Width     int // declared width, or 0
	Precision int // declared precision, or 0
	Index     int // position in the schema, or -1
	FID       bool
}

// FID is the pseudo-field resolving to a feature's ID rather than to an
// attribute column.
var FID = Field{Name: "FID", Type: TypeInteger, Index: -1, FID: true}

// Value is a tagged variant holding one attribute value of a fixed type.
// The zero Value is an empty string.
type Value struct {
	typ  FieldType
	str  string
	num  int64
	real float64
	when time.Time
}

// String creates a string Value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// Integer creates an integer Value.
func Integer(i int64) Value { return Value{typ: TypeInteger, num: i} }

// Real creates a floating-point Value.
func Real(f float64) Value { return Value{typ: TypeReal, real: f} }

// DateTime creates a date-time Value.
func DateTime(t time.Time) Value { return Value{typ: TypeDateTime, when: t} }

// Type returns the value's type tag.
func (v Value) Type() FieldType { return v.typ }

// AsString returns the value formatted as a string.
func (v Value) AsString() string {
	switch v.typ {
	case TypeInteger:
		return strconv.FormatInt(v.num, 10)
	case TypeReal:
		return strconv.FormatFloat(v.real, 'f', -1, 64)
	case TypeDateTime:
		return v.when.Format(dateTimeLayout)
	}
	return v.str
}

// AsInt returns the value converted to an integer. Strings parse as base-10
// integers; unparseable strings and date-times yield 0. Reals truncate.
func (v Value) AsInt() int64 {
	switch v.typ {
	case TypeInteger:
		return v.num
	case TypeReal:
		return int64(v.real)
	case TypeString:
		i, _ := strconv.ParseInt(v.str, 10, 64)
		return i
	}
	return 0
}

// AsFloat returns the value converted to a float. Unparseable strings and
// date-times yield 0.
func (v Value) AsFloat() float64 {
	switch v.typ {
	case TypeInteger:
		return float64(v.num)
	case TypeReal:
		return v.real
	case TypeString:
		f, _ := strconv.ParseFloat(v.str, 64)
		return f
	}
	return 0
}

// AsTime returns the value as a date-time. Strings are parsed with the same
// layouts accepted when reading FlatGeobuf data; non-date values yield the
// zero time.
func (v Value) AsTime() time.Time {
	switch v.typ {
	case TypeDateTime:
		return v.when
	case TypeString:
		t, _ := parseDateTime(v.str)
		return t
	}
	return time.Time{}
}

// Interface returns the value as its natural Go type: string, int64,
// float64, or time.Time.
func (v Value) Interface() interface{} {
	switch v.typ {
	case TypeInteger:
		return v.num
	case TypeReal:
		return v.real
	case TypeDateTime:
		return v.when
	}
	return v.str
}

const dateTimeLayout = "2006-01-02T15:04:05"

var dateTimeLayouts = []string{
	time.RFC3339,
	dateTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date-time %q", ErrInvalidData, s)
}

// Feature is one vector record: an ID, a geometry, and attribute values
// keyed by field name.
type Feature struct {
	ID         int64
	Geometry   orb.Geometry
	Attributes map[string]Value
}

// Bound returns the feature's bounding extent, or false if the feature has
// no geometry.
func (f *Feature) Bound() (orb.Bound, bool) {
	if f.Geometry == nil {
		return orb.Bound{}, false
	}
	return f.Geometry.Bound(), true
}

// Value resolves a field to this feature's value for it. The FID
// pseudo-field resolves to the feature ID; a missing attribute resolves to
// the zero value of the field's type, and a value of another type is coerced
// to the field's type.
func (f *Feature) Value(field Field) Value {
	if field.FID {
		return Integer(f.ID)
	}
	v, ok := f.Attributes[field.Name]
	if !ok {
		return zeroValue(field.Type)
	}
	return coerce(v, field.Type)
}

func zeroValue(t FieldType) Value {
	switch t {
	case TypeInteger:
		return Integer(0)
	case TypeReal:
		return Real(0)
	case TypeDateTime:
		return DateTime(time.Time{})
	}
	return String("")
}

func coerce(v Value, t FieldType) Value {
	if v.typ == t {
		return v
	}
	switch t {
	case TypeString:
		return String(v.AsString())
	case TypeInteger:
		return Integer(v.AsInt())
	case TypeReal:
		return Real(v.AsFloat())
	case TypeDateTime:
		return DateTime(v.AsTime())
	}
	return v
}

// Source is an open feature layer: a schema plus a restartable feature
// iteration. Implementations are not safe for concurrent use; the caller
// owns the handle for the duration of a processing pass.
type Source interface {
	// Fields returns the layer schema.
	Fields() []Field

	// FindField resolves a field by name.
	FindField(name string) (Field, bool)

	// Bound returns the layer's combined bounding extent.
	Bound() orb.Bound

	// Reset restarts the iteration cursor at the first feature.
	Reset()

	// Next returns the next feature, or false when the iteration is done.
	Next() (*Feature, bool)

	// Close releases resources associated with the source.
	Close() error
}

// MemorySource is an in-memory Source over a fixed feature slice, in slice
// order.
type MemorySource struct {
	fields   []Field
	features []*Feature
	cursor   int
}

// NewMemorySource creates a source from a schema and features. Field indexes
// are assigned from slice position.
func NewMemorySource(fields []Field, features []*Feature) *MemorySource {
	indexed := make([]Field, len(fields))
	for i, f := range fields {
		f.Index = i
		indexed[i] = f
	}
	return &MemorySource{fields: indexed, features: features}
}

// Fields returns the layer schema.
func (s *MemorySource) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FindField resolves a field by name.
func (s *MemorySource) FindField(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bound returns the combined bounding extent of all features with geometry.
func (s *MemorySource) Bound() orb.Bound {
	var bound orb.Bound
	first := true
	for _, f := range s.features {
		if f.Geometry == nil {
			continue
		}
		if first {
			bound = f.Geometry.Bound()
			first = false
		} else {
			bound = bound.Union(f.Geometry.Bound())
		}
	}
	return bound
}

// Len returns the number of features.
func (s *MemorySource) Len() int {
	return len(s.features)
}

// Reset restarts the iteration cursor.
func (s *MemorySource) Reset() {
	s.cursor = 0
}

// Next returns the next feature in slice order.
func (s *MemorySource) Next() (*Feature, bool) {
	if s.cursor >= len(s.features) {
		return nil, false
	}
	f := s.features[s.cursor]
	s.cursor++
	return f, true
}

// Close releases the feature slice.
func (s *MemorySource) Close() error {
	s.features = nil
	return nil
}
