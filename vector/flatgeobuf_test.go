package vector

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func polygonFixture() ([]Field, []*Feature) {
	fields := []Field{
		{Name: "name", Type: TypeString},
		{Name: "zone", Type: TypeInteger},
		{Name: "area", Type: TypeReal},
	}
	features := []*Feature{
		{
			Geometry: orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
			Attributes: map[string]Value{
				"name": String("square1"),
				"zone": Integer(1),
				"area": Real(100),
			},
		},
		{
			Geometry: orb.Polygon{{{20, 20}, {30, 20}, {30, 30}, {20, 30}, {20, 20}}},
			Attributes: map[string]Value{
				"name": String("square2"),
				"zone": Integer(2),
				"area": Real(100),
			},
		},
	}
	return fields, features
}

func TestFromData_Invalid(t *testing.T) {
	if _, err := FromData([]byte("not a flatgeobuf")); err == nil {
		t.Error("expected error for invalid data")
	}
	if _, err := FromData(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestRoundTrip_Polygons(t *testing.T) {
	fields, features := polygonFixture()

	var buf bytes.Buffer
	opts := &WriteOptions{
		Name:         "test_zones",
		IncludeIndex: true,
		CRS:          WGS84(),
	}
	if err := Write(&buf, fields, features, opts); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	src, err := FromData(buf.Bytes())
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	defer func() { _ = src.Close() }()

	if src.Name() != "test_zones" {
		t.Errorf("expected name 'test_zones', got %q", src.Name())
	}
	if src.CRS() == nil || src.CRS().Code != 4326 {
		t.Errorf("expected EPSG:4326, got %+v", src.CRS())
	}
	if src.Len() != 2 {
		t.Fatalf("expected 2 features, got %d", src.Len())
	}

	schema := src.Fields()
	if len(schema) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(schema))
	}
	zone, ok := src.FindField("zone")
	if !ok || zone.Type != TypeInteger {
		t.Fatalf("expected integer field zone, got %+v", zone)
	}

	// The spatial index can reorder features; check by attribute.
	byName := map[string]*Feature{}
	for {
		f, ok := src.Next()
		if !ok {
			break
		}
		byName[f.Value(Field{Name: "name", Type: TypeString}).AsString()] = f
	}
	for _, name := range []string{"square1", "square2"} {
		f, ok := byName[name]
		if !ok {
			t.Fatalf("feature %q not read back", name)
		}
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			t.Fatalf("%s: expected polygon, got %T", name, f.Geometry)
		}
		if len(poly) != 1 || len(poly[0]) != 5 {
			t.Errorf("%s: unexpected ring shape %v", name, poly)
		}
		if f.Value(Field{Name: "area", Type: TypeReal}).AsFloat() != 100 {
			t.Errorf("%s: expected area 100", name)
		}
	}
}

func TestRoundTrip_PolygonWithHole(t *testing.T) {
	fields := []Field{{Name: "name", Type: TypeString}}
	features := []*Feature{{
		Geometry: orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
		},
		Attributes: map[string]Value{"name": String("donut")},
	}}

	var buf bytes.Buffer
	if err := Write(&buf, fields, features, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	src, err := FromData(buf.Bytes())
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	f, ok := src.Next()
	if !ok {
		t.Fatal("expected a feature")
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected polygon, got %T", f.Geometry)
	}
	if len(poly) != 2 {
		t.Fatalf("expected outer ring plus hole, got %d rings", len(poly))
	}
}

func TestWrite_NoFeatures(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, nil, nil); err != ErrNoFeatures {
		t.Errorf("expected ErrNoFeatures, got %v", err)
	}
}

func TestWriteFile_Overwrite(t *testing.T) {
	fields, features := polygonFixture()
	path := filepath.Join(t.TempDir(), "zones.fgb")

	if err := WriteFile(path, fields, features, nil, false); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(path, fields, features, nil, false); err == nil {
		t.Error("expected error writing over existing file without overwrite")
	}
	if err := WriteFile(path, fields, features, nil, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = src.Close() }()
	if src.Len() != 2 {
		t.Errorf("expected 2 features, got %d", src.Len())
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.fgb")); err == nil {
		t.Error("expected error for missing file")
	}
}
