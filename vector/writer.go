package vector

import (
	"fmt"
	"io"
	"os"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// WriteOptions configures FlatGeobuf writing.
type WriteOptions struct {
	Name         string // layer name
	Description  string // layer description
	IncludeIndex bool   // include spatial index (default: true)
	CRS          *CRS   // coordinate reference system (optional)
}

// DefaultWriteOptions returns the default write configuration.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{IncludeIndex: true}
}

// Write writes features with the given schema to FlatGeobuf format.
// Features with nil geometry are skipped; the layer geometry type is
// Unknown when the features mix geometry types.
func Write(w io.Writer, fields []Field, features []*Feature, opts *WriteOptions) error {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	if len(features) == 0 {
		return ErrNoFeatures
	}

	geomType := flattypes.GeometryTypeUnknown
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		t := fgbGeometryType(f.Geometry)
		if geomType == flattypes.GeometryTypeUnknown {
			geomType = t
		} else if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
			break
		}
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}

	columns := make([]*writer.Column, 0, len(fields))
	for _, field := range fields {
		col := writer.NewColumn(builder)
		col.SetName(field.Name)
		col.SetTitle(field.Name)
		col.SetType(columnTypeForField(field.Type))
		col.SetNullable(true)
		columns = append(columns, col)
	}
	if len(columns) > 0 {
		header.SetColumns(columns)
	}

	if opts.CRS != nil {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		if opts.CRS.Code > 0 {
			crs.SetCode(int32(opts.CRS.Code))
		}
		if opts.CRS.Name != "" {
			crs.SetName(opts.CRS.Name)
		}
		if opts.CRS.Description != "" {
			crs.SetDescription(opts.CRS.Description)
		}
		header.SetCrs(crs)
	}

	gen := &featureGenerator{fields: fields, features: features}
	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)
	_, err := fgbWriter.Write(w)
	return err
}

// WriteFile writes features to a FlatGeobuf file. An existing file is an
// error unless overwrite is set.
func WriteFile(path string, fields []Field, features []*Feature, opts *WriteOptions, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("vector: output %q already exists", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, fields, features, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// featureGenerator feeds features to the FlatGeobuf writer one at a time.
type featureGenerator struct {
	fields   []Field
	features []*Feature
	index    int
}

func (g *featureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++
		if f == nil || f.Geometry == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		fgbGeom, err := geometryToFGB(f.Geometry, builder)
		if err != nil {
			continue
		}
		feature := writer.NewFeature(builder)
		feature.SetGeometry(fgbGeom)
		if raw := encodeAttributes(f.Attributes, g.fields); len(raw) > 0 {
			feature.SetProperties(raw)
		}
		return feature
	}
	return nil
}
