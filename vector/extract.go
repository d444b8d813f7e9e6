package vector

import "fmt"

// Extract copies the features of a source for which keep returns true,
// preserving iteration order. The source cursor is reset before and after
// the pass.
func Extract(src Source, keep func(*Feature) bool) []*Feature {
	var out []*Feature
	src.Reset()
	for {
		f, ok := src.Next()
		if !ok {
			break
		}
		if keep(f) {
			out = append(out, f)
		}
	}
	src.Reset()
	return out
}

// ExtractToFile filters a source through keep and writes the surviving
// features, with the source's schema, to a FlatGeobuf file.
func ExtractToFile(src Source, keep func(*Feature) bool, path string, opts *WriteOptions, overwrite bool) error {
	kept := Extract(src, keep)
	if len(kept) == 0 {
		return fmt.Errorf("%w: nothing extracted", ErrNoFeatures)
	}
	return WriteFile(path, src.Fields(), kept, opts, overwrite)
}

// Select is Extract with the predicate seeing resolved field values instead
// of the feature: for each feature, the values of the named fields are
// resolved (in the given order) and passed to keep. Unknown field names are
// an error.
func Select(src Source, fieldNames []string, keep func([]Value) bool) ([]*Feature, error) {
	fields := make([]Field, len(fieldNames))
	for i, name := range fieldNames {
		f, ok := src.FindField(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
		}
		fields[i] = f
	}

	values := make([]Value, len(fields))
	return Extract(src, func(f *Feature) bool {
		for i, field := range fields {
			values[i] = f.Value(field)
		}
		return keep(values)
	}), nil
}
