package vector

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
)

// The property block is a sequence of [2-byte little-endian column index]
// [value bytes] pairs. Value width is dictated by the column's declared
// type; String and DateTime values are null-terminated text.

// decodeAttributes decodes a property block into typed attribute values,
// folding each column's declared type into the four types of the Value
// model.
func decodeAttributes(data []byte, header *flattypes.Header) map[string]Value {
	if len(data) == 0 || header == nil {
		return nil
	}

	attrs := make(map[string]Value)
	offset := 0
	for offset+2 <= len(data) {
		colIndex := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if colIndex >= header.ColumnsLength() {
			break
		}
		var col flattypes.Column
		if !header.Columns(&col, colIndex) {
			break
		}
		value, n, ok := decodeValue(data[offset:], col.Type())
		if !ok {
			break
		}
		offset += n
		attrs[string(col.Name())] = value
	}
	return attrs
}

// decodeValue reads one value of the given column type, returning it as a
// Value plus the number of bytes consumed.
func decodeValue(data []byte, colType flattypes.ColumnType) (Value, int, bool) {
	switch colType {
	case flattypes.ColumnTypeBool:
		if len(data) < 1 {
			return Value{}, 0, false
		}
		if data[0] != 0 {
			return Integer(1), 1, true
		}
		return Integer(0), 1, true

	case flattypes.ColumnTypeByte:
		if len(data) < 1 {
			return Value{}, 0, false
		}
		return Integer(int64(int8(data[0]))), 1, true

	case flattypes.ColumnTypeUByte:
		if len(data) < 1 {
			return Value{}, 0, false
		}
		return Integer(int64(data[0])), 1, true

	case flattypes.ColumnTypeShort:
		if len(data) < 2 {
			return Value{}, 0, false
		}
		return Integer(int64(int16(binary.LittleEndian.Uint16(data)))), 2, true

	case flattypes.ColumnTypeUShort:
		if len(data) < 2 {
			return Value{}, 0, false
		}
		return Integer(int64(binary.LittleEndian.Uint16(data))), 2, true

	case flattypes.ColumnTypeInt:
		if len(data) < 4 {
			return Value{}, 0, false
		}
		return Integer(int64(int32(binary.LittleEndian.Uint32(data)))), 4, true

	case flattypes.ColumnTypeUInt:
		if len(data) < 4 {
			return Value{}, 0, false
		}
		return Integer(int64(binary.LittleEndian.Uint32(data))), 4, true

	case flattypes.ColumnTypeLong:
		if len(data) < 8 {
			return Value{}, 0, false
		}
		return Integer(int64(binary.LittleEndian.Uint64(data))), 8, true

	case flattypes.ColumnTypeULong:
		if len(data) < 8 {
			return Value{}, 0, false
		}
		return Integer(int64(binary.LittleEndian.Uint64(data))), 8, true

	case flattypes.ColumnTypeFloat:
		if len(data) < 4 {
			return Value{}, 0, false
		}
		return Real(float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))), 4, true

	case flattypes.ColumnTypeDouble:
		if len(data) < 8 {
			return Value{}, 0, false
		}
		return Real(math.Float64frombits(binary.LittleEndian.Uint64(data))), 8, true

	case flattypes.ColumnTypeString, flattypes.ColumnTypeJson:
		s, n := readCString(data)
		return String(s), n, true

	case flattypes.ColumnTypeDateTime:
		s, n := readCString(data)
		if t, err := parseDateTime(s); err == nil {
			return DateTime(t), n, true
		}
		// Keep unparseable timestamps as text rather than dropping them.
		return String(s), n, true

	case flattypes.ColumnTypeBinary:
		if len(data) < 4 {
			return Value{}, 0, false
		}
		length := int(binary.LittleEndian.Uint32(data))
		if len(data) < 4+length {
			return Value{}, 0, false
		}
		return String(string(data[4 : 4+length])), 4 + length, true
	}
	return Value{}, 0, false
}

func readCString(data []byte) (string, int) {
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return string(data), len(data)
	}
	return string(data[:nullIdx]), nullIdx + 1
}

// columnTypeForField maps a Field's type to the FlatGeobuf column type used
// when writing.
func columnTypeForField(t FieldType) flattypes.ColumnType {
	switch t {
	case TypeInteger:
		return flattypes.ColumnTypeLong
	case TypeReal:
		return flattypes.ColumnTypeDouble
	case TypeDateTime:
		return flattypes.ColumnTypeDateTime
	}
	return flattypes.ColumnTypeString
}

// encodeAttributes encodes a feature's attribute values against the layer
// schema, in schema order. Attributes absent from the schema are dropped.
func encodeAttributes(attrs map[string]Value, fields []Field) []byte {
	if len(attrs) == 0 || len(fields) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i, field := range fields {
		v, ok := attrs[field.Name]
		if !ok {
			continue
		}
		var index [2]byte
		binary.LittleEndian.PutUint16(index[:], uint16(i))
		buf.Write(index[:])
		writeValue(&buf, coerce(v, field.Type))
	}
	return buf.Bytes()
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v.Type() {
	case TypeInteger:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.AsInt()))
		buf.Write(b[:])
	case TypeReal:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.AsFloat()))
		buf.Write(b[:])
	default:
		buf.WriteString(v.AsString())
		buf.WriteByte(0)
	}
}
