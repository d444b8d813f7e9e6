package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBadASCIIGrid is returned when a file cannot be parsed as an Esri ASCII
// grid.
var ErrBadASCIIGrid = errors.New("raster: malformed ASCII grid")

// OpenASCIIGrid reads an Esri ASCII grid (.asc) file into an in-memory
// single-band Source. The first data row is the northernmost row, so the
// resulting grid has its origin at the top-left corner and a negative
// PixelY. A NODATA_value header becomes the band's declared no-data value;
// it is reported through NoData but never filtered automatically.
func OpenASCIIGrid(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadASCIIGrid(f)
}

// ReadASCIIGrid parses an Esri ASCII grid from a reader.
func ReadASCIIGrid(r io.Reader) (*Memory, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		ncols, nrows       int
		xll, yll, cellSize float64
		xCenter, yCenter   bool
		nodata             float64
		hasNoData          bool
	)
	seen := map[string]bool{}

	// Header lines are "key value" pairs; the first purely numeric line
	// starts the data block.
	var data [][]float64
	row := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if data == nil {
			key := strings.ToLower(fields[0])
			if isHeaderKey(key) {
				if len(fields) != 2 {
					return nil, fmt.Errorf("%w: header line %q", ErrBadASCIIGrid, line)
				}
				val, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: header line %q", ErrBadASCIIGrid, line)
				}
				seen[key] = true
				switch key {
				case "ncols":
					ncols = int(val)
				case "nrows":
					nrows = int(val)
				case "xllcorner":
					xll = val
				case "xllcenter":
					xll = val
					xCenter = true
				case "yllcorner":
					yll = val
				case "yllcenter":
					yll = val
					yCenter = true
				case "cellsize":
					cellSize = val
				case "nodata_value":
					nodata = val
					hasNoData = true
				}
				continue
			}
			// End of header: validate and fall through into the data block.
			if !seen["ncols"] || !seen["nrows"] ||
				!(seen["xllcorner"] || seen["xllcenter"]) ||
				!(seen["yllcorner"] || seen["yllcenter"]) ||
				!seen["cellsize"] {
				return nil, fmt.Errorf("%w: incomplete header", ErrBadASCIIGrid)
			}
			if ncols <= 0 || nrows <= 0 || cellSize <= 0 {
				return nil, fmt.Errorf("%w: non-positive dimensions", ErrBadASCIIGrid)
			}
			data = make([][]float64, nrows)
		}
		if row >= nrows {
			return nil, fmt.Errorf("%w: more than %d data rows", ErrBadASCIIGrid, nrows)
		}
		if len(fields) != ncols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrBadASCIIGrid, row, len(fields), ncols)
		}
		values := make([]float64, ncols)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: value %q in row %d", ErrBadASCIIGrid, field, row)
			}
			values[i] = v
		}
		data[row] = values
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if data == nil || row != nrows {
		return nil, fmt.Errorf("%w: %d data rows, want %d", ErrBadASCIIGrid, row, nrows)
	}

	// xll/yll address the lower-left cell; shift center-registered values to
	// the cell corner before deriving the top-left origin.
	if xCenter {
		xll -= cellSize / 2
	}
	if yCenter {
		yll -= cellSize / 2
	}
	grid := Grid{
		OriginX: xll,
		OriginY: yll + float64(nrows)*cellSize,
		PixelX:  cellSize,
		PixelY:  -cellSize,
		Width:   ncols,
		Height:  nrows,
	}
	mem, err := NewMemory(grid, data)
	if err != nil {
		return nil, err
	}
	if hasNoData {
		if err := mem.SetNoData(1, nodata); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

// WriteASCIIGrid writes one band of a source as an Esri ASCII grid. Only
// square-pixel, north-up grids (PixelY == -PixelX) can be represented.
func WriteASCIIGrid(w io.Writer, src Source, band int) error {
	g := src.Grid()
	if g.PixelX <= 0 || g.PixelY != -g.PixelX {
		return fmt.Errorf("%w: grid is not square-pixel north-up", ErrBadASCIIGrid)
	}
	values, err := src.Read(band, 0, 0, g.Width, g.Height)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", g.Width)
	fmt.Fprintf(bw, "nrows %d\n", g.Height)
	fmt.Fprintf(bw, "xllcorner %s\n", formatASCII(g.OriginX))
	fmt.Fprintf(bw, "yllcorner %s\n", formatASCII(g.OriginY-float64(g.Height)*g.PixelX))
	fmt.Fprintf(bw, "cellsize %s\n", formatASCII(g.PixelX))
	if nodata, ok := src.NoData(band); ok {
		fmt.Fprintf(bw, "NODATA_value %s\n", formatASCII(nodata))
	}
	for _, row := range values {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatASCII(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatASCII(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "xllcenter", "yllcorner", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}
