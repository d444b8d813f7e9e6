package zonal_test

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/lindseysim/zonal"
	"github.com/lindseysim/zonal/raster"
	"github.com/lindseysim/zonal/vector"
)

// Example computes zonal statistics for two watershed polygons over an
// in-memory elevation raster.
func Example() {
	grid := raster.Grid{OriginX: 0, OriginY: 4, PixelX: 1, PixelY: -1, Width: 4, Height: 4}
	elevation, err := raster.NewMemory(grid, [][]float64{
		{10, 20, 30, 40},
		{15, 25, 35, 45},
		{20, 30, 40, 50},
		{25, 35, 45, 55},
	})
	if err != nil {
		log.Fatal(err)
	}

	fields := []vector.Field{{Name: "name", Type: vector.TypeString}}
	watersheds := vector.NewMemorySource(fields, []*vector.Feature{
		{
			ID:       1,
			Geometry: orb.Polygon{{{0, 2}, {2, 2}, {2, 4}, {0, 4}, {0, 2}}},
			Attributes: map[string]vector.Value{
				"name": vector.String("upper"),
			},
		},
		{
			ID:       2,
			Geometry: orb.Polygon{{{2, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 0}}},
			Attributes: map[string]vector.Value{
				"name": vector.String("lower"),
			},
		},
	})

	rows, err := zonal.Statistics(watersheds, []raster.Source{elevation}, zonal.Options{
		Statistics: []string{"MIN", "MAX", "MEAN"},
		NameField:  "name",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, row := range rows {
		fmt.Printf("%s: pixels=%d min=%.0f max=%.0f mean=%.2f\n",
			row["name"], row["count_total"], row["min"], row["max"], row["mean"])
	}

	// Output:
	// upper: pixels=4 min=10 max=25 mean=17.50
	// lower: pixels=4 min=40 max=55 mean=47.50
}
