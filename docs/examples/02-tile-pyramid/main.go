package main

import (
	"context"
	"fmt"
	"log"

	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/mapper"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/pyramid"
)

func main() {
	box, err := geometry.ParseBoundaryBox("2.361,48.871,2.368,48.875")
	if err != nil {
		log.Fatal(err)
	}

	// Plan coverage for zooms 17 and 18
	zooms, err := pyramid.ParseZoomSpec("17-18")
	if err != nil {
		log.Fatal(err)
	}
	coverage := pyramid.Plan(box, zooms)
	fmt.Printf("Effective box: %s\n", coverage.EffectiveBox.Format())

	// One download covers every tile
	data, err := osm.NewDownloader("cache").Get(context.Background(), coverage.EffectiveBox)
	if err != nil {
		log.Fatal(err)
	}

	// Generate each zoom level across a worker pool
	generate := mapper.New(construct.DefaultOptions()).TileGenerator(mapper.StaticSource{Data: data})
	tiler := pyramid.NewTiler(pyramid.NewCache(0), generate)
	for _, plan := range coverage.Zooms {
		result := tiler.Batch(context.Background(), plan.Tiles, 0)
		fmt.Printf("Zoom %d: %d tiles, %d failures\n",
			plan.Zoom, len(result.Successes), len(result.Failures))
	}
}
