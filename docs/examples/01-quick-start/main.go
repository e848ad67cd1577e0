package main

import (
	"context"
	"log"
	"os"

	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/mapper"
	"github.com/pictomap/pictomap/internal/osm"
)

func main() {
	// Parse a boundary box
	box, err := geometry.ParseBoundaryBox("2.361,48.871,2.368,48.875")
	if err != nil {
		log.Fatal(err)
	}

	// Read map data from a file
	data, err := osm.ReadFile(context.Background(), "map.osm")
	if err != nil {
		log.Fatal(err)
	}

	// Render with default options
	artifact, err := mapper.New(construct.DefaultOptions()).Render(data, box, 18)
	if err != nil {
		log.Fatal(err)
	}

	// Write both artifacts
	if err := os.WriteFile("map.svg", artifact.SVG, 0o644); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("map.png", artifact.PNG, 0o644); err != nil {
		log.Fatal(err)
	}
}
