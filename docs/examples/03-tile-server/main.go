package main

import (
	"log"

	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/mapper"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/pyramid"
	"github.com/pictomap/pictomap/internal/server"
)

func main() {
	// Tiles are generated on demand and cached in memory
	generate := mapper.New(construct.DefaultOptions()).TileGenerator(osm.NewDownloader("cache"))
	tiler := pyramid.NewTiler(pyramid.NewCache(0), generate)

	// GET /tiles/18/132791/90164.png
	log.Fatal(server.New(tiler).ListenAndServe(":8080"))
}
