// Package pyramid manages the tile pyramid: mapping boundary boxes to
// covering tile sets, parsing zoom specifications, caching generated
// artifacts with at-most-once generation per key, and persisting
// raster tiles into MBTiles archives.
package pyramid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/pictomap/pictomap/internal/geometry"
)

// TileSize is the side length of one tile in pixels.
const TileSize = 256.0

// Zoom limits. Tiles beyond MaxZoom are rejected.
const (
	MinZoom     = 0
	MaxZoom     = 20
	DefaultZoom = 18
)

// Tile is one slippy-map tile coordinate. For a fixed zoom, (X, Y)
// uniquely partitions the projected globe.
type Tile struct {
	Zoom int
	X    int
	Y    int
}

// TileAt returns the tile containing the geographic point at the
// given zoom.
func TileAt(lat, lon float64, zoom int) Tile {
	t := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoom))
	return Tile{Zoom: zoom, X: int(t.X), Y: int(t.Y)}
}

// Valid reports whether the coordinate lies on the tile grid.
func (t Tile) Valid() bool {
	if t.Zoom < MinZoom || t.Zoom > MaxZoom {
		return false
	}
	side := 1 << t.Zoom
	return t.X >= 0 && t.X < side && t.Y >= 0 && t.Y < side
}

// Name returns the artifact base name, shared by the vector and
// raster siblings of the tile.
func (t Tile) Name() string {
	return fmt.Sprintf("tile_%d_%d_%d", t.Zoom, t.X, t.Y)
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// Box returns the geographic bounds of the tile.
func (t Tile) Box() geometry.BoundaryBox {
	bound := maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Zoom)).Bound()
	return geometry.BoundaryBox{
		Left:   bound.Min[0],
		Bottom: bound.Min[1],
		Right:  bound.Max[0],
		Top:    bound.Max[1],
	}
}
