package pyramid

import "github.com/pictomap/pictomap/internal/geometry"

// ZoomPlan is the covering tile set for one zoom level.
type ZoomPlan struct {
	Zoom int

	// Tiles is the minimal covering set, ordered row by row.
	Tiles []Tile

	// Box is the union of the tiles' geographic bounds.
	Box geometry.BoundaryBox
}

// Coverage is the result of planning a boundary box across zoom
// levels.
type Coverage struct {
	Zooms []ZoomPlan

	// EffectiveBox is the tile-aligned union across all zoom levels,
	// expanded by the seam margin and rounded for cache-key
	// stability.
	EffectiveBox geometry.BoundaryBox
}

// Cover returns the minimal set of tiles at one zoom whose union
// covers the boundary box: the inclusive integer range between the
// tiles containing the box corners.
func Cover(box geometry.BoundaryBox, zoom int) ZoomPlan {
	topLeft := TileAt(box.Top, box.Left, zoom)
	bottomRight := TileAt(box.Bottom, box.Right, zoom)

	plan := ZoomPlan{Zoom: zoom}
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			plan.Tiles = append(plan.Tiles, Tile{Zoom: zoom, X: x, Y: y})
		}
	}

	plan.Box = topLeft.Box()
	plan.Box.Combine(bottomRight.Box())
	return plan
}

// Plan computes covering tile sets for every requested zoom level and
// the effective boundary box aligned to them.
func Plan(box geometry.BoundaryBox, zooms []int) Coverage {
	coverage := Coverage{}
	for index, zoom := range zooms {
		plan := Cover(box, zoom)
		coverage.Zooms = append(coverage.Zooms, plan)
		if index == 0 {
			coverage.EffectiveBox = plan.Box
		} else {
			coverage.EffectiveBox.Combine(plan.Box)
		}
	}
	coverage.EffectiveBox = coverage.EffectiveBox.Round()
	return coverage
}
