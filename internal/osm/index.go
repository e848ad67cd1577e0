package osm

import (
	"github.com/dhconnelly/rtreego"

	"github.com/pictomap/pictomap/internal/geometry"
)

// pointEpsilon pads degenerate bounding boxes of point features so the
// R-tree accepts them.
const pointEpsilon = 0.0001

type nodeEntry struct {
	rect rtreego.Rect
	node *Node
}

func (e *nodeEntry) Bounds() rtreego.Rect { return e.rect }

type wayEntry struct {
	rect rtreego.Rect
	way  *Way
}

func (e *wayEntry) Bounds() rtreego.Rect { return e.rect }

// Index is a spatial index over the nodes and ways of a data set. It
// answers intersection queries for tile and map rendering without
// scanning the whole extract.
type Index struct {
	nodes *rtreego.Rtree
	ways  *rtreego.Rtree
}

// NewIndex builds a spatial index for the data set.
func NewIndex(data *Data) *Index {
	index := &Index{
		nodes: rtreego.NewTree(2, 25, 50),
		ways:  rtreego.NewTree(2, 25, 50),
	}
	for _, node := range data.Nodes {
		rect, err := rtreego.NewRect(
			rtreego.Point{node.Lon, node.Lat},
			[]float64{pointEpsilon, pointEpsilon},
		)
		if err != nil {
			continue
		}
		index.nodes.Insert(&nodeEntry{rect: rect, node: node})
	}
	for _, way := range data.Ways {
		rect, ok := wayRect(way)
		if !ok {
			continue
		}
		index.ways.Insert(&wayEntry{rect: rect, way: way})
	}
	return index
}

func wayRect(way *Way) (rtreego.Rect, bool) {
	if len(way.Nodes) == 0 {
		return rtreego.Rect{}, false
	}
	box := geometry.BoundaryBox{
		Left:   way.Nodes[0].Lon,
		Bottom: way.Nodes[0].Lat,
		Right:  way.Nodes[0].Lon,
		Top:    way.Nodes[0].Lat,
	}
	for _, node := range way.Nodes[1:] {
		box.Update(node.Lat, node.Lon)
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{box.Left, box.Bottom},
		[]float64{
			box.Right - box.Left + pointEpsilon,
			box.Top - box.Bottom + pointEpsilon,
		},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

func queryRect(box geometry.BoundaryBox) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{box.Left, box.Bottom},
		[]float64{box.Right - box.Left, box.Top - box.Bottom},
	)
}

// Nodes returns the nodes whose position intersects the boundary box.
func (i *Index) Nodes(box geometry.BoundaryBox) []*Node {
	rect, err := queryRect(box)
	if err != nil {
		return nil
	}
	results := i.nodes.SearchIntersect(rect)
	nodes := make([]*Node, 0, len(results))
	for _, result := range results {
		nodes = append(nodes, result.(*nodeEntry).node)
	}
	return nodes
}

// Ways returns the ways whose bounding box intersects the boundary
// box.
func (i *Index) Ways(box geometry.BoundaryBox) []*Way {
	rect, err := queryRect(box)
	if err != nil {
		return nil
	}
	results := i.ways.SearchIntersect(rect)
	ways := make([]*Way, 0, len(results))
	for _, result := range results {
		ways = append(ways, result.(*wayEntry).way)
	}
	return ways
}
