package osm

import (
	"time"

	"github.com/pictomap/pictomap/internal/geometry"
)

// Element holds the fields shared by nodes, ways, and relations.
type Element struct {
	ID        int64
	Tags      Tags
	User      string
	Timestamp time.Time
}

// Node is a single tagged point on the map.
type Node struct {
	Element
	Lat float64
	Lon float64
}

// Way is an ordered sequence of nodes describing a linear or area
// feature. A way whose first and last nodes coincide is a cycle and
// may describe an area.
type Way struct {
	Element
	Nodes []*Node
}

// IsCycle reports whether the way forms a closed ring.
func (w *Way) IsCycle() bool {
	return len(w.Nodes) >= 3 && w.Nodes[0].ID == w.Nodes[len(w.Nodes)-1].ID
}

// Member is a single entry of a relation.
type Member struct {
	Type string // "node", "way", or "relation".
	Ref  int64
	Role string // "outer", "inner", or free-form.
}

// Relation groups nodes and ways into a compound feature, most
// commonly a multipolygon with outer and inner rings.
type Relation struct {
	Element
	Members []Member
}

// Data is a complete parsed OpenStreetMap extract. Iteration order
// over the slices follows document order, which keeps rendering
// deterministic.
type Data struct {
	NodeByID     map[int64]*Node
	WayByID      map[int64]*Way
	RelationByID map[int64]*Relation

	Nodes     []*Node
	Ways      []*Way
	Relations []*Relation

	// Box is the geographic extent of all nodes.
	Box geometry.BoundaryBox

	hasBox bool
}

// NewData returns an empty data set.
func NewData() *Data {
	return &Data{
		NodeByID:     make(map[int64]*Node),
		WayByID:      make(map[int64]*Way),
		RelationByID: make(map[int64]*Relation),
	}
}

// AddNode registers a node. Duplicate identifiers are ignored.
func (d *Data) AddNode(node *Node) {
	if _, ok := d.NodeByID[node.ID]; ok {
		return
	}
	d.NodeByID[node.ID] = node
	d.Nodes = append(d.Nodes, node)
	if !d.hasBox {
		d.Box = geometry.BoundaryBox{Left: node.Lon, Bottom: node.Lat, Right: node.Lon, Top: node.Lat}
		d.hasBox = true
	} else {
		d.Box.Update(node.Lat, node.Lon)
	}
}

// AddWay registers a way. Duplicate identifiers are ignored.
func (d *Data) AddWay(way *Way) {
	if _, ok := d.WayByID[way.ID]; ok {
		return
	}
	d.WayByID[way.ID] = way
	d.Ways = append(d.Ways, way)
}

// AddRelation registers a relation. Duplicate identifiers are ignored.
func (d *Data) AddRelation(relation *Relation) {
	if _, ok := d.RelationByID[relation.ID]; ok {
		return
	}
	d.RelationByID[relation.ID] = relation
	d.Relations = append(d.Relations, relation)
}
