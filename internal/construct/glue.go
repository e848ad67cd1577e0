package construct

import "github.com/pictomap/pictomap/internal/osm"

// GlueWays joins way fragments that share end nodes into rings. Ways
// that are already closed pass through unchanged; remaining fragments
// are chained, reversing where needed, until no fragment fits. Chains
// that never close are returned as-is so partial data still renders.
func GlueWays(ways []*osm.Way) [][]*osm.Node {
	var rings [][]*osm.Node
	var fragments [][]*osm.Node

	for _, way := range ways {
		if len(way.Nodes) < 2 {
			continue
		}
		if way.IsCycle() {
			rings = append(rings, normalizeRing(way.Nodes[:len(way.Nodes)-1]))
			continue
		}
		nodes := make([]*osm.Node, len(way.Nodes))
		copy(nodes, way.Nodes)
		fragments = append(fragments, nodes)
	}

	for len(fragments) > 0 {
		chain := fragments[0]
		fragments = fragments[1:]

		for {
			if chain[0].ID == chain[len(chain)-1].ID {
				break
			}
			extended := false
			for index, fragment := range fragments {
				joined, ok := join(chain, fragment)
				if !ok {
					continue
				}
				chain = joined
				fragments = append(fragments[:index], fragments[index+1:]...)
				extended = true
				break
			}
			if !extended {
				break
			}
		}

		if chain[0].ID == chain[len(chain)-1].ID {
			chain = chain[:len(chain)-1]
		}
		rings = append(rings, normalizeRing(chain))
	}
	return rings
}

// join appends a fragment to a chain if they share an end node,
// reversing either side as needed.
func join(chain, fragment []*osm.Node) ([]*osm.Node, bool) {
	head, tail := chain[0], chain[len(chain)-1]
	first, last := fragment[0], fragment[len(fragment)-1]

	switch {
	case tail.ID == first.ID:
		return append(chain, fragment[1:]...), true
	case tail.ID == last.ID:
		return append(chain, reverse(fragment)[1:]...), true
	case head.ID == last.ID:
		return append(fragment, chain[1:]...), true
	case head.ID == first.ID:
		return append(reverse(fragment), chain[1:]...), true
	}
	return nil, false
}

func reverse(nodes []*osm.Node) []*osm.Node {
	reversed := make([]*osm.Node, len(nodes))
	for index, node := range nodes {
		reversed[len(nodes)-1-index] = node
	}
	return reversed
}

// normalizeRing orients rings counterclockwise in geographic
// coordinates so fills are consistent regardless of the digitization
// direction.
func normalizeRing(nodes []*osm.Node) []*osm.Node {
	if len(nodes) < 3 || !isClockwise(nodes) {
		return nodes
	}
	return reverse(nodes)
}

// isClockwise uses the shoelace sum over (longitude, latitude) pairs.
func isClockwise(nodes []*osm.Node) bool {
	sum := 0.0
	for index, node := range nodes {
		next := nodes[(index+1)%len(nodes)]
		sum += (next.Lon - node.Lon) * (next.Lat + node.Lat)
	}
	return sum > 0
}
