package scheme

import "strings"

// defaultDocument is the built-in style used when no external scheme
// file is given. It covers the common feature classes; project styles
// extend or replace it via LoadFile.
const defaultDocument = `
lifecycle_enabled: true

colors:
  building: "#F8DCA8"
  building_border: "#E0B254"
  default: "#444444"
  emergency: "#DD2222"
  grass: "#CFE0A8"
  outline: "#FFFFFF"
  road: "#FFFFFF"
  road_border: "#CCCCCC"
  motorway: "#FFAA33"
  primary: "#FFDD66"
  tree: "#98AC64"
  water: "#AACCFF"
  water_border: "#6688BB"

node_rules:
  - tags: {natural: tree}
    shapes: [tree]
    color: tree
    priority: 10
  - tags: {natural: tree, leaf_type: broadleaved}
    shapes: [tree_broadleaved]
    color: tree
    priority: 10
  - tags: {natural: tree, leaf_type: needleleaved}
    shapes: [tree_needleleaved]
    color: tree
    priority: 10
  - tags: {amenity: bench}
    shapes: [bench]
    priority: 5
  - tags: {amenity: waste_basket}
    shapes: [waste_basket]
    priority: 5
  - tags: {shop: "*"}
    shapes: [shop_convenience]
    priority: 8
  - tags: {shop: supermarket}
    shapes: [supermarket_cart]
    priority: 8
  - tags: {emergency: fire_hydrant}
    shapes: [fire_hydrant]
    color: emergency
    priority: 12
  - tags: {tourism: viewpoint}
    shapes: [binoculars]
    priority: 9
  - tags: {man_made: surveillance}
    shapes: [camera]
    priority: 9
  - tags: {highway: bus_stop}
    shapes: [bus_stop_sign]
    priority: 11
  - tags: {entrance: "*"}
    shapes: [entrance]
    priority: 4
  - tags: {natural: crater}
    shapes: [circle]
    priority: 3
  - tags: {access: private}
    add_shapes: [lock]
    priority: 2
  - tags: {wheelchair: "yes"}
    add_shapes: [wheelchair]
    priority: 2

way_rules:
  - tags: {building: "*"}
    style: {fill: building, stroke: building_border}
    layer: 2
  - tags: {natural: water}
    style: {fill: water, stroke: water_border, stroke-width: "1"}
    layer: -2
  - tags: {waterway: "*"}
    style: {stroke: water_border, stroke-width: "2"}
    layer: -2
  - tags: {landuse: grass}
    style: {fill: grass}
    layer: -3
  - tags: {leisure: park}
    style: {fill: grass}
    layer: -3
  - tags: {natural: wood}
    style: {fill: tree}
    layer: -3
  - tags: {barrier: fence}
    style: {stroke: default, stroke-width: "1"}
    layer: 1
  - tags: {barrier: wall}
    style: {stroke: default, stroke-width: "1.5"}
    layer: 1
  - tags: {highway: footway}
    style: {stroke: default, stroke-width: "1", stroke-dasharray: "4,2", opacity: "0.6"}
    layer: 0
  - tags: {railway: rail}
    style: {stroke: default, stroke-width: "2"}
    layer: 0

roads:
  - tags: {highway: motorway}
    color: motorway
    border_color: road_border
    priority: 50
  - tags: {highway: trunk}
    color: motorway
    border_color: road_border
    priority: 48
  - tags: {highway: primary}
    color: primary
    border_color: road_border
    priority: 46
  - tags: {highway: secondary}
    color: primary
    border_color: road_border
    priority: 44
  - tags: {highway: tertiary}
    color: road
    border_color: road_border
    priority: 42
  - tags: {highway: residential}
    color: road
    border_color: road_border
    priority: 40
  - tags: {highway: unclassified}
    color: road
    border_color: road_border
    priority: 38
  - tags: {highway: service}
    color: road
    border_color: road_border
    priority: 36
`

// Default returns the built-in style scheme.
func Default() *Scheme {
	scheme, err := Load(strings.NewReader(defaultDocument))
	if err != nil {
		// The built-in document is compiled in; failing to parse it
		// is a programming error.
		panic(err)
	}
	return scheme
}
