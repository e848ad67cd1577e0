// Package icons manages the pictogram library: vector shapes on a
// 16 by 16 unit grid, colored shape specifications, and the icons
// composed from them.
package icons

import (
	"fmt"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
)

// Identifiers of the placeholder shapes drawn when no specific
// pictogram is known for a tagged feature.
const (
	DefaultShapeID      = "default"
	DefaultSmallShapeID = "default_small"
)

// GridSize is the side length of the shape coordinate grid. Shape
// paths are defined centered on the origin within this grid.
const GridSize = 16.0

// Shape is a single reusable pictogram outline.
type Shape struct {
	// ID is the unique shape identifier used by style rules.
	ID string `json:"id"`

	// Path is the SVG path data, centered on the origin.
	Path string `json:"path"`

	// Offset shifts the shape from the grid center.
	Offset [2]float64 `json:"offset,omitempty"`

	// Name is a human-readable description.
	Name string `json:"name,omitempty"`

	// Categories group shapes for documentation purposes.
	Categories []string `json:"categories,omitempty"`

	// RightDirected marks shapes that depict something facing right
	// and must be mirrored when drawn facing left.
	RightDirected bool `json:"right_directed,omitempty"`

	// Emojis lists equivalent emoji characters, if any.
	Emojis []string `json:"emojis,omitempty"`
}

// ErrShapeMissing is returned when a style rule references a shape
// identifier that is not in the library.
type ErrShapeMissing struct {
	ID string
}

func (e *ErrShapeMissing) Error() string {
	return fmt.Sprintf("shape %q is not in the library", e.ID)
}

// Library is a collection of shapes addressable by identifier.
type Library struct {
	shapes map[string]*Shape
}

// NewLibrary returns a library holding only the built-in placeholder
// shapes.
func NewLibrary() *Library {
	library := &Library{shapes: make(map[string]*Shape)}
	for i := range builtinShapes {
		library.shapes[builtinShapes[i].ID] = &builtinShapes[i]
	}
	return library
}

// Load merges shape definitions from a JSON document into the
// library. Later definitions override earlier ones with the same
// identifier.
func (l *Library) Load(r io.Reader) error {
	var shapes []Shape
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&shapes); err != nil {
		return fmt.Errorf("decoding shape library: %w", err)
	}
	for i := range shapes {
		if shapes[i].ID == "" {
			return fmt.Errorf("shape %d has no identifier", i)
		}
		l.shapes[shapes[i].ID] = &shapes[i]
	}
	return nil
}

// LoadFile merges shape definitions from a JSON file.
func (l *Library) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening shape library: %w", err)
	}
	defer file.Close()

	if err := l.Load(file); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Get returns the shape with the given identifier.
func (l *Library) Get(id string) (*Shape, error) {
	shape, ok := l.shapes[id]
	if !ok {
		return nil, &ErrShapeMissing{ID: id}
	}
	return shape, nil
}

// Has reports whether the identifier is in the library.
func (l *Library) Has(id string) bool {
	_, ok := l.shapes[id]
	return ok
}

// IDs returns all shape identifiers in sorted order.
func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.shapes))
	for id := range l.shapes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default returns the placeholder icon drawn for tagged features
// without a matching pictogram. Small placeholders are used where a
// full-size one would be too prominent.
func (l *Library) Default(small bool) Icon {
	id := DefaultShapeID
	if small {
		id = DefaultSmallShapeID
	}
	shape := l.shapes[id]
	return Icon{Specifications: []ShapeSpecification{{
		Shape: shape,
		Color: colors.MustParse("#444444"),
	}}}
}

// builtinShapes are the placeholder and direction shapes every
// library carries even without an external shape file.
var builtinShapes = []Shape{
	{
		ID:   DefaultShapeID,
		Path: "M -5,-5 L 5,-5 L 5,5 L -5,5 Z M -3,-3 L 3,-3 L 3,3 L -3,3 Z",
		Name: "default",
	},
	{
		ID:   DefaultSmallShapeID,
		Path: "M -2,-2 L 2,-2 L 2,2 L -2,2 Z",
		Name: "default small",
	},
	{
		ID:   "circle",
		Path: "M -4,0 A 4,4 0 1 0 4,0 A 4,4 0 1 0 -4,0 Z",
		Name: "circle",
	},
	{
		ID:   "dot",
		Path: "M -1.5,0 A 1.5,1.5 0 1 0 1.5,0 A 1.5,1.5 0 1 0 -1.5,0 Z",
		Name: "dot",
	},
	{
		ID:            "arrow_right",
		Path:          "M -5,-3 L 2,-3 L 2,-5 L 6,0 L 2,5 L 2,3 L -5,3 Z",
		Name:          "arrow pointing right",
		RightDirected: true,
	},
	{
		ID:         "tree",
		Path:       "M 0,-6 A 4,4 0 1 1 -0.1,-6 Z M -0.7,-2 L 0.7,-2 L 0.7,5 L -0.7,5 Z",
		Name:       "tree",
		Categories: []string{"nature"},
	},
	{
		ID:         "tree_broadleaved",
		Path:       "M -4,-4 A 4,4 0 1 1 4,-4 A 3,3 0 1 1 -4,-4 Z M -0.7,-2 L 0.7,-2 L 0.7,5 L -0.7,5 Z",
		Name:       "broadleaved tree",
		Categories: []string{"nature"},
	},
	{
		ID:         "tree_needleleaved",
		Path:       "M 0,-7 L 4,0 L 1,0 L 4,4 L 0.7,4 L 0.7,6 L -0.7,6 L -0.7,4 L -4,4 L -1,0 L -4,0 Z",
		Name:       "needleleaved tree",
		Categories: []string{"nature"},
	},
	{
		ID:   "bench",
		Path: "M -6,-2 L 6,-2 L 6,0 L -6,0 Z M -5,0 L -4,0 L -4,5 L -5,5 Z M 4,0 L 5,0 L 5,5 L 4,5 Z",
		Name: "bench",
	},
	{
		ID:   "waste_basket",
		Path: "M -4,-4 L 4,-4 L 3,5 L -3,5 Z M -2,-6 L 2,-6 L 2,-4 L -2,-4 Z",
		Name: "waste basket",
	},
	{
		ID:   "shop_convenience",
		Path: "M -6,-2 L 6,-2 L 5,5 L -5,5 Z M -4,-2 L -4,-4 A 4,4 0 0 1 4,-4 L 4,-2 L 2.5,-2 L 2.5,-4 A 2.5,2.5 0 0 0 -2.5,-4 L -2.5,-2 Z",
		Name: "shopping bag",
	},
	{
		ID:   "supermarket_cart",
		Path: "M -7,-5 L -4,-5 L -2,2 L 5,2 L 7,-3 L -3,-3 M -2,4 A 1.2,1.2 0 1 0 -2.1,4 Z M 4,4 A 1.2,1.2 0 1 0 3.9,4 Z",
		Name: "supermarket cart",
	},
	{
		ID:         "fire_hydrant",
		Path:       "M -3,5 L 3,5 L 3,-2 L 2,-2 L 2,-4 A 2,2 0 0 0 -2,-4 L -2,-2 L -3,-2 Z M -5,-1 L -3,-1 L -3,1 L -5,1 Z M 3,-1 L 5,-1 L 5,1 L 3,1 Z",
		Name:       "fire hydrant",
		Categories: []string{"emergency"},
	},
	{
		ID:   "binoculars",
		Path: "M -6,-2 A 2.5,2.5 0 1 0 -6,2 Z M 6,-2 A 2.5,2.5 0 1 1 6,2 Z M -2,-1 L 2,-1 L 2,1 L -2,1 Z",
		Name: "binoculars",
	},
	{
		ID:   "camera",
		Path: "M -6,-3 L 2,-3 L 2,3 L -6,3 Z M 2,-1 L 6,-3 L 6,3 L 2,1 Z",
		Name: "surveillance camera",
	},
	{
		ID:   "bus_stop_sign",
		Path: "M -4,-5 L 4,-5 L 4,1 L -4,1 Z M -3,-4 L 3,-4 L 3,-1 L -3,-1 Z M -0.7,1 L 0.7,1 L 0.7,6 L -0.7,6 Z",
		Name: "bus stop sign",
	},
	{
		ID:   "entrance",
		Path: "M -4,-5 L 4,-5 L 4,5 L -4,5 Z M -3,-4 L 3,-4 L 3,4 L -3,4 Z M 1,-0.7 A 0.7,0.7 0 1 0 1,0.7 Z",
		Name: "entrance",
	},
	{
		ID:   "lock",
		Path: "M -3,-1 L 3,-1 L 3,5 L -3,5 Z M -2,-1 L -2,-3 A 2,2 0 0 1 2,-3 L 2,-1 L 1,-1 L 1,-3 A 1,1 0 0 0 -1,-3 L -1,-1 Z",
		Name: "lock",
	},
	{
		ID:   "wheelchair",
		Path: "M -1,-5 A 1.5,1.5 0 1 0 -1.1,-5 Z M -1,-2 L -1,1 L 3,1 L 5,5 L 3.5,5 L 2,2 L -2,2 L -2,-2 Z M -2,0 A 4,4 0 1 0 3,4 L 2,3 A 3,3 0 1 1 -2,1 Z",
		Name: "wheelchair",
	},
}

// ShapeSpecification is a shape with its drawing parameters: color,
// extra offset, and mirroring.
type ShapeSpecification struct {
	Shape            *Shape
	Color            colors.Color
	Offset           geometry.Vector
	FlipHorizontally bool
	FlipVertically   bool
	UseOutline       bool
}

// SVG returns the shape specification rendered as an SVG path element
// at the given canvas position and scale.
func (s ShapeSpecification) SVG(position geometry.Vector, scale float64) string {
	shift := geometry.Vector{X: s.Shape.Offset[0], Y: s.Shape.Offset[1]}.Add(s.Offset)

	scaleX, scaleY := scale, scale
	if s.FlipHorizontally {
		scaleX = -scale
	}
	if s.FlipVertically {
		scaleY = -scale
	}

	transform := fmt.Sprintf("translate(%.1f,%.1f)", position.X+shift.X*scale, position.Y+shift.Y*scale)
	if scaleX != 1.0 || scaleY != 1.0 {
		transform += fmt.Sprintf(" scale(%g,%g)", scaleX, scaleY)
	}
	return fmt.Sprintf(`<path d="%s" fill="%s" transform="%s"/>`, s.Shape.Path, s.Color.Hex(), transform)
}

// Icon is an ordered stack of shape specifications drawn together.
type Icon struct {
	Specifications []ShapeSpecification

	// Opacity in [0, 1]. Zero means opaque for convenience.
	Opacity float64
}

// IsDefault reports whether the icon is a placeholder.
func (i Icon) IsDefault() bool {
	for _, spec := range i.Specifications {
		if spec.Shape != nil && (spec.Shape.ID == DefaultShapeID || spec.Shape.ID == DefaultSmallShapeID) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the icon has no shapes.
func (i Icon) IsEmpty() bool {
	return len(i.Specifications) == 0
}

// Recolor returns a copy of the icon with every shape drawn in the
// given color.
func (i Icon) Recolor(color colors.Color) Icon {
	specifications := make([]ShapeSpecification, len(i.Specifications))
	copy(specifications, i.Specifications)
	for index := range specifications {
		specifications[index].Color = color
	}
	return Icon{Specifications: specifications, Opacity: i.Opacity}
}

// ShapeIDs returns the identifiers of the icon's shapes in drawing
// order.
func (i Icon) ShapeIDs() []string {
	ids := make([]string, 0, len(i.Specifications))
	for _, spec := range i.Specifications {
		if spec.Shape != nil {
			ids = append(ids, spec.Shape.ID)
		}
	}
	return ids
}

// SVG renders the whole icon at the given canvas position and scale.
func (i Icon) SVG(position geometry.Vector, scale float64) string {
	var out string
	for _, spec := range i.Specifications {
		if spec.Shape == nil {
			continue
		}
		out += spec.SVG(position, scale)
	}
	return out
}

// Set is the result of icon composition for one feature: the main
// icon plus extra icons for secondary properties.
type Set struct {
	Main  Icon
	Extra []Icon

	// Processed lists the tag keys consumed while composing icons.
	Processed map[string]bool
}
