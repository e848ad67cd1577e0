package icons

import (
	"strings"
	"testing"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
)

func TestLibraryBuiltins(t *testing.T) {
	library := NewLibrary()
	for _, id := range []string{DefaultShapeID, DefaultSmallShapeID, "circle", "dot"} {
		if !library.Has(id) {
			t.Errorf("builtin shape %q missing", id)
		}
	}
}

func TestLibraryLoad(t *testing.T) {
	library := NewLibrary()
	document := `[
		{"id": "tree", "path": "M 0,-6 L 3,0 L -3,0 Z", "categories": ["nature"]},
		{"id": "bench", "path": "M -5,0 L 5,0", "right_directed": true}
	]`
	if err := library.Load(strings.NewReader(document)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shape, err := library.Get("tree")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shape.Categories[0] != "nature" {
		t.Errorf("unexpected categories: %v", shape.Categories)
	}

	bench, _ := library.Get("bench")
	if !bench.RightDirected {
		t.Error("expected bench to be right directed")
	}
}

func TestLibraryLoadNoID(t *testing.T) {
	library := NewLibrary()
	if err := library.Load(strings.NewReader(`[{"path": "M 0,0"}]`)); err == nil {
		t.Error("expected error for shape without identifier")
	}
}

func TestLibraryGetMissing(t *testing.T) {
	library := NewLibrary()
	_, err := library.Get("no_such_shape")
	missing, ok := err.(*ErrShapeMissing)
	if !ok {
		t.Fatalf("expected ErrShapeMissing, got %v", err)
	}
	if missing.ID != "no_such_shape" {
		t.Errorf("unexpected identifier: %q", missing.ID)
	}
}

func TestIconIsDefault(t *testing.T) {
	library := NewLibrary()
	if !library.Default(false).IsDefault() {
		t.Error("placeholder icon not reported as default")
	}
	if !library.Default(true).IsDefault() {
		t.Error("small placeholder icon not reported as default")
	}

	circle, _ := library.Get("circle")
	icon := Icon{Specifications: []ShapeSpecification{{Shape: circle}}}
	if icon.IsDefault() {
		t.Error("circle icon reported as default")
	}
}

func TestIconRecolor(t *testing.T) {
	library := NewLibrary()
	circle, _ := library.Get("circle")
	dot, _ := library.Get("dot")
	icon := Icon{Specifications: []ShapeSpecification{
		{Shape: circle, Color: colors.Black},
		{Shape: dot, Color: colors.White},
	}}

	red := colors.MustParse("#FF0000")
	recolored := icon.Recolor(red)
	for _, spec := range recolored.Specifications {
		if spec.Color != red {
			t.Errorf("shape %q not recolored", spec.Shape.ID)
		}
	}
	// The original must be untouched.
	if icon.Specifications[0].Color != colors.Black {
		t.Error("original icon mutated")
	}
}

func TestShapeSpecificationSVG(t *testing.T) {
	library := NewLibrary()
	circle, _ := library.Get("circle")

	svg := ShapeSpecification{Shape: circle, Color: colors.MustParse("#228B22")}.
		SVG(geometry.Vector{X: 10, Y: 20}, 1.0)
	if !strings.Contains(svg, `fill="#228B22"`) {
		t.Errorf("missing fill: %s", svg)
	}
	if !strings.Contains(svg, "translate(10.0,20.0)") {
		t.Errorf("missing translate: %s", svg)
	}

	flipped := ShapeSpecification{Shape: circle, FlipHorizontally: true}.
		SVG(geometry.Vector{}, 1.0)
	if !strings.Contains(flipped, "scale(-1,1)") {
		t.Errorf("missing mirror transform: %s", flipped)
	}
}
