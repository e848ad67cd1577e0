package geometry

import (
	"math"
	"testing"
)

func TestParseBoundaryBox(t *testing.T) {
	box, err := ParseBoundaryBox("-0.565,-0.572,-0.555,-0.562")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if box.Left != -0.565 || box.Bottom != -0.572 || box.Right != -0.555 || box.Top != -0.562 {
		t.Errorf("unexpected box: %v", box)
	}
}

func TestParseBoundaryBoxSpaces(t *testing.T) {
	if _, err := ParseBoundaryBox("2.361, 48.871, 2.368, 48.875"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseBoundaryBoxInvalid(t *testing.T) {
	cases := []string{
		"0,0,0",             // Too few values.
		"0,0,0,0,0",         // Too many values.
		"0,0,0,font-size:4", // Not a number.
		"1,0,0,1",           // Negative horizontal boundary.
		"0,1,1,0",           // Negative vertical boundary.
		"0,0,0.6,0.1",       // Too wide.
		"0,0,0.1,0.6",       // Too tall.
	}
	for _, text := range cases {
		if _, err := ParseBoundaryBox(text); err == nil {
			t.Errorf("ParseBoundaryBox(%q): expected error", text)
		}
	}
}

func TestBoundaryBoxRound(t *testing.T) {
	box := BoundaryBox{Left: 10.067596435546875, Bottom: 46.094186348449115, Right: 10.0689697265625, Top: 46.09514783122928}
	rounded := box.Round()

	expected := BoundaryBox{Left: 10.067, Bottom: 46.093, Right: 10.07, Top: 46.096}
	const epsilon = 1e-9
	if math.Abs(rounded.Left-expected.Left) > epsilon ||
		math.Abs(rounded.Bottom-expected.Bottom) > epsilon ||
		math.Abs(rounded.Right-expected.Right) > epsilon ||
		math.Abs(rounded.Top-expected.Top) > epsilon {
		t.Errorf("Round() = %v, expected %v", rounded, expected)
	}
}

func TestBoundaryBoxFormat(t *testing.T) {
	box := BoundaryBox{Left: 2.3612, Bottom: 48.8712, Right: 2.3679, Top: 48.8748}
	if got := box.Format(); got != "2.361,48.871,2.368,48.875" {
		t.Errorf("Format() = %q", got)
	}
}

func TestBoundaryBoxCenter(t *testing.T) {
	box := BoundaryBox{Left: 2.0, Bottom: 48.0, Right: 2.2, Top: 48.4}
	lat, lon := box.Center()
	if math.Abs(lat-48.2) > 1e-9 || math.Abs(lon-2.1) > 1e-9 {
		t.Errorf("Center() = (%g, %g)", lat, lon)
	}
}

func TestBoundaryBoxUpdate(t *testing.T) {
	box := BoundaryBox{Left: 0, Bottom: 0, Right: 1, Top: 1}
	box.Update(2.0, -1.0)
	if box.Left != -1.0 || box.Top != 2.0 || box.Right != 1.0 || box.Bottom != 0.0 {
		t.Errorf("unexpected box after update: %v", box)
	}
}

func TestBoundaryBoxIntersects(t *testing.T) {
	a := BoundaryBox{Left: 0, Bottom: 0, Right: 1, Top: 1}
	b := BoundaryBox{Left: 0.5, Bottom: 0.5, Right: 1.5, Top: 1.5}
	c := BoundaryBox{Left: 2, Bottom: 2, Right: 3, Top: 3}
	if !a.Intersects(b) {
		t.Error("expected a to intersect b")
	}
	if a.Intersects(c) {
		t.Error("expected a not to intersect c")
	}
}
