package construct

import (
	"math"
	"testing"

	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
)

func TestParseDirection(t *testing.T) {
	cases := []struct {
		text     string
		expected float64
	}{
		{"0", 0}, {"90", 90}, {"42.5", 42.5}, {"450", 90}, {"-90", 270},
		{"N", 0}, {"E", 90}, {"S", 180}, {"W", 270},
		{"NE", 45}, {"SSW", 202.5}, {"nw", 315},
	}
	for _, c := range cases {
		got, err := ParseDirection(c.text)
		if err != nil {
			t.Errorf("ParseDirection(%q): %v", c.text, err)
			continue
		}
		if math.Abs(got-c.expected) > 1e-9 {
			t.Errorf("ParseDirection(%q) = %g, expected %g", c.text, got, c.expected)
		}
	}
}

func TestParseDirectionInvalid(t *testing.T) {
	for _, text := range []string{"", "up", "north-ish"} {
		if _, err := ParseDirection(text); err == nil {
			t.Errorf("ParseDirection(%q): expected error", text)
		}
	}
}

func TestParseDirectionSet(t *testing.T) {
	set, err := ParseDirectionSet("120-240")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Sectors) != 1 || set.Sectors[0] != [2]float64{120, 240} {
		t.Errorf("unexpected sectors: %v", set.Sectors)
	}

	set, err = ParseDirectionSet("N;S")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Sectors) != 2 {
		t.Errorf("expected 2 sectors, got %d", len(set.Sectors))
	}

	panorama, err := ParseDirectionSet("panorama")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !panorama.Full {
		t.Error("expected full circle")
	}
}

func TestParseDirectionSetWraparound(t *testing.T) {
	set, err := ParseDirectionSet("350-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sector := set.Sectors[0]
	if sector != [2]float64{350, 370} {
		t.Errorf("unexpected sector: %v", sector)
	}
	// The wedge crosses north the short way, not the 340 degree
	// complement.
	if span := sector[1] - sector[0]; span != 20.0 {
		t.Errorf("span = %g degrees", span)
	}
}

func TestParseDirectionSetSingleBearingSpan(t *testing.T) {
	set, err := ParseDirectionSet("90")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sector := set.Sectors[0]
	// A single bearing spans the default half-angle on both sides.
	if math.Abs((sector[1]-sector[0])-30.0) > 1e-9 {
		t.Errorf("span = %g degrees", sector[1]-sector[0])
	}
}

func TestNewSectorsSurveillance(t *testing.T) {
	node := &osm.Node{Element: osm.Element{
		ID:   1,
		Tags: osm.Tags{"man_made": "surveillance", "camera:direction": "45"},
	}}
	figures := newSectors(node, geometry.Vector{X: 100, Y: 100})
	if len(figures) != 1 {
		t.Fatalf("expected 1 sector, got %d", len(figures))
	}
	sector := figures[0].(*SectorFigure)
	if !sector.FadeOut {
		t.Error("surveillance sector must fade outward")
	}
	if sector.Full {
		t.Error("directed camera must not be a full circle")
	}
}

func TestNewSectorsViewpoint(t *testing.T) {
	node := &osm.Node{Element: osm.Element{
		ID:   1,
		Tags: osm.Tags{"tourism": "viewpoint", "direction": "120-240"},
	}}
	figures := newSectors(node, geometry.Vector{})
	if len(figures) != 1 {
		t.Fatalf("expected 1 sector, got %d", len(figures))
	}
	if figures[0].(*SectorFigure).FadeOut {
		t.Error("viewpoint sector must fade inward")
	}
}

func TestNewSectorsNoDirection(t *testing.T) {
	node := &osm.Node{Element: osm.Element{ID: 1, Tags: osm.Tags{"amenity": "bench"}}}
	if figures := newSectors(node, geometry.Vector{}); figures != nil {
		t.Errorf("expected no sectors, got %v", figures)
	}
}
