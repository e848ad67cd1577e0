package construct

import (
	"math"
	"testing"

	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/scheme"
)

func straightRoad(tags osm.Tags) *osm.Way {
	way := &osm.Way{Element: osm.Element{ID: 1, Tags: tags}}
	way.Nodes = []*osm.Node{
		{Element: osm.Element{ID: 1}, Lat: 48.872, Lon: 2.362},
		{Element: osm.Element{ID: 2}, Lat: 48.872, Lon: 2.364},
		{Element: osm.Element{ID: 3}, Lat: 48.8725, Lon: 2.366},
	}
	return way
}

func TestRoadLaneSeparators(t *testing.T) {
	style := scheme.Default()
	projector := testProjector()

	tags := osm.Tags{"highway": "primary", "lanes": "3"}
	figure := newRoad(straightRoad(tags), style.MatchRoad(tags), projector)
	if figure == nil {
		t.Fatal("expected a road figure")
	}

	// Three lanes yield exactly two internal separators.
	if len(figure.Separators) != 2 {
		t.Fatalf("expected 2 separators, got %d", len(figure.Separators))
	}

	// Without a width tag the width is lanes times the lane width.
	lat, _ := projector.Box().Center()
	expected := 3.0 * LaneWidth * projector.PixelsPerMeter(lat)
	if math.Abs(figure.Width-expected) > 1e-9 {
		t.Errorf("width = %g, expected %g", figure.Width, expected)
	}
}

func TestRoadExplicitWidthWins(t *testing.T) {
	style := scheme.Default()
	projector := testProjector()

	tags := osm.Tags{"highway": "primary", "lanes": "3", "width": "5"}
	figure := newRoad(straightRoad(tags), style.MatchRoad(tags), projector)

	lat, _ := projector.Box().Center()
	expected := 5.0 * projector.PixelsPerMeter(lat)
	if math.Abs(figure.Width-expected) > 1e-9 {
		t.Errorf("width = %g, expected %g", figure.Width, expected)
	}
}

func TestRoadSingleLaneNoSeparators(t *testing.T) {
	style := scheme.Default()
	tags := osm.Tags{"highway": "service", "lanes": "1"}
	figure := newRoad(straightRoad(tags), style.MatchRoad(tags), testProjector())
	if len(figure.Separators) != 0 {
		t.Errorf("expected no separators, got %d", len(figure.Separators))
	}
}

func TestRoadMalformedTags(t *testing.T) {
	style := scheme.Default()
	projector := testProjector()

	// Malformed numeric tags fall back to estimation, never abort.
	tags := osm.Tags{"highway": "residential", "lanes": "many", "width": "wide"}
	figure := newRoad(straightRoad(tags), style.MatchRoad(tags), projector)
	if figure == nil {
		t.Fatal("expected a road figure despite malformed tags")
	}

	lat, _ := projector.Box().Center()
	expected := DefaultLanes * LaneWidth * projector.PixelsPerMeter(lat)
	if math.Abs(figure.Width-expected) > 1e-9 {
		t.Errorf("width = %g, expected %g", figure.Width, expected)
	}
}

func TestLaneCount(t *testing.T) {
	cases := []struct {
		value    string
		expected int
	}{
		{"2", 2},
		{"3;2", 3},
		{" 4 ", 4},
		{"0", 0},
		{"-1", 0},
		{"many", 0},
	}
	for _, c := range cases {
		if got := laneCount(osm.Tags{"lanes": c.value}); got != c.expected {
			t.Errorf("laneCount(%q) = %d, expected %d", c.value, got, c.expected)
		}
	}
}

func TestOffsetPolylineParallel(t *testing.T) {
	points := []geometry.Vector{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 10},
	}
	shifted := offsetPolyline(points, 3.0)
	if len(shifted) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(shifted))
	}
	// End points keep the exact offset distance.
	if d := shifted[0].Sub(points[0]).Length(); math.Abs(d-3.0) > 1e-9 {
		t.Errorf("start offset = %g", d)
	}
	last := len(points) - 1
	if d := shifted[last].Sub(points[last]).Length(); math.Abs(d-3.0) > 1e-9 {
		t.Errorf("end offset = %g", d)
	}
}
