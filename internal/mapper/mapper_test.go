package mapper

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/pyramid"
)

func sampleData() *osm.Data {
	data := osm.NewData()
	data.AddNode(&osm.Node{
		Element: osm.Element{
			ID:        1,
			Tags:      osm.Tags{"natural": "tree"},
			Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Lat: 48.8730,
		Lon: 2.3640,
	})
	return data
}

func parisBox(t *testing.T) geometry.BoundaryBox {
	t.Helper()
	box, err := geometry.ParseBoundaryBox("2.361,48.871,2.368,48.875")
	if err != nil {
		t.Fatal(err)
	}
	return box
}

func TestRenderProducesBothArtifacts(t *testing.T) {
	m := New(construct.DefaultOptions())
	artifact, err := m.Render(sampleData(), parisBox(t), 18)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(artifact.SVG, []byte("<?xml")) {
		t.Errorf("SVG artifact does not start with an XML declaration")
	}
	pngSignature := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(artifact.PNG, pngSignature) {
		t.Errorf("PNG artifact does not start with the PNG signature")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	m := New(construct.DefaultOptions())
	first, err := m.Render(sampleData(), parisBox(t), 18)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Render(sampleData(), parisBox(t), 18)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.SVG, second.SVG) {
		t.Errorf("two renders of the same data produced different SVG")
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Errorf("two renders of the same data produced different PNG")
	}
}

func TestIndexedSourceSubsets(t *testing.T) {
	data := sampleData()
	data.AddNode(&osm.Node{
		Element: osm.Element{ID: 2, Tags: osm.Tags{"natural": "tree"}},
		Lat:     50.0,
		Lon:     8.0,
	})

	source := NewIndexedSource(data)
	subset, err := source.Get(context.Background(), parisBox(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(subset.Nodes) != 1 || subset.Nodes[0].ID != 1 {
		t.Errorf("expected only the Paris node, got %v", subset.Nodes)
	}
}

func TestTileGenerator(t *testing.T) {
	m := New(construct.DefaultOptions())
	generate := m.TileGenerator(StaticSource{Data: sampleData()})

	tile := pyramid.TileAt(48.8730, 2.3640, 18)
	artifact, err := generate(context.Background(), tile)
	if err != nil {
		t.Fatal(err)
	}
	if len(artifact.SVG) == 0 || len(artifact.PNG) == 0 {
		t.Errorf("tile generator returned an empty artifact")
	}
}
