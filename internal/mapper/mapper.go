// Package mapper wires the pipeline together: it renders a feature
// set for a boundary box into vector and raster artifacts, and
// adapts that to the per-tile generator the pyramid cache expects.
package mapper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/icons"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/pyramid"
	"github.com/pictomap/pictomap/internal/render"
	"github.com/pictomap/pictomap/internal/scheme"
)

// Mapper renders map artifacts with one fixed style, shape library,
// and option set. The style and library are immutable and may be
// shared across concurrent renders.
type Mapper struct {
	Style   *scheme.Scheme
	Library *icons.Library
	Options construct.Options
}

// New creates a mapper with the built-in style and shape library.
func New(options construct.Options) *Mapper {
	return &Mapper{
		Style:   scheme.Default(),
		Library: icons.NewLibrary(),
		Options: options,
	}
}

// Background returns the canvas background for the drawing mode.
func (m *Mapper) Background() colors.Color {
	switch m.Options.Mode {
	case construct.ModeBlack:
		return colors.Black
	case construct.ModeWhite, construct.ModeAuthor, construct.ModeTime:
		return colors.White
	}
	return render.DefaultBackground
}

// Render produces the vector and raster artifacts for a boundary box
// at the given zoom. The render is a pure function of its inputs, so
// identical calls yield byte-identical artifacts.
func (m *Mapper) Render(data *osm.Data, box geometry.BoundaryBox, zoom float64) (*pyramid.Artifact, error) {
	projector := geometry.NewProjector(box, zoom)
	set := construct.New(data, projector, m.Style, m.Library, m.Options).Construct()
	background := m.Background()

	var svg bytes.Buffer
	if err := render.WriteSVG(&svg, set, projector.Size(), render.SVGOptions{Background: background}); err != nil {
		return nil, fmt.Errorf("writing SVG: %w", err)
	}

	var png bytes.Buffer
	if err := render.WritePNG(&png, set, projector.Size(), background); err != nil {
		return nil, fmt.Errorf("writing PNG: %w", err)
	}

	return &pyramid.Artifact{SVG: svg.Bytes(), PNG: png.Bytes()}, nil
}

// DataSource supplies the feature set for a boundary box. The OSM
// downloader satisfies it; tests substitute fixed data.
type DataSource interface {
	Get(ctx context.Context, box geometry.BoundaryBox) (*osm.Data, error)
}

// StaticSource serves one pre-loaded data set for every request.
type StaticSource struct {
	Data *osm.Data
}

func (s StaticSource) Get(ctx context.Context, box geometry.BoundaryBox) (*osm.Data, error) {
	return s.Data, nil
}

// IndexedSource serves per-box subsets of one pre-loaded data set
// through a spatial index, so a tile render does not walk features far
// outside its bounds.
type IndexedSource struct {
	data  *osm.Data
	index *osm.Index
}

// NewIndexedSource builds the spatial index over the data set.
func NewIndexedSource(data *osm.Data) *IndexedSource {
	return &IndexedSource{data: data, index: osm.NewIndex(data)}
}

func (s *IndexedSource) Get(ctx context.Context, box geometry.BoundaryBox) (*osm.Data, error) {
	subset := osm.NewData()
	for _, way := range s.index.Ways(box) {
		for _, node := range way.Nodes {
			subset.AddNode(node)
		}
		subset.AddWay(way)
	}
	for _, node := range s.index.Nodes(box) {
		subset.AddNode(node)
	}
	// Relations are kept whole; their member ways were already
	// selected spatially.
	for _, relation := range s.data.Relations {
		keep := false
		for _, member := range relation.Members {
			if member.Type == "way" && subset.WayByID[member.Ref] != nil {
				keep = true
				break
			}
		}
		if keep {
			subset.AddRelation(relation)
		}
	}
	return subset, nil
}

// TileGenerator adapts the mapper to the pyramid cache: each tile's
// data is fetched for its rounded boundary box and rendered at the
// tile's zoom.
func (m *Mapper) TileGenerator(source DataSource) pyramid.GenerateFunc {
	return func(ctx context.Context, tile pyramid.Tile) (*pyramid.Artifact, error) {
		box := tile.Box()
		data, err := source.Get(ctx, box.Round())
		if err != nil {
			return nil, fmt.Errorf("fetching data for %s: %w", tile, err)
		}
		return m.Render(data, box, float64(tile.Zoom))
	}
}
