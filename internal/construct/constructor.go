package construct

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/icons"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/scheme"
)

// extraIconSpacing is the distance between extra icons placed in a
// row under the main icon, in canvas pixels.
const extraIconSpacing = 12.0

// defaultOutline styles features whose tags matched no rule at all.
// They are drawn rather than silently dropped.
var defaultOutline = func() scheme.LineStyle {
	stroke := colors.MustParse("#BBBBBB")
	return scheme.LineStyle{Stroke: &stroke, StrokeWidth: 1.0, Opacity: 1.0, Layer: -1}
}()

// FigureSet is the ordered output of one construction pass, ready for
// the renderer.
type FigureSet struct {
	Figures []Figure
}

// Constructor turns a feature set into an ordered figure set. One
// constructor serves one render pass and is not safe for concurrent
// use; the scheme and library it reads are immutable and shared.
type Constructor struct {
	data      *osm.Data
	projector *geometry.Projector
	style     *scheme.Scheme
	library   *icons.Library
	options   Options

	figures []Figure
}

// New creates a constructor for one render pass.
func New(data *osm.Data, projector *geometry.Projector, style *scheme.Scheme, library *icons.Library, options Options) *Constructor {
	return &Constructor{
		data:      data,
		projector: projector,
		style:     style,
		library:   library,
		options:   options,
	}
}

// Construct runs the pipeline: ways and relations first, then nodes,
// then a stable sort by layer and priority. The result is
// deterministic for a fixed input.
func (c *Constructor) Construct() *FigureSet {
	switch c.options.Mode {
	case ModeAuthor, ModeTime, ModeWhite, ModeBlack:
		c.constructWireframe()
	default:
		c.constructWays()
		c.constructRelations()
		c.constructNodes()
	}

	sort.SliceStable(c.figures, func(i, j int) bool {
		layerI, priorityI := c.figures[i].SortKey()
		layerJ, priorityJ := c.figures[j].SortKey()
		if layerI != layerJ {
			return layerI < layerJ
		}
		return priorityI < priorityJ
	})
	return &FigureSet{Figures: c.figures}
}

func (c *Constructor) constructWays() {
	for _, way := range c.data.Ways {
		c.constructWay(way, way.Tags)
	}
}

func (c *Constructor) constructWay(way *osm.Way, tags osm.Tags) {
	if len(tags) == 0 || len(way.Nodes) < 2 {
		return
	}
	if !c.options.levelMatches(tags) {
		return
	}

	styled := false

	if road := c.style.MatchRoad(tags); road != nil {
		if figure := newRoad(way, road, c.projector); figure != nil {
			c.figures = append(c.figures, figure)
			styled = true
		}
	}

	if tags.Has("building") || tags.Has("building:part") {
		if figure := newBuilding(way, c.projector, c.style, c.options.ExtrudeBuildings); figure != nil {
			c.figures = append(c.figures, figure)
			styled = true
		}
	}

	plan := c.style.Resolve(tags, c.library)
	c.logMissing(plan)
	for _, line := range plan.Lines {
		line.Opacity *= plan.Opacity
		c.figures = append(c.figures, c.wayFigure(way, line))
		styled = true
	}

	if !styled {
		c.figures = append(c.figures, c.wayFigure(way, defaultOutline))
	}
}

func (c *Constructor) wayFigure(way *osm.Way, style scheme.LineStyle) *PathFigure {
	closed := way.IsCycle()
	figure := &PathFigure{
		Points: projectWay(way, c.projector),
		Closed: closed,
		Style:  style,
	}
	if !closed {
		// An open way cannot carry a fill.
		figure.Style.Fill = nil
		if figure.Style.Stroke == nil {
			figure.Style.Stroke = defaultOutline.Stroke
			figure.Style.StrokeWidth = defaultOutline.StrokeWidth
		}
	}
	return figure
}

// constructRelations draws tagged multipolygon relations: outer rings
// are glued from member ways and styled with the relation's tags.
func (c *Constructor) constructRelations() {
	for _, relation := range c.data.Relations {
		if relation.Tags.Get("type") != "multipolygon" || len(relation.Tags) < 2 {
			continue
		}
		if !c.options.levelMatches(relation.Tags) {
			continue
		}

		var outer []*osm.Way
		for _, member := range relation.Members {
			if member.Type != "way" || member.Role == "inner" {
				continue
			}
			if way, ok := c.data.WayByID[member.Ref]; ok {
				outer = append(outer, way)
			}
		}

		plan := c.style.Resolve(relation.Tags, c.library)
		c.logMissing(plan)
		if len(plan.Lines) == 0 {
			continue
		}
		for _, ring := range GlueWays(outer) {
			points := make([]geometry.Vector, 0, len(ring))
			for _, node := range ring {
				points = append(points, c.projector.Project(node.Lat, node.Lon))
			}
			for _, line := range plan.Lines {
				line.Opacity *= plan.Opacity
				c.figures = append(c.figures, &PathFigure{Points: points, Closed: true, Style: line})
			}
		}
	}
}

func (c *Constructor) constructNodes() {
	for _, node := range c.data.Nodes {
		if len(node.Tags) == 0 {
			continue
		}
		if !c.options.levelMatches(node.Tags) {
			continue
		}

		position := c.projector.Project(node.Lat, node.Lon)
		scale := c.projector.PixelsPerMeter(node.Lat)

		// Trees and craters with measured sizes are drawn true to
		// scale instead of as pictograms.
		switch node.Tags.Get("natural") {
		case "tree":
			if figures := newTree(node, position, scale, c.style); figures != nil {
				c.figures = append(c.figures, figures...)
				continue
			}
		case "crater":
			if figures := newCrater(node, position, scale); figures != nil {
				c.figures = append(c.figures, figures...)
				continue
			}
		}

		c.figures = append(c.figures, newSectors(node, position)...)

		plan := c.style.Resolve(node.Tags, c.library)
		c.logMissing(plan)

		main := plan.Icons.Main
		if main.IsEmpty() {
			// A tagged node with no matching rule still gets a
			// visible placeholder.
			main = c.library.Default(true)
		}
		c.figures = append(c.figures, &IconFigure{
			Icon:     main,
			Position: position,
			Opacity:  plan.Opacity,
			Priority: plan.Priority,
		})

		for index, extra := range plan.Icons.Extra {
			c.figures = append(c.figures, &IconFigure{
				Icon: extra,
				Position: position.Add(geometry.Vector{
					X: (float64(index) - float64(len(plan.Icons.Extra)-1)/2.0) * extraIconSpacing,
					Y: extraIconSpacing,
				}),
				Opacity:  plan.Opacity,
				Priority: plan.Priority - 1,
			})
		}

		for index, label := range constructLabels(node.Tags, c.options.Labels) {
			c.figures = append(c.figures, &LabelFigure{
				Text: label.Text,
				Position: position.Add(geometry.Vector{
					Y: extraIconSpacing*2.0 + float64(index)*(label.Size+2.0),
				}),
				Color:    label.Color,
				Size:     label.Size,
				Priority: plan.Priority,
			})
		}
	}
}

// constructWireframe draws every way as a single stroked path whose
// color encodes authorship or edit age.
func (c *Constructor) constructWireframe() {
	oldest, newest := c.timeRange()

	for _, way := range c.data.Ways {
		if len(way.Nodes) < 2 {
			continue
		}
		var stroke colors.Color
		switch c.options.Mode {
		case ModeAuthor:
			stroke = colors.ForAuthor(c.options.Seed, way.User)
		case ModeTime:
			stroke = ageColor(way.Timestamp, oldest, newest)
		case ModeBlack:
			stroke = colors.White
		default:
			stroke = colors.Black
		}
		style := scheme.LineStyle{Stroke: &stroke, StrokeWidth: 1.0, Opacity: 1.0}
		c.figures = append(c.figures, &PathFigure{
			Points: projectWay(way, c.projector),
			Closed: way.IsCycle(),
			Style:  style,
		})
	}
}

func (c *Constructor) timeRange() (oldest, newest time.Time) {
	for _, way := range c.data.Ways {
		if way.Timestamp.IsZero() {
			continue
		}
		if oldest.IsZero() || way.Timestamp.Before(oldest) {
			oldest = way.Timestamp
		}
		if way.Timestamp.After(newest) {
			newest = way.Timestamp
		}
	}
	return oldest, newest
}

// ageGradient runs from old edits (gray) to recent ones (red).
var ageGradient = []colors.Color{
	colors.MustParse("#CCCCCC"),
	colors.MustParse("#3366CC"),
	colors.MustParse("#CC3333"),
}

func ageColor(timestamp, oldest, newest time.Time) colors.Color {
	if timestamp.IsZero() || !newest.After(oldest) {
		return ageGradient[0]
	}
	coefficient := float64(timestamp.Sub(oldest)) / float64(newest.Sub(oldest))
	return colors.Gradient(ageGradient, coefficient)
}

func (c *Constructor) logMissing(plan *scheme.DrawPlan) {
	for _, err := range plan.Missing {
		log.WithError(err).Warn("missing shape, placeholder substituted")
	}
}
