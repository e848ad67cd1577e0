// Package render serializes figure sets: an SVG document writer for
// vector output and a rasterizer producing PNG tiles.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/scheme"
)

// DefaultBackground is the map background color.
var DefaultBackground = colors.MustParse("#EEEEEE")

// SVGOptions configure the vector output.
type SVGOptions struct {
	Background colors.Color
}

// WriteSVG serializes a figure set as an SVG document of the given
// pixel size. Figures are emitted in set order; the set is already
// sorted by the constructor.
func WriteSVG(w io.Writer, set *construct.FigureSet, size geometry.Vector, options SVGOptions) error {
	writer := &svgWriter{w: w}

	writer.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	writer.printf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f">`+"\n",
		size.X, size.Y,
	)
	writer.writeGradients(set)
	writer.printf(
		`<rect width="%.0f" height="%.0f" fill="%s"/>`+"\n",
		size.X, size.Y, options.Background.Hex(),
	)

	for _, figure := range set.Figures {
		switch f := figure.(type) {
		case *construct.PathFigure:
			writer.writePath(f)
		case *construct.BuildingFigure:
			writer.writeBuilding(f)
		case *construct.RoadFigure:
			writer.writeRoadCasing(f)
		case *construct.CircleFigure:
			writer.writeCircle(f)
		case *construct.CraterFigure:
			writer.writeCrater(f)
		}
	}
	// Road fills and separators go over every casing so crossing
	// roads merge visually.
	for _, figure := range set.Figures {
		if road, ok := figure.(*construct.RoadFigure); ok {
			writer.writeRoadFill(road)
		}
	}
	for _, figure := range set.Figures {
		switch f := figure.(type) {
		case *construct.SectorFigure:
			writer.writeSector(f)
		case *construct.IconFigure:
			writer.writeIcon(f)
		case *construct.LabelFigure:
			writer.writeLabel(f)
		}
	}

	writer.printf("</svg>\n")
	return writer.err
}

type svgWriter struct {
	w        io.Writer
	err      error
	gradient int
	crater   int
}

func (s *svgWriter) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func polyline(points []geometry.Vector, closed bool) string {
	var builder strings.Builder
	for index, point := range points {
		command := "L"
		if index == 0 {
			command = "M"
		}
		fmt.Fprintf(&builder, "%s %.1f,%.1f ", command, point.X, point.Y)
	}
	if closed {
		builder.WriteString("Z")
	}
	return strings.TrimSpace(builder.String())
}

func styleAttributes(style scheme.LineStyle) string {
	var builder strings.Builder
	if style.Fill != nil {
		fmt.Fprintf(&builder, ` fill="%s"`, style.Fill.Hex())
	} else {
		builder.WriteString(` fill="none"`)
	}
	if style.Stroke != nil {
		fmt.Fprintf(&builder, ` stroke="%s"`, style.Stroke.Hex())
		width := style.StrokeWidth
		if width <= 0 {
			width = 1.0
		}
		fmt.Fprintf(&builder, ` stroke-width="%g"`, width)
	}
	if style.Dashes != "" {
		fmt.Fprintf(&builder, ` stroke-dasharray="%s"`, style.Dashes)
	}
	if style.Opacity > 0 && style.Opacity < 1.0 {
		fmt.Fprintf(&builder, ` opacity="%.2f"`, style.Opacity)
	}
	return builder.String()
}

func (s *svgWriter) writePath(figure *construct.PathFigure) {
	if len(figure.Points) < 2 {
		return
	}
	s.printf(
		`<path d="%s"%s/>`+"\n",
		polyline(figure.Points, figure.Closed),
		styleAttributes(figure.Style),
	)
}

func (s *svgWriter) writeBuilding(figure *construct.BuildingFigure) {
	if figure.Height == 0 {
		s.printf(
			`<path d="%s" fill="%s" stroke="%s"/>`+"\n",
			polyline(figure.Footprint, true),
			figure.FillColor.Hex(), figure.LineColor.Hex(),
		)
		return
	}
	for _, wall := range figure.Walls {
		s.printf(
			`<path d="%s" fill="%s" stroke="%s" stroke-width="0.5"/>`+"\n",
			polyline(wall.Points, true),
			wall.Color.Hex(), figure.LineColor.Hex(),
		)
	}
	s.printf(
		`<path d="%s" fill="%s" stroke="%s"/>`+"\n",
		polyline(figure.Roof, true),
		figure.FillColor.Hex(), figure.LineColor.Hex(),
	)
}

func (s *svgWriter) writeRoadCasing(figure *construct.RoadFigure) {
	s.printf(
		`<path d="%s" fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		polyline(figure.Points, false),
		figure.Style.BorderColor.Hex(), figure.Width+2.0,
	)
}

func (s *svgWriter) writeRoadFill(figure *construct.RoadFigure) {
	s.printf(
		`<path d="%s" fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		polyline(figure.Points, false),
		figure.Style.Color.Hex(), figure.Width,
	)
	for _, separator := range figure.Separators {
		s.printf(
			`<path d="%s" fill="none" stroke="%s" stroke-width="0.5" stroke-dasharray="6,3"/>`+"\n",
			polyline(separator, false),
			figure.Style.BorderColor.Hex(),
		)
	}
}

// writeGradients emits one radial gradient definition per sector and
// crater figure, numbered in set order so output stays deterministic.
func (s *svgWriter) writeGradients(set *construct.FigureSet) {
	sectors, craters := 0, 0
	var builder strings.Builder
	for _, figure := range set.Figures {
		switch f := figure.(type) {
		case *construct.SectorFigure:
			inner, outer := 0.5, 0.0
			if !f.FadeOut {
				inner, outer = 0.0, 0.5
			}
			fmt.Fprintf(&builder,
				`<radialGradient id="sector%d"><stop offset="0%%" stop-color="%s" stop-opacity="%.2f"/><stop offset="100%%" stop-color="%s" stop-opacity="%.2f"/></radialGradient>`+"\n",
				sectors, f.Color.Hex(), inner, f.Color.Hex(), outer,
			)
			sectors++
		case *construct.CraterFigure:
			// The ridge is transparent in the middle and solid at the
			// rim; the gradient center is shifted off the geometric
			// center.
			fmt.Fprintf(&builder,
				`<radialGradient id="crater%d" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.1f"><stop offset="0%%" stop-color="%s" stop-opacity="0.2"/><stop offset="70%%" stop-color="%s" stop-opacity="0.2"/><stop offset="100%%" stop-color="%s" stop-opacity="1"/></radialGradient>`+"\n",
				craters, f.Gradient.X, f.Gradient.Y, f.Radius,
				f.Color.Hex(), f.Color.Hex(), f.Color.Hex(),
			)
			craters++
		}
	}
	if sectors > 0 || craters > 0 {
		s.printf("<defs>\n%s</defs>\n", builder.String())
	}
}

func (s *svgWriter) writeCircle(figure *construct.CircleFigure) {
	opacity := ""
	if figure.Opacity > 0 && figure.Opacity < 1.0 {
		opacity = fmt.Sprintf(` opacity="%.2f"`, figure.Opacity)
	}
	s.printf(
		`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>`+"\n",
		figure.Center.X, figure.Center.Y, figure.Radius, figure.Color.Hex(), opacity,
	)
}

func (s *svgWriter) writeCrater(figure *construct.CraterFigure) {
	id := fmt.Sprintf("crater%d", s.crater)
	s.crater++
	s.printf(
		`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)" opacity="0.2"/>`+"\n",
		figure.Center.X, figure.Center.Y, figure.Radius, id,
	)
}

func (s *svgWriter) writeSector(figure *construct.SectorFigure) {
	id := fmt.Sprintf("sector%d", s.gradient)
	s.gradient++

	if figure.Full {
		s.printf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)"/>`+"\n",
			figure.Center.X, figure.Center.Y, figure.Radius, id,
		)
		return
	}

	start := geometry.Vector{X: math.Cos(figure.Start), Y: math.Sin(figure.Start)}.
		Scale(figure.Radius).Add(figure.Center)
	end := geometry.Vector{X: math.Cos(figure.End), Y: math.Sin(figure.End)}.
		Scale(figure.Radius).Add(figure.Center)
	large := 0
	if math.Abs(figure.End-figure.Start) > math.Pi {
		large = 1
	}
	s.printf(
		`<path d="M %.1f,%.1f L %.1f,%.1f A %.1f,%.1f 0 %d 1 %.1f,%.1f Z" fill="url(#%s)"/>`+"\n",
		figure.Center.X, figure.Center.Y,
		start.X, start.Y,
		figure.Radius, figure.Radius, large,
		end.X, end.Y, id,
	)
}

func (s *svgWriter) writeIcon(figure *construct.IconFigure) {
	if figure.Opacity > 0 && figure.Opacity < 1.0 {
		s.printf(`<g opacity="%.2f">`+"\n", figure.Opacity)
		s.printf("%s\n", figure.Icon.SVG(figure.Position, 1.0))
		s.printf("</g>\n")
		return
	}
	s.printf("%s\n", figure.Icon.SVG(figure.Position, 1.0))
}

func (s *svgWriter) writeLabel(figure *construct.LabelFigure) {
	s.printf(
		`<text x="%.1f" y="%.1f" font-size="%g" text-anchor="middle" fill="%s" font-family="sans-serif">%s</text>`+"\n",
		figure.Position.X, figure.Position.Y, figure.Size, figure.Color.Hex(),
		escapeText(figure.Text),
	)
}

func escapeText(text string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(text)
}
