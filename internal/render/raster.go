package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	canvasrasterizer "github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
)

// Raster draws a figure set into a bitmap of the given pixel size.
// Text labels are vector-only and are not rasterized.
func Raster(set *construct.FigureSet, size geometry.Vector, background colors.Color) image.Image {
	c := canvas.New(size.X, size.Y)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(rgba(background, 1.0))
	ctx.DrawPath(0, 0, canvas.Rectangle(size.X, size.Y))

	r := &rasterizer{ctx: ctx}
	for _, figure := range set.Figures {
		switch f := figure.(type) {
		case *construct.PathFigure:
			r.drawPath(f)
		case *construct.BuildingFigure:
			r.drawBuilding(f)
		case *construct.RoadFigure:
			r.drawRoadCasing(f)
		case *construct.CircleFigure:
			r.drawCircle(f.Center, f.Radius, f.Color, f.Opacity)
		case *construct.CraterFigure:
			// The vector ridge gradient collapses to a translucent
			// flat fill, like sector gradients below.
			r.drawCircle(f.Center, f.Radius, f.Color, 0.2)
		}
	}
	for _, figure := range set.Figures {
		if road, ok := figure.(*construct.RoadFigure); ok {
			r.drawRoadFill(road)
		}
	}
	for _, figure := range set.Figures {
		switch f := figure.(type) {
		case *construct.SectorFigure:
			r.drawSector(f)
		case *construct.IconFigure:
			r.drawIcon(f)
		}
	}

	// One canvas unit per pixel.
	return canvasrasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

// WritePNG rasterizes a figure set and encodes it as PNG.
func WritePNG(w io.Writer, set *construct.FigureSet, size geometry.Vector, background colors.Color) error {
	if err := png.Encode(w, Raster(set, size, background)); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

type rasterizer struct {
	ctx *canvas.Context
}

func rgba(c colors.Color, opacity float64) color.Color {
	if opacity <= 0 || opacity > 1.0 {
		opacity = 1.0
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity*255.0 + 0.5)}
}

func path(points []geometry.Vector, closed bool) *canvas.Path {
	p := &canvas.Path{}
	for index, point := range points {
		if index == 0 {
			p.MoveTo(point.X, point.Y)
		} else {
			p.LineTo(point.X, point.Y)
		}
	}
	if closed {
		p.Close()
	}
	return p
}

func (r *rasterizer) stroke(points []geometry.Vector, closed bool, stroke colors.Color, width, opacity float64) {
	if len(points) < 2 {
		return
	}
	r.ctx.SetFillColor(canvas.Transparent)
	r.ctx.SetStrokeColor(rgba(stroke, opacity))
	r.ctx.SetStrokeWidth(width)
	r.ctx.SetStrokeCapper(canvas.RoundCap)
	r.ctx.SetStrokeJoiner(canvas.RoundJoin)
	r.ctx.DrawPath(0, 0, path(points, closed))
	r.ctx.SetDashes(0)
}

func (r *rasterizer) fill(points []geometry.Vector, fill colors.Color, opacity float64) {
	if len(points) < 3 {
		return
	}
	r.ctx.SetStrokeColor(canvas.Transparent)
	r.ctx.SetFillColor(rgba(fill, opacity))
	r.ctx.DrawPath(0, 0, path(points, true))
}

func (r *rasterizer) drawPath(figure *construct.PathFigure) {
	style := figure.Style
	if style.Fill != nil && figure.Closed {
		r.fill(figure.Points, *style.Fill, style.Opacity)
	}
	if style.Stroke != nil {
		width := style.StrokeWidth
		if width <= 0 {
			width = 1.0
		}
		if style.Dashes != "" {
			r.ctx.SetDashes(0, parseDashes(style.Dashes)...)
		}
		r.stroke(figure.Points, figure.Closed, *style.Stroke, width, style.Opacity)
	}
}

func (r *rasterizer) drawBuilding(figure *construct.BuildingFigure) {
	if figure.Height == 0 {
		r.fill(figure.Footprint, figure.FillColor, 1.0)
		r.stroke(figure.Footprint, true, figure.LineColor, 0.5, 1.0)
		return
	}
	for _, wall := range figure.Walls {
		r.fill(wall.Points, wall.Color, 1.0)
		r.stroke(wall.Points, true, figure.LineColor, 0.5, 1.0)
	}
	r.fill(figure.Roof, figure.FillColor, 1.0)
	r.stroke(figure.Roof, true, figure.LineColor, 0.5, 1.0)
}

func (r *rasterizer) drawRoadCasing(figure *construct.RoadFigure) {
	r.stroke(figure.Points, false, figure.Style.BorderColor, figure.Width+2.0, 1.0)
}

func (r *rasterizer) drawRoadFill(figure *construct.RoadFigure) {
	r.stroke(figure.Points, false, figure.Style.Color, figure.Width, 1.0)
	for _, separator := range figure.Separators {
		r.ctx.SetDashes(0, 6.0, 3.0)
		r.stroke(separator, false, figure.Style.BorderColor, 0.5, 1.0)
	}
}

func (r *rasterizer) drawCircle(center geometry.Vector, radius float64, fill colors.Color, opacity float64) {
	r.ctx.SetStrokeColor(canvas.Transparent)
	r.ctx.SetFillColor(rgba(fill, opacity))
	r.ctx.DrawPath(center.X, center.Y, canvas.Circle(radius))
}

// drawSector approximates the vector output's radial gradient with a
// translucent flat fill.
func (r *rasterizer) drawSector(figure *construct.SectorFigure) {
	r.ctx.SetStrokeColor(canvas.Transparent)
	r.ctx.SetFillColor(rgba(figure.Color, 0.3))
	if figure.Full {
		circle := canvas.Circle(figure.Radius)
		r.ctx.DrawPath(figure.Center.X, figure.Center.Y, circle)
		return
	}
	p := &canvas.Path{}
	p.MoveTo(figure.Center.X, figure.Center.Y)
	p.LineTo(
		figure.Center.X+figure.Radius*math.Cos(figure.Start),
		figure.Center.Y+figure.Radius*math.Sin(figure.Start),
	)
	p.ArcTo(
		figure.Radius, figure.Radius, 0,
		math.Abs(figure.End-figure.Start) > math.Pi, true,
		figure.Center.X+figure.Radius*math.Cos(figure.End),
		figure.Center.Y+figure.Radius*math.Sin(figure.End),
	)
	p.Close()
	r.ctx.DrawPath(0, 0, p)
}

func (r *rasterizer) drawIcon(figure *construct.IconFigure) {
	for _, spec := range figure.Icon.Specifications {
		if spec.Shape == nil {
			continue
		}
		p, err := canvas.ParseSVGPath(spec.Shape.Path)
		if err != nil {
			continue
		}
		shift := geometry.Vector{X: spec.Shape.Offset[0], Y: spec.Shape.Offset[1]}.Add(spec.Offset)
		matrix := canvas.Identity.
			Translate(figure.Position.X+shift.X, figure.Position.Y+shift.Y)
		if spec.FlipHorizontally {
			matrix = matrix.Scale(-1.0, 1.0)
		}
		if spec.FlipVertically {
			matrix = matrix.Scale(1.0, -1.0)
		}
		r.ctx.SetStrokeColor(canvas.Transparent)
		r.ctx.SetFillColor(rgba(spec.Color, figure.Opacity))
		r.ctx.DrawPath(0, 0, p.Transform(matrix))
	}
}

func parseDashes(dashes string) []float64 {
	var values []float64
	for _, part := range strings.Split(dashes, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil
		}
		values = append(values, value)
	}
	return values
}
