package render

import (
	"strings"
	"testing"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/icons"
	"github.com/pictomap/pictomap/internal/scheme"
)

func sampleFigureSet() *construct.FigureSet {
	stroke := colors.MustParse("#112233")
	fill := colors.MustParse("#AACCFF")
	library := icons.NewLibrary()

	return &construct.FigureSet{Figures: []construct.Figure{
		&construct.PathFigure{
			Points: []geometry.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
			Closed: true,
			Style:  scheme.LineStyle{Fill: &fill, Stroke: &stroke, StrokeWidth: 2, Opacity: 1},
		},
		&construct.IconFigure{
			Icon:     library.Default(false),
			Position: geometry.Vector{X: 50, Y: 50},
			Opacity:  1.0,
		},
		&construct.LabelFigure{
			Text:     "Café <Chez Nous>",
			Position: geometry.Vector{X: 50, Y: 70},
			Color:    colors.Black,
			Size:     10,
		},
		&construct.SectorFigure{
			Center: geometry.Vector{X: 20, Y: 20},
			Radius: 50,
			Start:  0, End: 1,
			Color:   colors.MustParse("#CC4444"),
			FadeOut: true,
		},
	}}
}

func TestWriteSVG(t *testing.T) {
	var out strings.Builder
	size := geometry.Vector{X: 256, Y: 256}
	err := WriteSVG(&out, sampleFigureSet(), size, SVGOptions{Background: DefaultBackground})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document := out.String()

	if !strings.HasPrefix(document, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(document, `<svg xmlns="http://www.w3.org/2000/svg" width="256" height="256">`) {
		t.Error("missing SVG header")
	}
	if !strings.Contains(document, `fill="#AACCFF"`) {
		t.Error("missing area fill")
	}
	if !strings.Contains(document, `stroke="#112233"`) {
		t.Error("missing stroke")
	}
	if !strings.Contains(document, "radialGradient") {
		t.Error("missing sector gradient")
	}
	if !strings.Contains(document, `url(#sector0)`) {
		t.Error("sector does not reference its gradient")
	}
	if !strings.Contains(document, "&lt;Chez Nous&gt;") {
		t.Error("label text not escaped")
	}
	if !strings.HasSuffix(strings.TrimSpace(document), "</svg>") {
		t.Error("document not closed")
	}
}

func TestWriteSVGDeterministic(t *testing.T) {
	size := geometry.Vector{X: 256, Y: 256}

	var first, second strings.Builder
	if err := WriteSVG(&first, sampleFigureSet(), size, SVGOptions{Background: DefaultBackground}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteSVG(&second, sampleFigureSet(), size, SVGOptions{Background: DefaultBackground}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.String() != second.String() {
		t.Error("two renders of the same figure set differ")
	}
}

func TestWriteSVGCircles(t *testing.T) {
	set := &construct.FigureSet{Figures: []construct.Figure{
		&construct.CircleFigure{
			Center:  geometry.Vector{X: 30, Y: 30},
			Radius:  12,
			Color:   colors.MustParse("#688C44"),
			Opacity: 0.3,
		},
		&construct.CraterFigure{
			Center:   geometry.Vector{X: 80, Y: 80},
			Radius:   21,
			Gradient: geometry.Vector{X: 80, Y: 83},
			Color:    colors.Black,
		},
	}}

	var out strings.Builder
	if err := WriteSVG(&out, set, geometry.Vector{X: 128, Y: 128}, SVGOptions{Background: DefaultBackground}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document := out.String()

	if !strings.Contains(document, `fill="#688C44"`) {
		t.Error("missing crown fill")
	}
	if !strings.Contains(document, `opacity="0.30"`) {
		t.Error("crown opacity not applied")
	}
	if !strings.Contains(document, `<radialGradient id="crater0"`) {
		t.Error("missing crater gradient definition")
	}
	if !strings.Contains(document, `url(#crater0)`) {
		t.Error("crater does not reference its gradient")
	}
}

func TestWriteSVGDimmedIcon(t *testing.T) {
	library := icons.NewLibrary()
	set := &construct.FigureSet{Figures: []construct.Figure{
		&construct.IconFigure{
			Icon:     library.Default(true),
			Position: geometry.Vector{X: 10, Y: 10},
			Opacity:  0.6,
		},
	}}

	var out strings.Builder
	if err := WriteSVG(&out, set, geometry.Vector{X: 64, Y: 64}, SVGOptions{Background: DefaultBackground}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `<g opacity="0.60">`) {
		t.Error("lifecycle dimming not applied")
	}
}
