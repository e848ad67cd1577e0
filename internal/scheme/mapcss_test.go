package scheme

import (
	"strings"
	"testing"
)

func TestExportMapCSS(t *testing.T) {
	style := Default()

	var out strings.Builder
	if err := style.ExportMapCSS(&out, MapCSSOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document := out.String()

	if !strings.Contains(document, "node[natural=tree] {") {
		t.Error("missing tree selector")
	}
	if !strings.Contains(document, `icon-image: "icons/tree.svg";`) {
		t.Error("missing tree icon-image")
	}
	if !strings.Contains(document, "area[building] {") {
		t.Error("missing building area selector")
	}
	if strings.Contains(document, "disused:") {
		t.Error("lifecycle selectors emitted without the option")
	}
}

func TestExportMapCSSLifecycle(t *testing.T) {
	style := Default()

	var out strings.Builder
	if err := style.ExportMapCSS(&out, MapCSSOptions{IncludeLifecycle: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document := out.String()

	if !strings.Contains(document, "node[disused:natural=tree] {") {
		t.Error("missing disused variant")
	}
	if !strings.Contains(document, "node[was:natural=tree] {") {
		t.Error("missing was variant")
	}
	if !strings.Contains(document, "icon-opacity: 0.60;") {
		t.Error("missing dimmed opacity")
	}

	// Lifecycle export multiplies icon selectors by the stage count
	// plus one.
	without := &strings.Builder{}
	style.ExportMapCSS(without, MapCSSOptions{})
	base := strings.Count(without.String(), "icon-image:")
	with := strings.Count(document, "icon-image:")
	if with != base*(len(StagesOfDecay)+1) {
		t.Errorf("selector count %d, expected %d", with, base*(len(StagesOfDecay)+1))
	}
}

func TestLoadScheme(t *testing.T) {
	document := `
colors:
  accent: "#123456"
node_rules:
  - tags: {amenity: fountain}
    shapes: [circle]
    color: accent
way_rules:
  - tags: {natural: water}
    style: {fill: accent}
`
	style, err := Load(strings.NewReader(document))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(style.NodeRules) != 1 || len(style.WayRules) != 1 {
		t.Fatalf("unexpected rule counts: %d, %d", len(style.NodeRules), len(style.WayRules))
	}
	if style.NodeRules[0].Shapes[0].ID != "circle" {
		t.Errorf("unexpected shape: %v", style.NodeRules[0].Shapes)
	}
}

func TestLoadSchemeBadColor(t *testing.T) {
	if _, err := Load(strings.NewReader("colors:\n  bad: \"not-a-color\"\n")); err == nil {
		t.Error("expected error for invalid color")
	}
}
