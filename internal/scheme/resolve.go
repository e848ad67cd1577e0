package scheme

import (
	"strconv"
	"strings"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/icons"
	"github.com/pictomap/pictomap/internal/osm"
)

// DefaultIconColor is the neutral dark used when neither the rule nor
// the feature specifies a color.
var DefaultIconColor = colors.MustParse("#444444")

// ColourTagKey is the feature tag carrying an explicit color wish.
const ColourTagKey = "colour"

// LineStyle is a resolved drawing style for a linear or area feature.
type LineStyle struct {
	Fill        *colors.Color
	Stroke      *colors.Color
	StrokeWidth float64
	Dashes      string
	Layer       float64
	Priority    float64
	Opacity     float64
}

// Road is a resolved road class style.
type Road struct {
	Color       colors.Color
	BorderColor colors.Color
	Priority    float64
}

// DrawPlan is the fully resolved drawing directive for one feature:
// composed icons, line and area styles, and lifecycle dimming. It is
// produced fresh per feature and never shared.
type DrawPlan struct {
	Icons icons.Set
	Lines []LineStyle

	// Opacity dims lifecycle-variant features. 1.0 for live features.
	Opacity float64

	// LifecycleStage is the index into StagesOfDecay, or -1 for live
	// features.
	LifecycleStage int

	// Priority of the winning icon rule, used for label and icon
	// ordering.
	Priority float64

	// Missing collects shape lookup failures. The icons already
	// contain placeholder substitutes; callers log these.
	Missing []error
}

// IsEmpty reports whether the plan carries no visual directive at all.
func (p *DrawPlan) IsEmpty() bool {
	return p.Icons.Main.IsEmpty() && len(p.Icons.Extra) == 0 && len(p.Lines) == 0
}

// Resolve evaluates the scheme against a feature's tags and returns
// its draw plan. Matching rules accumulate: one may contribute the
// main icon, others extra icons or line styles. When no rule matches
// directly and lifecycle matching is enabled, tag keys carrying a
// recognized decay prefix are stripped and the base rules are applied
// with reduced opacity.
func (s *Scheme) Resolve(tags osm.Tags, library *icons.Library) *DrawPlan {
	plan := s.resolveLive(tags, library)
	if !plan.IsEmpty() || !s.LifecycleEnabled {
		return plan
	}

	for stage, prefix := range StagesOfDecay {
		stripped, found := stripLifecycle(tags, prefix)
		if !found {
			continue
		}
		base := s.resolveLive(stripped, library)
		if base.IsEmpty() {
			continue
		}
		base.Opacity = DecayOpacity(stage)
		base.LifecycleStage = stage
		return base
	}
	return plan
}

// stripLifecycle rewrites keys of the form "<prefix>:<key>" to
// "<key>". The second result reports whether any key carried the
// prefix.
func stripLifecycle(tags osm.Tags, prefix string) (osm.Tags, bool) {
	marker := prefix + ":"
	found := false
	stripped := make(osm.Tags, len(tags))
	for key, value := range tags {
		if len(key) > len(marker) && key[:len(marker)] == marker {
			stripped[key[len(marker):]] = value
			found = true
		} else {
			stripped[key] = value
		}
	}
	return stripped, found
}

func (s *Scheme) resolveLive(tags osm.Tags, library *icons.Library) *DrawPlan {
	plan := &DrawPlan{
		Opacity:        1.0,
		LifecycleStage: -1,
		Icons:          icons.Set{Processed: make(map[string]bool)},
	}

	// Select the main icon: the most specific matching rule with
	// shapes wins, later declarations break ties.
	mainIndex := -1
	mainSpecificity := -1
	for index := range s.NodeRules {
		rule := &s.NodeRules[index]
		if !rule.Matches(tags) {
			continue
		}
		if len(rule.Shapes) > 0 {
			specificity := rule.Specificity()
			if specificity >= mainSpecificity {
				mainIndex = index
				mainSpecificity = specificity
			}
		}
	}
	if mainIndex >= 0 {
		rule := &s.NodeRules[mainIndex]
		plan.Icons.Main = s.composeIcon(rule, rule.Shapes, tags, plan, library)
		plan.Priority = rule.Priority
		markProcessed(plan, rule, tags)
	}

	// Accumulate overlays and extra icons from every matching rule.
	for index := range s.NodeRules {
		rule := &s.NodeRules[index]
		if !rule.Matches(tags) {
			continue
		}
		if len(rule.OverIcon) > 0 && s.applyOverIcon(rule, tags, plan, library) {
			markProcessed(plan, rule, tags)
		}
		if len(rule.AddShapes) > 0 {
			plan.Icons.Extra = append(plan.Icons.Extra, s.composeIcon(rule, rule.AddShapes, tags, plan, library))
			markProcessed(plan, rule, tags)
		}
	}

	// Accumulate line and area styles.
	for index := range s.WayRules {
		rule := &s.WayRules[index]
		if !rule.Matches(tags) || len(rule.Style) == 0 {
			continue
		}
		plan.Lines = append(plan.Lines, s.lineStyle(rule))
		markProcessed(plan, rule, tags)
	}

	return plan
}

// applyOverIcon stacks the rule's overlay shapes on the current main
// icon if its base shape is one the overlay declares it combines
// with.
func (s *Scheme) applyOverIcon(rule *Rule, tags osm.Tags, plan *DrawPlan, library *icons.Library) bool {
	baseIDs := plan.Icons.Main.ShapeIDs()
	if len(baseIDs) == 0 {
		return false
	}
	base := baseIDs[0]
	allowed := false
	for _, under := range rule.UnderIcon {
		if under == base {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	overlay := s.composeIcon(rule, rule.OverIcon, tags, plan, library)
	plan.Icons.Main.Specifications = append(plan.Icons.Main.Specifications, overlay.Specifications...)
	return true
}

// composeIcon turns shape references into a composed icon, layering
// shapes bottom to top and substituting the placeholder for unknown
// identifiers.
func (s *Scheme) composeIcon(rule *Rule, refs []ShapeRef, tags osm.Tags, plan *DrawPlan, library *icons.Library) icons.Icon {
	icon := icons.Icon{}
	for _, ref := range refs {
		shape, err := library.Get(ref.ID)
		if err != nil {
			plan.Missing = append(plan.Missing, err)
			placeholder := library.Default(true)
			icon.Specifications = append(icon.Specifications, placeholder.Specifications...)
			continue
		}
		icon.Specifications = append(icon.Specifications, icons.ShapeSpecification{
			Shape:  shape,
			Color:  s.iconColor(ref, rule, tags),
			Offset: geometry.Vector{X: ref.Offset[0], Y: ref.Offset[1]},
		})
	}
	return icon
}

// iconColor resolves a shape's color. Order: explicit per-shape color
// in the directive, then the feature's own colour tag, then the
// rule's category color, then the global default.
func (s *Scheme) iconColor(ref ShapeRef, rule *Rule, tags osm.Tags) colors.Color {
	if ref.Color != "" {
		return s.ColorValue(ref.Color, DefaultIconColor)
	}
	if value, ok := tags[ColourTagKey]; ok {
		if parsed, err := colors.Parse(value); err == nil {
			return parsed
		}
	}
	if rule.Color != "" {
		return s.ColorValue(rule.Color, DefaultIconColor)
	}
	return DefaultIconColor
}

func (s *Scheme) lineStyle(rule *Rule) LineStyle {
	style := LineStyle{
		Layer:    rule.Layer,
		Priority: rule.Priority,
		Opacity:  1.0,
	}
	if value, ok := rule.Style["fill"]; ok {
		color := s.ColorValue(value, colors.Black)
		style.Fill = &color
	}
	if value, ok := rule.Style["stroke"]; ok {
		color := s.ColorValue(value, colors.Black)
		style.Stroke = &color
	}
	if value, ok := rule.Style["stroke-width"]; ok {
		if width, err := parseFloat(value); err == nil {
			style.StrokeWidth = width
		}
	}
	if value, ok := rule.Style["opacity"]; ok {
		if opacity, err := parseFloat(value); err == nil {
			style.Opacity = opacity
		}
	}
	style.Dashes = rule.Style["stroke-dasharray"]
	return style
}

func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

func markProcessed(plan *DrawPlan, rule *Rule, tags osm.Tags) {
	for key := range rule.Tags {
		if _, ok := tags[key]; ok {
			plan.Icons.Processed[key] = true
		}
	}
}

// MatchRoad returns the road class style for a way, or nil if the way
// is not a recognized road. The most specific matcher wins.
func (s *Scheme) MatchRoad(tags osm.Tags) *Road {
	bestIndex := -1
	bestSpecificity := -1
	for index := range s.Roads {
		style := &s.Roads[index]
		rule := Rule{Tags: style.Tags}
		if !rule.Matches(tags) {
			continue
		}
		if specificity := rule.Specificity(); specificity >= bestSpecificity {
			bestIndex = index
			bestSpecificity = specificity
		}
	}
	if bestIndex < 0 {
		return nil
	}
	style := &s.Roads[bestIndex]
	return &Road{
		Color:       s.ColorValue(style.Color, colors.White),
		BorderColor: s.ColorValue(style.BorderColor, colors.MustParse("#888888")),
		Priority:    style.Priority,
	}
}
