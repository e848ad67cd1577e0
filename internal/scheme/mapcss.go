package scheme

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// MapCSSOptions control the style sheet export.
type MapCSSOptions struct {
	// IconDirectory is prepended to shape identifiers in icon-image
	// properties.
	IconDirectory string

	// IncludeLifecycle emits a dimmed selector variant per decay
	// prefix for every icon rule, multiplying the selector count by
	// the number of recognized prefixes plus one.
	IncludeLifecycle bool
}

// ExportMapCSS writes the scheme as a MapCSS style sheet for use in
// third-party editors. The output is a serialization of the same rule
// data the renderer uses, not a separate style system.
func (s *Scheme) ExportMapCSS(w io.Writer, options MapCSSOptions) error {
	iconDirectory := options.IconDirectory
	if iconDirectory == "" {
		iconDirectory = "icons"
	}

	if _, err := io.WriteString(w, "meta {\n    title: \"pictomap\";\n}\n\n"); err != nil {
		return err
	}

	for index := range s.NodeRules {
		rule := &s.NodeRules[index]
		if len(rule.Shapes) == 0 {
			continue
		}
		if err := s.writeIconSelector(w, rule, "", 1.0, iconDirectory); err != nil {
			return err
		}
		if !options.IncludeLifecycle {
			continue
		}
		for stage, prefix := range StagesOfDecay {
			if err := s.writeIconSelector(w, rule, prefix+":", DecayOpacity(stage), iconDirectory); err != nil {
				return err
			}
		}
	}

	for index := range s.WayRules {
		rule := &s.WayRules[index]
		if len(rule.Style) == 0 {
			continue
		}
		if err := s.writeWaySelector(w, rule); err != nil {
			return err
		}
	}
	return nil
}

func selectorClauses(tags map[string]string, keyPrefix string) string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		value := tags[key]
		switch {
		case value == AnyValue:
			fmt.Fprintf(&builder, "[%s%s]", keyPrefix, key)
		case strings.HasPrefix(value, "<") || strings.HasPrefix(value, ">"):
			fmt.Fprintf(&builder, "[%s%s%s]", keyPrefix, key, value)
		default:
			fmt.Fprintf(&builder, "[%s%s=%s]", keyPrefix, key, value)
		}
	}
	return builder.String()
}

func (s *Scheme) writeIconSelector(w io.Writer, rule *Rule, keyPrefix string, opacity float64, iconDirectory string) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "node%s {\n", selectorClauses(rule.Tags, keyPrefix))
	fmt.Fprintf(&builder, "    icon-image: \"%s/%s.svg\";\n", iconDirectory, rule.Shapes[0].ID)
	if opacity != 1.0 {
		fmt.Fprintf(&builder, "    icon-opacity: %.2f;\n", opacity)
	}
	builder.WriteString("}\n\n")
	_, err := io.WriteString(w, builder.String())
	return err
}

func (s *Scheme) writeWaySelector(w io.Writer, rule *Rule) error {
	style := s.lineStyle(rule)

	var builder strings.Builder
	selector := "way"
	if style.Fill != nil {
		selector = "area"
	}
	fmt.Fprintf(&builder, "%s%s {\n", selector, selectorClauses(rule.Tags, ""))
	if style.Fill != nil {
		fmt.Fprintf(&builder, "    fill-color: %s;\n", style.Fill.Hex())
	}
	if style.Stroke != nil {
		fmt.Fprintf(&builder, "    color: %s;\n", style.Stroke.Hex())
	}
	if style.StrokeWidth > 0 {
		fmt.Fprintf(&builder, "    width: %g;\n", style.StrokeWidth)
	}
	if style.Dashes != "" {
		fmt.Fprintf(&builder, "    dashes: %s;\n", style.Dashes)
	}
	if style.Opacity != 1.0 {
		fmt.Fprintf(&builder, "    opacity: %.2f;\n", style.Opacity)
	}
	builder.WriteString("}\n\n")
	_, err := io.WriteString(w, builder.String())
	return err
}
