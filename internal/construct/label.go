package construct

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/osm"
)

// LabelMode selects which tags become text labels.
type LabelMode string

const (
	// LabelsNone disables labels.
	LabelsNone LabelMode = "no"

	// LabelsMain draws names, alternative names and house numbers.
	LabelsMain LabelMode = "main"

	// LabelsAll additionally draws descriptive tags such as voltage,
	// route references, websites and phone numbers.
	LabelsAll LabelMode = "all"

	// LabelsAddress behaves like LabelsAll and assembles the full
	// address from addr tags instead of the house number alone.
	LabelsAddress LabelMode = "address"
)

// DefaultFontSize is the label text size in canvas pixels.
const DefaultFontSize = 10.0

// Label colors. Names stand out; auxiliary text stays muted.
var (
	mainTextColor    = colors.Black
	defaultTextColor = colors.MustParse("#444444")
	websiteTextColor = colors.MustParse("#000088")
)

// Label is one line of text attached to a feature.
type Label struct {
	Text  string
	Color colors.Color
	Size  float64
}

func textLabel(text string) Label {
	return Label{Text: text, Color: defaultTextColor, Size: DefaultFontSize}
}

// constructLabels turns a feature's tags into an ordered label list.
// The name comes first in the emphasis color; everything else follows
// in declaration order.
func constructLabels(tags osm.Tags, mode LabelMode) []Label {
	if mode == LabelsNone || mode == "" {
		return nil
	}

	var labels []Label

	name := tags.Get("name")
	if name == "" {
		name = tags.Get("name:en")
	}
	if name == "" {
		name = tags.Get("ref")
	}
	if name != "" {
		labels = append(labels, Label{Text: name, Color: mainTextColor, Size: DefaultFontSize})
	}

	var alternatives []string
	if value := tags.Get("alt_name"); value != "" {
		alternatives = append(alternatives, value)
	}
	if value := tags.Get("old_name"); value != "" {
		alternatives = append(alternatives, "ex "+value)
	}
	if len(alternatives) > 0 {
		labels = append(labels, textLabel("("+strings.Join(alternatives, ", ")+")"))
	}

	if address := assembleAddress(tags, mode); len(address) > 0 {
		labels = append(labels, textLabel(strings.Join(address, ", ")))
	}

	if mode == LabelsMain {
		return labels
	}

	labels = append(labels, electricityLabels(tags)...)

	if value := tags.Get("route_ref"); value != "" {
		labels = append(labels, textLabel(strings.ReplaceAll(value, ";", " ")))
	}
	if value := tags.Get("website"); value != "" {
		labels = append(labels, Label{
			Text:  trimWebsite(value),
			Color: websiteTextColor,
			Size:  DefaultFontSize,
		})
	}
	if value := tags.Get("phone"); value != "" {
		labels = append(labels, textLabel(value))
	}
	if value := tags.Get("height"); value != "" {
		labels = append(labels, textLabel(fmt.Sprintf("↕ %s m", value)))
	}
	return labels
}

// assembleAddress collects address parts in reading order. Outside
// address mode only the house number is used.
func assembleAddress(tags osm.Tags, mode LabelMode) []string {
	keys := []string{"housenumber"}
	if mode == LabelsAddress {
		keys = append(keys, "postcode", "country", "city", "street")
	}

	var address []string
	for _, key := range keys {
		if value := tags.Get("addr:" + key); value != "" {
			address = append(address, value)
		}
	}
	return address
}

// electricityLabels formats voltage and frequency tags. A plain
// voltage tag overrides the primary/secondary pair.
func electricityLabels(tags osm.Tags) []Label {
	var labels []Label

	var voltages []string
	if value := tags.Get("voltage:primary"); value != "" {
		voltages = append(voltages, value)
	}
	if value := tags.Get("voltage:secondary"); value != "" {
		voltages = append(voltages, value)
	}
	if value := tags.Get("voltage"); value != "" {
		voltages = strings.Split(value, ";")
	}
	if len(voltages) > 0 {
		formatted := make([]string, len(voltages))
		for index, voltage := range voltages {
			formatted[index] = formatVoltage(voltage)
		}
		labels = append(labels, textLabel(strings.Join(formatted, ", ")))
	}

	if value := tags.Get("frequency"); value != "" {
		parts := strings.Split(value, ";")
		for index, part := range parts {
			parts[index] = strings.TrimSpace(part)
		}
		labels = append(labels, textLabel(strings.Join(parts, ", ")))
	}
	return labels
}

// formatVoltage renders whole kilovolt values as "n kV" and leaves
// everything else in volts.
func formatVoltage(value string) string {
	value = strings.TrimSpace(value)
	volts, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	if volts%1000 == 0 {
		return fmt.Sprintf("%d kV", volts/1000)
	}
	return fmt.Sprintf("%s V", value)
}

// trimWebsite strips the protocol and www prefix and truncates long
// links so they fit next to an icon.
func trimWebsite(link string) string {
	full := link
	link = strings.TrimPrefix(link, "http://")
	link = strings.TrimPrefix(link, "https://")
	link = strings.TrimPrefix(link, "www.")
	link = strings.TrimSuffix(link, "/")
	if len(full) > 25 {
		if len(link) > 25 {
			link = link[:25]
		}
		link += "..."
	}
	return link
}
