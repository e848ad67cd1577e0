// Package colors implements the small color model used by map styles:
// hex-encoded RGB colors, linear interpolation for gradients, and a
// brightness check for picking contrasting outlines.
package colors

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Color is an RGB color with 8 bits per channel.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Common style colors.
var (
	Black = Color{0x00, 0x00, 0x00}
	White = Color{0xFF, 0xFF, 0xFF}
)

// Parse parses "#RGB", "#RRGGBB", or a handful of CSS color names.
func Parse(text string) (Color, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if named, ok := cssNames[text]; ok {
		return named, nil
	}
	if !strings.HasPrefix(text, "#") {
		return Color{}, fmt.Errorf("invalid color %q", text)
	}
	hex := text[1:]
	switch len(hex) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid color %q", text)
		}
		return Color{r * 0x11, g * 0x11, b * 0x11}, nil
	case 6:
		var color Color
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &color.R, &color.G, &color.B); err != nil {
			return Color{}, fmt.Errorf("invalid color %q", text)
		}
		return color, nil
	}
	return Color{}, fmt.Errorf("invalid color %q", text)
}

// MustParse is Parse for compiled-in colors.
func MustParse(text string) Color {
	color, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return color
}

// cssNames covers the color names that appear in OpenStreetMap tag
// values often enough to matter.
var cssNames = map[string]Color{
	"black":  Black,
	"white":  White,
	"red":    {0xFF, 0x00, 0x00},
	"green":  {0x00, 0x80, 0x00},
	"blue":   {0x00, 0x00, 0xFF},
	"yellow": {0xFF, 0xFF, 0x00},
	"orange": {0xFF, 0xA5, 0x00},
	"brown":  {0xA5, 0x2A, 0x2A},
	"gray":   {0x80, 0x80, 0x80},
	"grey":   {0x80, 0x80, 0x80},
	"silver": {0xC0, 0xC0, 0xC0},
	"maroon": {0x80, 0x00, 0x00},
	"purple": {0x80, 0x00, 0x80},
	"pink":   {0xFF, 0xC0, 0xCB},
}

// Hex returns the "#RRGGBB" representation.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Interpolate returns the color a fraction of the way from c to other.
func (c Color) Interpolate(other Color, fraction float64) Color {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*fraction + 0.5)
	}
	return Color{mix(c.R, other.R), mix(c.G, other.G), mix(c.B, other.B)}
}

// Scale multiplies every channel by the given factor, clamping to the
// valid range. Used for shading building walls.
func (c Color) Scale(factor float64) Color {
	clamp := func(value float64) uint8 {
		if value < 0 {
			return 0
		}
		if value > 255 {
			return 255
		}
		return uint8(value + 0.5)
	}
	return Color{
		clamp(float64(c.R) * factor),
		clamp(float64(c.G) * factor),
		clamp(float64(c.B) * factor),
	}
}

// IsBright reports whether the color is light enough that dark text
// should be drawn over it.
func (c Color) IsBright() bool {
	return 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B) > 170.0
}

// Gradient picks a color from a multi-stop gradient. The coefficient
// is clamped to [0, 1].
func Gradient(stops []Color, coefficient float64) Color {
	if len(stops) == 0 {
		return Black
	}
	if len(stops) == 1 {
		return stops[0]
	}
	if coefficient <= 0 {
		return stops[0]
	}
	if coefficient >= 1 {
		return stops[len(stops)-1]
	}
	scaled := coefficient * float64(len(stops)-1)
	index := int(scaled)
	return stops[index].Interpolate(stops[index+1], scaled-float64(index))
}

// ForAuthor returns a deterministic color for an author name: the hash
// of the seed and the name picks the hue, so the same author always
// gets the same color across renders.
func ForAuthor(seed, author string) Color {
	sum := sha256.Sum256([]byte(seed + author))
	return Color{sum[len(sum)-3], sum[len(sum)-2], sum[len(sum)-1]}
}
