package colors

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		text     string
		expected Color
	}{
		{"#FF0000", Color{0xFF, 0x00, 0x00}},
		{"#ff8844", Color{0xFF, 0x88, 0x44}},
		{"#F84", Color{0xFF, 0x88, 0x44}},
		{"red", Color{0xFF, 0x00, 0x00}},
		{"Grey", Color{0x80, 0x80, 0x80}},
	}
	for _, c := range cases {
		got, err := Parse(c.text)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.text, err)
			continue
		}
		if got != c.expected {
			t.Errorf("Parse(%q) = %v, expected %v", c.text, got, c.expected)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, text := range []string{"", "red-ish", "#12", "#GGGGGG", "#1234567"} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q): expected error", text)
		}
	}
}

func TestHex(t *testing.T) {
	if got := (Color{0xFF, 0x88, 0x44}).Hex(); got != "#FF8844" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestInterpolate(t *testing.T) {
	mid := Black.Interpolate(White, 0.5)
	if mid.R != 0x80 || mid.G != 0x80 || mid.B != 0x80 {
		t.Errorf("midpoint = %v", mid)
	}
	if Black.Interpolate(White, 0.0) != Black {
		t.Error("fraction 0 should return the first color")
	}
	if Black.Interpolate(White, 1.0) != White {
		t.Error("fraction 1 should return the second color")
	}
}

func TestGradient(t *testing.T) {
	stops := []Color{Black, {0xFF, 0x00, 0x00}, White}
	if Gradient(stops, 0.0) != Black {
		t.Error("coefficient 0 should return the first stop")
	}
	if Gradient(stops, 1.0) != White {
		t.Error("coefficient 1 should return the last stop")
	}
	if Gradient(stops, 0.5) != (Color{0xFF, 0x00, 0x00}) {
		t.Error("coefficient 0.5 should return the middle stop")
	}
}

func TestIsBright(t *testing.T) {
	if Black.IsBright() {
		t.Error("black reported as bright")
	}
	if !White.IsBright() {
		t.Error("white reported as dark")
	}
}

func TestForAuthorDeterministic(t *testing.T) {
	first := ForAuthor("seed", "alice")
	second := ForAuthor("seed", "alice")
	if first != second {
		t.Error("same author produced different colors")
	}
	if first == ForAuthor("seed", "bob") {
		t.Error("different authors produced the same color")
	}
	if first == ForAuthor("other", "alice") {
		t.Error("different seeds produced the same color")
	}
}
