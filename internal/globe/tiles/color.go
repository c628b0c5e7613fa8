package tiles

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// DefaultPalette is used when no palette is configured.
var DefaultPalette = []Color{
	RGB(0xe0, 0x6c, 0x3c),
	RGB(0xd9, 0xa4, 0x41),
	RGB(0x8f, 0xb3, 0x4d),
	RGB(0x3c, 0x9d, 0xb8),
	RGB(0x6b, 0x5b, 0xc4),
	RGB(0xc4, 0x5b, 0x9a),
}

// RGB creates a color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
	}
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// ParsePalette parses a list of hex colors. An empty list yields DefaultPalette.
func ParsePalette(hexes []string) ([]Color, error) {
	if len(hexes) == 0 {
		return DefaultPalette, nil
	}
	out := make([]Color, len(hexes))
	for i, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func to8(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
