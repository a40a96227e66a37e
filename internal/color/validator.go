// Package color validates and normalizes avatar background colors. Avatar
// tiles render the designer's initial as a solid glyph over the background,
// so the package also picks the glyph color with the better contrast.
package color

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// hexColorPattern matches #RRGGBB colors, case insensitive.
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ErrInvalidHexFormat is returned when a color is not a #RRGGBB value.
var ErrInvalidHexFormat = errors.New("invalid hex color format, expected #RRGGBB")

// DefaultBg is the fallback background for avatars with a missing or
// malformed color.
const DefaultBg = "#999999"

// Glyph colors the tile renderer chooses between.
const (
	GlyphLight = "#FFFFFF"
	GlyphDark  = "#111827"
)

// IsValidHexColor reports whether a color string is in #RRGGBB format.
func IsValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

// Normalize trims and validates an avatar background color. Anything that is
// not a #RRGGBB value falls back to DefaultBg so the tile renderer never sees
// an unstyleable or injectable string.
func Normalize(color string) string {
	color = strings.TrimSpace(color)
	if !IsValidHexColor(color) {
		return DefaultBg
	}
	return color
}

// RGB represents a color in RGB color space with values 0-255.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses a #RRGGBB string into RGB components.
func ParseHexColor(hexColor string) (RGB, error) {
	if !IsValidHexColor(hexColor) {
		return RGB{}, ErrInvalidHexFormat
	}
	hexColor = strings.TrimPrefix(hexColor, "#")

	r, _ := strconv.ParseUint(hexColor[0:2], 16, 8)
	g, _ := strconv.ParseUint(hexColor[2:4], 16, 8)
	b, _ := strconv.ParseUint(hexColor[4:6], 16, 8)
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// relativeLuminance calculates relative luminance per WCAG 2.1.
// https://www.w3.org/WAI/GL/wiki/Relative_luminance
func relativeLuminance(rgb RGB) float64 {
	channel := func(c uint8) float64 {
		s := float64(c) / 255.0
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	// ITU-R BT.709 coefficients
	return 0.2126*channel(rgb.R) + 0.7152*channel(rgb.G) + 0.0722*channel(rgb.B)
}

// ContrastRatio calculates the WCAG 2.1 contrast ratio between two colors,
// from 1.0 (none) to 21.0 (black on white).
// https://www.w3.org/WAI/GL/wiki/Contrast_ratio
func ContrastRatio(a, b RGB) float64 {
	la := relativeLuminance(a)
	lb := relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// GlyphColor returns GlyphLight or GlyphDark, whichever reads better over
// the given background. Invalid backgrounds are treated as DefaultBg.
func GlyphColor(bgColor string) string {
	bg, err := ParseHexColor(bgColor)
	if err != nil {
		bg, _ = ParseHexColor(DefaultBg)
	}
	light, _ := ParseHexColor(GlyphLight)
	dark, _ := ParseHexColor(GlyphDark)
	if ContrastRatio(bg, light) >= ContrastRatio(bg, dark) {
		return GlyphLight
	}
	return GlyphDark
}
