package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// parseColor understands the color notations used by the theme: #rgb,
// #rrggbb and rgb()/rgba() with an alpha in [0,1]. Anything else is black.
func parseColor(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb") {
		return parseRGBFunc(lower)
	}
	r, g, b := parseHexColor(s)
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func parseRGBFunc(s string) color.NRGBA {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end <= open {
		return color.NRGBA{A: 0xff}
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) < 3 {
		return color.NRGBA{A: 0xff}
	}
	channel := func(p string) uint8 {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		return uint8(clamp(v, 0, 255))
	}
	c := color.NRGBA{R: channel(parts[0]), G: channel(parts[1]), B: channel(parts[2]), A: 0xff}
	if len(parts) >= 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err == nil {
			a = min(max(a, 0), 1)
			c.A = uint8(a*255 + 0.5)
		}
	}
	return c
}

// Parse a hex color string into RGB components
func parseHexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) == 3 {
		r := parseHexDigit(hex[0])
		g := parseHexDigit(hex[1])
		b := parseHexDigit(hex[2])
		return r * 17, g * 17, b * 17
	} else if len(hex) >= 6 {
		return parseHexByte(hex[0:2]), parseHexByte(hex[2:4]), parseHexByte(hex[4:6])
	}
	return 0, 0, 0
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func parseHexByte(s string) uint8 {
	var result uint8
	for i := 0; i < len(s); i++ {
		result = result*16 + parseHexDigit(s[i])
	}
	return result
}

// hexColor formats the color without alpha, for targets that only take #rrggbb.
func hexColor(s string) string {
	c := parseColor(s)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// svgPaint splits a theme color into an SVG paint and its opacity.
func svgPaint(s string) (string, float64) {
	c := parseColor(s)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), float64(c.A) / 255
}
