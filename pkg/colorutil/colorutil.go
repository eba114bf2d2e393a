// Package colorutil provides color parsing and palette helpers for plot
// layers.
package colorutil

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Named colors accepted in style options.
var named = map[string]color.RGBA{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"red":     {R: 214, G: 39, B: 40, A: 255},
	"green":   {R: 44, G: 160, B: 44, A: 255},
	"blue":    {R: 31, G: 119, B: 180, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 215, B: 0, A: 255},
	"orange":  {R: 255, G: 127, B: 14, A: 255},
	"purple":  {R: 148, G: 103, B: 189, A: 255},
	"gray":    {R: 127, G: 127, B: 127, A: 255},
}

// Parse interprets a style color value: a named color or a #rgb/#rrggbb hex
// string. The second return reports whether parsing succeeded.
func Parse(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			out[i] = uint8(v * 17)
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, true
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			out[i] = uint8(v)
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, true
	}
	return color.RGBA{}, false
}

// PaletteColor returns a distinct, stable color for a layer index by walking
// the hue circle at the golden angle.
func PaletteColor(index int) color.RGBA {
	hue := math.Mod(float64(index)*137.508, 360)
	return HSVToRGB(hue, 0.65, 0.9)
}

// HSVToRGB converts HSV (H 0-360, S and V 0-1) to an opaque RGBA color.
func HSVToRGB(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8((r + m) * 255),
		G: uint8((g + m) * 255),
		B: uint8((b + m) * 255),
		A: 255,
	}
}

// RGBToHSV converts RGB (0-255) to HSV (H 0-360, S and V 0-1).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC

	if maxC == 0 {
		s = 0
	} else {
		s = diff / maxC
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}
	return h, s, v
}
