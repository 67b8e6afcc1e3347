// SPDX-License-Identifier: MIT

// Package color converts the scene's color rules into RGB values.
package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with channels in [0,1].
type RGB = colorful.Color

// Gray returns RGB(v, v, v).
func Gray(v float64) RGB {
	return RGB{R: v, G: v, B: v}
}

// HSVToRGB converts hue h in [0,1), saturation s and value v to RGB using
// the six-sector table. Hues outside [0,1) wrap.
func HSVToRGB(h, s, v float64) RGB {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	sector := int(i) % 6
	if sector < 0 {
		sector += 6
	}

	switch sector {
	case 0:
		return RGB{R: v, G: t, B: p}
	case 1:
		return RGB{R: q, G: v, B: p}
	case 2:
		return RGB{R: p, G: v, B: t}
	case 3:
		return RGB{R: p, G: q, B: v}
	case 4:
		return RGB{R: t, G: p, B: v}
	default:
		return RGB{R: v, G: p, B: q}
	}
}

// Blend mixes c toward the background by (1-alpha). It stands in for
// material opacity on outputs that have no alpha channel.
func Blend(c, background RGB, alpha float64) RGB {
	return background.BlendRgb(c, alpha)
}
