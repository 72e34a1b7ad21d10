// internal/thumbnail/colorhash.go
package thumbnail

import (
	"fmt"
	"math"
)

// colorFor maps a description string to a stable hex color. The hue comes
// from a BKDR hash of the string; saturation and lightness cycle through a
// small palette so nearby hashes still look distinct.
func colorFor(description string) string {
	h := bkdrHash(description)
	hue := float64(h % 359)
	rest := h / 360
	levels := []float64{0.35, 0.50, 0.65}
	sat := levels[rest%3]
	light := levels[(rest/3)%3]
	r, g, b := hslToRGB(hue, sat, light)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func bkdrHash(s string) uint64 {
	const seed = 131
	var h uint64
	for _, c := range s {
		h = h*seed + uint64(c)
	}
	return h
}

func hslToRGB(hue, sat, light float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*light-1)) * sat
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := light - c/2

	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = c, x, 0
	case hue < 120:
		r, g, b = x, c, 0
	case hue < 180:
		r, g, b = 0, c, x
	case hue < 240:
		r, g, b = 0, x, c
	case hue < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8(math.Round((r + m) * 255)),
		uint8(math.Round((g + m) * 255)),
		uint8(math.Round((b + m) * 255))
}
