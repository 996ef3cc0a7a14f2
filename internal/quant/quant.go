// Package quant implements nearest-palette color quantization: given an
// RGBA pixel and a target palette, find the palette index minimizing L1
// color distance over RGB. The search is deliberately not perceptual;
// only a deterministic choice is required, not a match to any specific
// color-distance metric.
package quant

import "github.com/miu2d/spritecodec/internal/palette"

// Nearest returns the index into pal whose RGB is closest to (r, g, b) in
// L1 distance, breaking ties toward the lowest index. Alpha is not part
// of the distance metric.
func Nearest(pal palette.Palette, r, g, b byte) int {
	best := 0
	bestDist := -1
	for i, c := range pal {
		dist := absDiff(r, c.R) + absDiff(g, c.G) + absDiff(b, c.B)
		if dist == 0 {
			return i
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// QuantizePixel converts one RGBA pixel to an (index, alpha) pair for the
// Indexed8Alpha8 pixel format. Fully transparent pixels bypass the
// palette search entirely and emit (0, 0) — the convention the decoder
// relies on to recognize a transparent pixel without consulting the
// palette at all.
func QuantizePixel(pal palette.Palette, r, g, b, a byte) (index byte, alpha byte) {
	if a == 0 {
		return 0, 0
	}
	return byte(Nearest(pal, r, g, b)), a
}
