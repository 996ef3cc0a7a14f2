// Package palette implements the sprite palette representation shared by
// the ASF and MPC decoders and the MSF encoder: up to 256 RGBA entries,
// with support for the BGRA-on-disk layout both legacy formats use and
// for designating a single transparent index (the MPC path's encoding
// trick for 1-byte-per-pixel storage).
package palette

import "image/color"

// MaxSize is the maximum number of entries a palette may hold; pixel
// indices are single bytes.
const MaxSize = 256

// Palette is a sequence of RGBA entries indexed by a single byte.
type Palette []color.NRGBA

// FromBGRA builds a Palette from count entries of on-disk BGRA bytes
// (4 bytes per entry: B, G, R, A), as both ASF and MPC store their
// palettes. alphaOverride, when non-negative, overrides every entry's alpha
// (the ASF path forces 255 so per-pixel alpha can be carried separately);
// pass -1 to keep the on-disk alpha byte.
func FromBGRA(data []byte, count int, alphaOverride int) Palette {
	p := make(Palette, count)
	for i := 0; i < count; i++ {
		off := i * 4
		if off+4 > len(data) {
			break
		}
		b, g, r, a := data[off], data[off+1], data[off+2], data[off+3]
		if alphaOverride >= 0 {
			a = byte(alphaOverride)
		}
		p[i] = color.NRGBA{R: r, G: g, B: b, A: a}
	}
	return p
}

// FromRGBA builds a Palette from len(data)/4 entries of already-RGBA
// on-disk bytes (r, g, b, a per entry), as MSF stores its palette.
func FromRGBA(data []byte) Palette {
	n := len(data) / 4
	p := make(Palette, n)
	for i := 0; i < n; i++ {
		off := i * 4
		p[i] = color.NRGBA{R: data[off], G: data[off+1], B: data[off+2], A: data[off+3]}
	}
	return p
}

// Clone returns an independent copy of p.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// EnsureLen extends p with opaque black entries up to n, returning the
// possibly-reallocated slice. Used by the MPC path when the discovered
// transparent index falls outside the original palette bounds.
func (p Palette) EnsureLen(n int) Palette {
	for len(p) < n {
		p = append(p, color.NRGBA{A: 255})
	}
	return p
}

// SetTransparent overwrites the entry at index idx with fully transparent
// black, the MPC-provenance path's designated "skip" sentinel.
func (p Palette) SetTransparent(idx int) {
	p[idx] = color.NRGBA{}
}

// IsTransparentIndex reports whether the palette entry at idx has alpha 0,
// i.e. is the designated transparent slot used by Indexed8 decoding.
func (p Palette) IsTransparentIndex(idx int) bool {
	if idx < 0 || idx >= len(p) {
		return true
	}
	return p[idx].A == 0
}

// At returns the color at idx, or fully transparent black if idx is out
// of range (a malformed pixel plane referencing a nonexistent slot).
func (p Palette) At(idx int) color.NRGBA {
	if idx < 0 || idx >= len(p) {
		return color.NRGBA{}
	}
	return p[idx]
}
