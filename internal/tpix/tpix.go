// Package tpix discovers a spare palette slot in an MPC sprite that no
// opaque pixel in any frame references, so that slot can be repurposed as
// the transparent index for 1-byte-per-pixel Indexed8 storage.
package tpix

import "github.com/miu2d/spritecodec/internal/mpc"

// Find scans every frame's decoded index plane and returns the smallest
// palette index in [0,256) that no opaque pixel references. If every
// index 0..255 is used by some opaque pixel, it falls back to 0; a
// sprite that fully saturates its palette this way would misrender one
// opaque pixel as transparent, but no such sprite is known to exist.
func Find(frames []mpc.Frame) int {
	var used [256]bool
	for _, f := range frames {
		for i, op := range f.Opaque {
			if op {
				used[f.Index[i]] = true
			}
		}
	}
	for i := 0; i < 256; i++ {
		if !used[i] {
			return i
		}
	}
	return 0
}
