package mpc

import (
	"testing"

	"github.com/miu2d/spritecodec/internal/bin"
)

// FuzzDecode ensures no malformed or truncated MPC input can panic the
// decoder, including inputs that hit both ZeroByteSemantics paths.
func FuzzDecode(f *testing.F) {
	header := make([]byte, headerSize)
	copy(header, signature)
	bin.WriteU32LE(header, offGlobalWidth, 4)
	bin.WriteU32LE(header, offGlobalHeight, 4)
	bin.WriteU32LE(header, offFrameCount, 1)
	bin.WriteU32LE(header, offColorCount, 1)
	bin.WriteU32LE(header, offRawBottom, 2)

	palette := []byte{0, 0, 255, 255}
	rle := []byte{2, 0, 0, 0x00, 0x8E} // opaque run of 2, a dispatch 0x00, then 14 transparent
	offsets := make([]byte, 4)
	fh := make([]byte, frameHeaderSize)
	bin.WriteU32LE(fh, 0, uint32(frameHeaderSize+len(rle)))
	bin.WriteU32LE(fh, 4, 4)
	bin.WriteU32LE(fh, 8, 4)

	seed := append([]byte{}, header[:paletteOffset]...)
	seed = append(seed, palette...)
	seed = append(seed, offsets...)
	seed = append(seed, fh...)
	seed = append(seed, rle...)
	f.Add(seed)
	f.Add(seed[:len(seed)-1]) // truncated mid-RLE-stream
	f.Add([]byte("not an mpc file at all"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		Decode(data) //nolint:errcheck
		DecodeWithZeroByteSemantics(data, ZeroByteNoop) //nolint:errcheck
	})
}
