package asf

import (
	"testing"

	"github.com/miu2d/spritecodec/internal/bin"
)

// FuzzDecode ensures no malformed or truncated ASF input can panic the
// decoder; truncated frame data should degrade to a transparent canvas
// rather than crash.
func FuzzDecode(f *testing.F) {
	header := make([]byte, headerSize)
	copy(header, signature)
	bin.WriteU32LE(header, offWidth, 4)
	bin.WriteU32LE(header, offHeight, 4)
	bin.WriteU32LE(header, offFrameCount, 1)
	bin.WriteU32LE(header, offDirections, 1)
	bin.WriteU32LE(header, offColorCount, 1)
	bin.WriteU32LE(header, offInterval, 100)
	palette := []byte{0, 0, 255, 255}
	frameIndex := make([]byte, 8)
	bin.WriteU32LE(frameIndex, 0, uint32(len(header)+len(palette)+len(frameIndex)))
	rle := append([]byte{16, 255}, make([]byte, 16)...)
	bin.WriteU32LE(frameIndex, 4, uint32(len(rle)))

	seed := append([]byte{}, header...)
	seed = append(seed, palette...)
	seed = append(seed, frameIndex...)
	seed = append(seed, rle...)
	f.Add(seed)
	f.Add(seed[:len(seed)-5]) // truncated mid-RLE-stream
	f.Add([]byte("not an asf file at all"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		Decode(data) //nolint:errcheck
	})
}
