// Package asf decodes the legacy ASF sprite format: a fixed header, a BGRA
// palette, a frame index, and one RLE-compressed stream per frame. Every
// frame shares the sprite's canvas dimensions; decoding expands each
// frame's RLE stream into a canvas-sized, initially-transparent RGBA
// buffer.
package asf

import (
	"errors"

	"github.com/miu2d/spritecodec/internal/bin"
	"github.com/miu2d/spritecodec/internal/palette"
)

// Errors returned by Decode.
var (
	ErrInvalidSignature = errors.New("asf: invalid signature")
)

const (
	signature  = "ASF 1.0"
	headerSize = 80

	offWidth      = 16
	offHeight     = 20
	offFrameCount = 24
	offDirections = 28
	offColorCount = 32
	offInterval   = 36
	offLeft       = 40
	offBottom     = 44

	// canvasSanityCeiling bounds the header's width/height against
	// corrupt files before any canvas-sized allocation; it is deliberately
	// far looser than the per-frame dimension ceiling since a shared
	// ASF canvas can legitimately be larger than any single cropped frame.
	canvasSanityCeiling = 1 << 16
)

// Header holds the fixed-offset ASF header fields.
type Header struct {
	Width      int
	Height     int
	FrameCount int
	Directions int
	ColorCount int
	Interval   int
	Left       int
	Bottom     int
}

// Decoded is the result of decoding an ASF file: one canvas-sized RGBA
// buffer per frame, all sharing Header.Width x Header.Height.
type Decoded struct {
	Header  Header
	Palette palette.Palette
	// Frames holds one canvas-sized (Width*Height*4 bytes) RGBA buffer
	// per frame, row-major, initialized fully transparent.
	Frames [][]byte
}

// Decode parses an ASF file and expands every frame's RLE stream to a
// canvas-sized RGBA buffer.
func Decode(data []byte) (*Decoded, error) {
	if len(data) < headerSize || string(data[:len(signature)]) != signature {
		return nil, ErrInvalidSignature
	}

	h := Header{
		Width:      int(bin.ReadU32LE(data, offWidth)),
		Height:     int(bin.ReadU32LE(data, offHeight)),
		FrameCount: int(bin.ReadU32LE(data, offFrameCount)),
		Directions: int(bin.ReadU32LE(data, offDirections)),
		ColorCount: int(bin.ReadU32LE(data, offColorCount)),
		Interval:   int(bin.ReadU32LE(data, offInterval)),
		Left:       int(bin.ReadU32LE(data, offLeft)),
		Bottom:     int(bin.ReadU32LE(data, offBottom)),
	}
	if h.Width <= 0 || h.Height <= 0 || h.Width > canvasSanityCeiling || h.Height > canvasSanityCeiling {
		return nil, ErrInvalidSignature
	}

	palOff := headerSize
	palBytes := h.ColorCount * 4
	pal := palette.FromBGRA(safeSlice(data, palOff, palOff+palBytes), h.ColorCount, 255)

	idxOff := palOff + palBytes
	frames := make([][]byte, 0, h.FrameCount)
	for i := 0; i < h.FrameCount; i++ {
		entryOff := idxOff + i*8
		offset := int(bin.ReadU32LE(data, entryOff))
		length := int(bin.ReadU32LE(data, entryOff+4))
		frames = append(frames, decodeFrame(data, offset, length, h.Width, h.Height, pal))
	}

	return &Decoded{Header: h, Palette: pal, Frames: frames}, nil
}

// decodeFrame expands one frame's RLE stream into a canvas-sized RGBA
// buffer. Malformed or truncated streams simply stop early, leaving the
// remainder of the canvas transparent, so a structural truncation inside
// a single frame degrades that frame rather than the whole file.
func decodeFrame(data []byte, offset, length, width, height int, pal palette.Palette) []byte {
	canvas := make([]byte, width*height*4)
	if offset < 0 || offset > len(data) {
		return canvas
	}
	end := offset + length
	if end > len(data) {
		end = len(data)
	}
	stream := data[offset:end]

	// pixelIdx is a *byte* index into canvas, advanced by 4 per pixel
	// (per spec's resolution of the ASF decoder's historical
	// count-vs-byte-stride ambiguity).
	pixelIdx := 0
	canvasBytes := len(canvas)
	i := 0
	for i < len(stream) && pixelIdx < canvasBytes {
		if i+2 > len(stream) {
			break
		}
		count := int(stream[i])
		alpha := stream[i+1]
		i += 2

		if alpha == 0 {
			// Transparent run: canvas is already zeroed, just advance.
			pixelIdx += count * 4
			continue
		}

		if i+count > len(stream) {
			count = len(stream) - i
		}
		for j := 0; j < count && pixelIdx+4 <= canvasBytes; j++ {
			idx := int(stream[i+j])
			c := pal.At(idx)
			canvas[pixelIdx] = c.R
			canvas[pixelIdx+1] = c.G
			canvas[pixelIdx+2] = c.B
			canvas[pixelIdx+3] = alpha
			pixelIdx += 4
		}
		i += count
	}
	return canvas
}

func safeSlice(data []byte, start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if start > len(data) {
		start = len(data)
	}
	if end > len(data) {
		end = len(data)
	}
	if end < start {
		end = start
	}
	return data[start:end]
}
