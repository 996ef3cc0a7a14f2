// Package mpc decodes the legacy MPC sprite format: a fixed header, a BGRA
// palette, a frame-offset table, and one per-frame RLE stream. Unlike ASF,
// each MPC frame carries its own width and height and is not composited
// onto a shared canvas.
package mpc

import (
	"errors"

	"github.com/miu2d/spritecodec/internal/bin"
	"github.com/miu2d/spritecodec/internal/palette"
)

// Errors returned by Decode.
var (
	ErrInvalidSignature = errors.New("mpc: invalid signature")
)

const (
	signature  = "MPC File Ver"
	headerSize = 160

	offHeader        = 64
	offFramesDataLen = offHeader
	offGlobalWidth   = offHeader + 4
	offGlobalHeight  = offHeader + 8
	offFrameCount    = offHeader + 12
	offDirection     = offHeader + 16
	offColorCount    = offHeader + 20
	offInterval      = offHeader + 24
	offRawBottom     = offHeader + 28

	paletteOffset = 128

	frameHeaderSize = 20 // data_length:u32, width:u32, height:u32, reserved[8]

	// MaxFrameDimension is the per-frame safety ceiling: frames whose
	// width or height exceed it (or are zero) are empty.
	MaxFrameDimension = 2048
)

// ZeroByteSemantics selects how the MPC RLE decoder treats a 0x00 byte in
// the opaque-run dispatch position. The format's two historical decoders
// disagree on this point; both are well-formed-input-compatible, so the
// behavior is a parameter rather than a hardcoded choice.
type ZeroByteSemantics int

const (
	// ZeroByteBreak stops decoding the frame's RLE stream as soon as a
	// 0x00 dispatch byte is read (the stricter verify_mpc behavior).
	// This is the default: it matches the dedicated verifier, and is
	// the safer choice unless real files are found with a meaningful
	// trailing 0x00.
	ZeroByteBreak ZeroByteSemantics = iota
	// ZeroByteNoop treats 0x00 as a zero-count opaque run (a no-op) and
	// continues reading the stream (the main converter's behavior).
	ZeroByteNoop
)

// Header holds the fixed-offset MPC header fields.
type Header struct {
	FramesDataLength int
	GlobalWidth      int
	GlobalHeight     int
	FrameCount       int
	Direction        int
	ColorCount       int
	Interval         int
	RawBottom        int
}

// Anchor is the derived (left, bottom) anchor point, in signed pixel
// coordinates, used as the MSF anchor for MPC-provenance sprites.
type Anchor struct {
	X, Y int
}

// Frame is one decoded MPC frame: its own (Width, Height), a palette-index
// per pixel, and a parallel opaque mask (false = the RLE stream marked
// this pixel transparent).
type Frame struct {
	Width, Height int
	Index         []byte
	Opaque        []bool
}

// RGBA renders the frame to a width*height*4 RGBA buffer using pal,
// writing fully transparent pixels wherever Opaque is false.
func (f Frame) RGBA(pal palette.Palette) []byte {
	out := make([]byte, f.Width*f.Height*4)
	for i := range f.Index {
		if !f.Opaque[i] {
			continue
		}
		c := pal.At(int(f.Index[i]))
		off := i * 4
		out[off] = c.R
		out[off+1] = c.G
		out[off+2] = c.B
		out[off+3] = 255
	}
	return out
}

// Decoded is the result of decoding an MPC file.
type Decoded struct {
	Header  Header
	Palette palette.Palette
	Anchor  Anchor
	Frames  []Frame
}

// Decode parses an MPC file using the default ZeroByteBreak semantics.
func Decode(data []byte) (*Decoded, error) {
	return DecodeWithZeroByteSemantics(data, ZeroByteBreak)
}

// DecodeWithZeroByteSemantics parses an MPC file, applying the given
// semantics to 0x00 bytes encountered in the opaque-run dispatch position.
func DecodeWithZeroByteSemantics(data []byte, zero ZeroByteSemantics) (*Decoded, error) {
	if len(data) < headerSize || string(data[:len(signature)]) != signature {
		return nil, ErrInvalidSignature
	}

	h := Header{
		FramesDataLength: int(bin.ReadU32LE(data, offFramesDataLen)),
		GlobalWidth:      int(bin.ReadU32LE(data, offGlobalWidth)),
		GlobalHeight:     int(bin.ReadU32LE(data, offGlobalHeight)),
		FrameCount:       int(bin.ReadU32LE(data, offFrameCount)),
		Direction:        int(bin.ReadU32LE(data, offDirection)),
		ColorCount:       int(bin.ReadU32LE(data, offColorCount)),
		Interval:         int(bin.ReadU32LE(data, offInterval)),
		RawBottom:        int(bin.ReadU32LE(data, offRawBottom)),
	}

	anchor := deriveAnchor(h)

	palBytes := h.ColorCount * 4
	pal := palette.FromBGRA(safeSlice(data, paletteOffset, paletteOffset+palBytes), h.ColorCount, 255)

	offsetsStart := paletteOffset + palBytes
	frameDataStart := offsetsStart + h.FrameCount*4

	frames := make([]Frame, 0, h.FrameCount)
	for i := 0; i < h.FrameCount; i++ {
		rel := int(bin.ReadU32LE(data, offsetsStart+i*4))
		frameStart := frameDataStart + rel
		frames = append(frames, decodeFrame(data, frameStart, zero))
	}

	return &Decoded{Header: h, Palette: pal, Anchor: anchor, Frames: frames}, nil
}

// deriveAnchor computes a frame's on-canvas anchor point from the header's
// declared global dimensions and raw bottom offset.
func deriveAnchor(h Header) Anchor {
	left := h.GlobalWidth / 2
	var bottom int
	if h.GlobalHeight >= 16 {
		bottom = h.GlobalHeight - 16 - h.RawBottom
	} else {
		bottom = 16 - h.GlobalHeight - h.RawBottom
	}
	return Anchor{X: left, Y: bottom}
}

// decodeFrame parses one frame's header and RLE stream starting at
// frameStart. Out-of-range frameStart, a declared empty size, or an
// oversized dimension all yield an empty frame.
func decodeFrame(data []byte, frameStart int, zero ZeroByteSemantics) Frame {
	if frameStart < 0 || frameStart+frameHeaderSize > len(data) {
		return Frame{}
	}
	dataLength := int(bin.ReadU32LE(data, frameStart))
	width := int(bin.ReadU32LE(data, frameStart+4))
	height := int(bin.ReadU32LE(data, frameStart+8))

	if width == 0 || height == 0 || width > MaxFrameDimension || height > MaxFrameDimension {
		return Frame{}
	}

	pixelCount := width * height
	index := make([]byte, pixelCount)
	opaque := make([]bool, pixelCount)

	streamStart := frameStart + frameHeaderSize
	streamEnd := frameStart + dataLength
	if streamStart > len(data) {
		return Frame{Width: width, Height: height, Index: index, Opaque: opaque}
	}
	if streamEnd > len(data) {
		streamEnd = len(data)
	}
	if streamEnd < streamStart {
		streamEnd = streamStart
	}
	stream := data[streamStart:streamEnd]

	pixel := 0
	i := 0
	for i < len(stream) && pixel < pixelCount {
		b := stream[i]
		i++

		switch {
		case b > 0x80:
			run := int(b - 0x80)
			if pixel+run > pixelCount {
				run = pixelCount - pixel
			}
			pixel += run // opaque[pixel] already false; index already 0
		case b == 0x00:
			if zero == ZeroByteBreak {
				i = len(stream)
			}
			// ZeroByteNoop: zero-count opaque run, no-op, continue loop.
		default: // 0x01..0x80
			run := int(b)
			if pixel+run > pixelCount {
				run = pixelCount - pixel
			}
			if i+run > len(stream) {
				run = len(stream) - i
			}
			for j := 0; j < run; j++ {
				index[pixel] = stream[i+j]
				opaque[pixel] = true
				pixel++
			}
			i += run
		}
	}

	return Frame{Width: width, Height: height, Index: index, Opaque: opaque}
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
