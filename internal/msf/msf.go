// Package msf implements the MSF sprite container: encoding a sequence of
// frames (each either a full-canvas bbox crop from ASF provenance or an
// own-sized frame from MPC provenance) into a byte-exact on-disk layout,
// and decoding that layout back into per-frame RGBA pixels in either
// composited-canvas or individual-frame mode.
//
// The container framing itself — a fixed preamble, a fixed header, a
// variable-size palette and frame table, an extension-chunk region
// terminated by an END sentinel, and a single compressed payload blob —
// follows the same discipline as a RIFF chunk stream: every region is
// length-prefixed or has a fixed stride, so a reader can skip anything it
// doesn't understand.
package msf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/miu2d/spritecodec/internal/bin"
	"github.com/miu2d/spritecodec/internal/palette"
)

// PixelFormat identifies how a frame's pixel plane is laid out on disk.
type PixelFormat uint8

const (
	// RGBA8 stores 4 bytes per pixel, no palette lookup.
	RGBA8 PixelFormat = 0
	// Indexed8 stores 1 byte per pixel (a palette index); transparency
	// is carried by palette entries whose alpha is 0.
	Indexed8 PixelFormat = 1
	// Indexed8Alpha8 stores 2 bytes per pixel (palette index, alpha);
	// the palette's own alpha is ignored in favor of the parallel byte.
	Indexed8Alpha8 PixelFormat = 2
)

// Provenance magics identify which legacy format an MSF blob was
// converted from, which in turn fixes its pixel format.
const (
	MagicASF = "MSF1" // ASF-provenance, Indexed8Alpha8
	MagicMPC = "MSF2" // MPC-provenance, Indexed8
)

const (
	preambleSize     = 8
	headerSize       = 16
	formatDescSize   = 4
	frameTableStride = 16
	endSentinelSize  = 8

	// decompressSanityCap bounds zstd output size before anything
	// indexes into it.
	decompressSanityCap = 256 << 20
)

// Errors surfaced by Decode/Encode.
var (
	ErrInvalidSignature   = errors.New("msf: invalid signature")
	ErrTruncated          = errors.New("msf: truncated container")
	ErrUnknownPixelFormat = errors.New("msf: unknown pixel format")
	ErrCompressionFailure = errors.New("msf: compression failure")
)

// FrameTableEntry is the fixed 16-byte per-frame index record.
type FrameTableEntry struct {
	OffsetX, OffsetY   int16
	Width, Height      uint16
	DataOffset         uint32
	DataLength         uint32
}

// ExtensionChunk is one unrecognized (id, payload) record found between
// the frame table and the END sentinel. MSF v1/v2 files written by this
// package never emit any, but Decode preserves what it skips so a caller
// can inspect forward-compatible metadata.
type ExtensionChunk struct {
	ID      [4]byte
	Payload []byte
}

// Sprite is a fully decoded MSF container: header fields, palette, frame
// table, and the decompressed concatenated pixel blob.
type Sprite struct {
	Magic        string
	Version      uint16
	Flags        uint16
	CanvasWidth  int
	CanvasHeight int
	FrameCount   int
	Directions   int
	FPS          int
	AnchorX      int16
	AnchorY      int16
	PixelFormat  PixelFormat
	Palette      palette.Palette
	FrameTable   []FrameTableEntry
	Extensions   []ExtensionChunk
	Blob         []byte
}

// FramesPerDirection returns frame_count / max(directions, 1), the number
// of animation frames carried by each facing direction.
func (s *Sprite) FramesPerDirection() int {
	d := s.Directions
	if d < 1 {
		d = 1
	}
	return s.FrameCount / d
}

// EncodeFrame is one frame's pixel data as staged by the caller (already
// bbox-cropped for ASF provenance, or at native size for MPC provenance),
// plus its placement inside the canvas. Data is nil/empty for an empty
// frame; its bytes must already be encoded in the target PixelFormat.
type EncodeFrame struct {
	OffsetX, OffsetY int
	Width, Height    int
	Data             []byte
}

// EncodeInput parameterizes Encode; Magic/PixelFormat together select the
// ASF or MPC provenance variant being produced.
type EncodeInput struct {
	Magic        string
	Version      uint16
	CanvasWidth  int
	CanvasHeight int
	Directions   int
	FPS          int
	AnchorX      int16
	AnchorY      int16
	PixelFormat  PixelFormat
	Palette      palette.Palette
	Frames       []EncodeFrame
	// ZstdLevel controls compression effort; 0 selects the package
	// default (a moderate level, matching the corpus's observed default).
	ZstdLevel int
}

const defaultZstdLevel = 3

// Encode assembles an MSF container: preamble, header, pixel-format
// descriptor, palette, frame table, an (empty, for v1/v2) extension
// region, an END sentinel, and a zstd-compressed concatenated frame-data
// blob.
func Encode(in EncodeInput) ([]byte, error) {
	if len(in.Magic) != 4 {
		return nil, fmt.Errorf("msf: magic must be 4 bytes, got %q", in.Magic)
	}

	var blob bytes.Buffer
	table := make([]FrameTableEntry, len(in.Frames))
	for i, f := range in.Frames {
		running := uint32(blob.Len())
		if len(f.Data) == 0 {
			table[i] = FrameTableEntry{DataOffset: running}
			continue
		}
		table[i] = FrameTableEntry{
			OffsetX:    int16(f.OffsetX),
			OffsetY:    int16(f.OffsetY),
			Width:      uint16(f.Width),
			Height:     uint16(f.Height),
			DataOffset: running,
			DataLength: uint32(len(f.Data)),
		}
		blob.Write(f.Data)
	}

	level := in.ZstdLevel
	if level == 0 {
		level = defaultZstdLevel
	}
	compressed, err := compress(blob.Bytes(), level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}

	out := bytes.Buffer{}
	out.Grow(preambleSize + headerSize + formatDescSize +
		len(in.Palette)*4 + len(table)*frameTableStride + endSentinelSize + len(compressed))

	// Preamble: magic(4) | version:u16 | flags:u16
	out.WriteString(in.Magic)
	writeU16(&out, in.Version)
	writeU16(&out, 1) // flags bit 0 = zstd-compressed

	// Header: canvas_w/h/frame_count:u16 | directions/fps:u8 | anchor x/y:i16 | reserved[4]
	writeU16(&out, uint16(in.CanvasWidth))
	writeU16(&out, uint16(in.CanvasHeight))
	writeU16(&out, uint16(len(in.Frames)))
	out.WriteByte(byte(in.Directions))
	out.WriteByte(byte(in.FPS))
	writeI16(&out, in.AnchorX)
	writeI16(&out, in.AnchorY)
	out.Write(make([]byte, 4)) // reserved

	// Pixel-format descriptor: pixel_format:u8 | palette_size:u16 | reserved:u8
	out.WriteByte(byte(in.PixelFormat))
	writeU16(&out, uint16(len(in.Palette)))
	out.WriteByte(0)

	// Palette
	for _, c := range in.Palette {
		out.WriteByte(c.R)
		out.WriteByte(c.G)
		out.WriteByte(c.B)
		out.WriteByte(c.A)
	}

	// Frame table
	entry := make([]byte, frameTableStride)
	for _, e := range table {
		bin.WriteI16LE(entry, 0, e.OffsetX)
		bin.WriteI16LE(entry, 2, e.OffsetY)
		bin.WriteU16LE(entry, 4, e.Width)
		bin.WriteU16LE(entry, 6, e.Height)
		bin.WriteU32LE(entry, 8, e.DataOffset)
		bin.WriteU32LE(entry, 12, e.DataLength)
		out.Write(entry)
	}

	// No extension chunks in v1/v2; END sentinel: "END\0" | 0u32
	out.WriteString("END\x00")
	writeU32(&out, 0)

	out.Write(compressed)
	return out.Bytes(), nil
}

// Decode parses an MSF container, decompressing its payload blob. It
// accepts either provenance magic and dispatches purely on PixelFormat.
func Decode(data []byte) (*Sprite, error) {
	if len(data) < preambleSize+headerSize+formatDescSize {
		return nil, ErrTruncated
	}
	magic := string(data[0:4])
	if magic != MagicASF && magic != MagicMPC {
		return nil, ErrInvalidSignature
	}

	s := &Sprite{Magic: magic}
	off := 4
	s.Version = bin.ReadU16LE(data, off)
	off += 2
	s.Flags = bin.ReadU16LE(data, off)
	off += 2

	s.CanvasWidth = int(bin.ReadU16LE(data, off))
	off += 2
	s.CanvasHeight = int(bin.ReadU16LE(data, off))
	off += 2
	s.FrameCount = int(bin.ReadU16LE(data, off))
	off += 2
	s.Directions = int(data[off])
	off++
	s.FPS = int(data[off])
	off++
	s.AnchorX = bin.ReadI16LE(data, off)
	off += 2
	s.AnchorY = bin.ReadI16LE(data, off)
	off += 2
	off += 4 // reserved

	s.PixelFormat = PixelFormat(data[off])
	off++
	paletteSize := int(bin.ReadU16LE(data, off))
	off += 2
	off++ // reserved

	if s.PixelFormat != RGBA8 && s.PixelFormat != Indexed8 && s.PixelFormat != Indexed8Alpha8 {
		return nil, ErrUnknownPixelFormat
	}

	palBytes := paletteSize * 4
	if off+palBytes > len(data) {
		return nil, ErrTruncated
	}
	s.Palette = palette.FromRGBA(data[off : off+palBytes])
	off += palBytes

	tableBytes := s.FrameCount * frameTableStride
	if off+tableBytes > len(data) {
		return nil, ErrTruncated
	}
	s.FrameTable = make([]FrameTableEntry, s.FrameCount)
	for i := 0; i < s.FrameCount; i++ {
		eoff := off + i*frameTableStride
		s.FrameTable[i] = FrameTableEntry{
			OffsetX:    bin.ReadI16LE(data, eoff),
			OffsetY:    bin.ReadI16LE(data, eoff+2),
			Width:      bin.ReadU16LE(data, eoff+4),
			Height:     bin.ReadU16LE(data, eoff+6),
			DataOffset: bin.ReadU32LE(data, eoff+8),
			DataLength: bin.ReadU32LE(data, eoff+12),
		}
	}
	off += tableBytes

	// Walk extension chunks until the END sentinel.
	for {
		if off+8 > len(data) {
			return nil, ErrTruncated
		}
		var id [4]byte
		copy(id[:], data[off:off+4])
		length := bin.ReadU32LE(data, off+4)
		off += 8
		if id == [4]byte{'E', 'N', 'D', 0} {
			break
		}
		if off+int(length) > len(data) {
			return nil, ErrTruncated
		}
		s.Extensions = append(s.Extensions, ExtensionChunk{ID: id, Payload: data[off : off+int(length)]})
		off += int(length)
	}

	payload := data[off:]
	if s.Flags&1 != 0 {
		blob, err := decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
		}
		s.Blob = blob
	} else {
		s.Blob = payload
	}

	return s, nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func writeI16(buf *bytes.Buffer, v int16) {
	writeU16(buf, uint16(v))
}

func writeU32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 24))
}

func compress(data []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(decompressSanityCap))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
