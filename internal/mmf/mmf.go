package mmf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/miu2d/spritecodec/internal/bin"
)

const (
	mmfMagic    = "MMF1"
	mmfVersion  = uint16(1)
	flagZstd    = 1 << 0
	flagTraps   = 1 << 1
	decompressSanityCap = 256 << 20
)

// Errors returned by Decode.
var (
	ErrInvalidMMFSignature = errors.New("mmf: invalid signature")
	ErrTruncated           = errors.New("mmf: truncated container")
	ErrCompressionFailure  = errors.New("mmf: compression failure")
)

// SpriteRef is one dense entry in the MMF sprite table.
type SpriteRef struct {
	Name    string
	Looping bool
}

// Trap is one entry in the MMF trap table.
type Trap struct {
	Index byte
	Path  string
}

// TilePlanes holds the five decompressed tile-blob planes, each with
// Columns*Rows entries in row-major order.
type TilePlanes struct {
	L1Slot, L1Frame []byte
	L2Slot, L2Frame []byte
	L3Slot, L3Frame []byte
	Barrier         []byte
	Trap            []byte
}

// EncodeInput parameterizes Encode.
type EncodeInput struct {
	Columns, Rows int
	Sprites       []SpriteRef
	Traps         []Trap
	Planes        TilePlanes
}

// Encode assembles an MMF container: preamble, header, sprite table,
// trap table (if any), END sentinel, and a zstd-compressed tile blob
// holding TilePlanes' layers concatenated in field order.
func Encode(in EncodeInput) ([]byte, error) {
	var out bytes.Buffer

	flags := uint16(flagZstd)
	if len(in.Traps) > 0 {
		flags |= flagTraps
	}

	out.WriteString(mmfMagic)
	writeU16(&out, mmfVersion)
	writeU16(&out, flags)

	writeU16(&out, uint16(in.Columns))
	writeU16(&out, uint16(in.Rows))
	writeU16(&out, uint16(len(in.Sprites)))
	writeU16(&out, uint16(len(in.Traps)))
	out.Write(make([]byte, 2)) // reserved

	for _, s := range in.Sprites {
		nb := []byte(s.Name)
		out.WriteByte(byte(len(nb)))
		out.Write(nb)
		if s.Looping {
			out.WriteByte(1)
		} else {
			out.WriteByte(0)
		}
	}

	if flags&flagTraps != 0 {
		for _, tr := range in.Traps {
			out.WriteByte(tr.Index)
			pb := []byte(tr.Path)
			writeU16(&out, uint16(len(pb)))
			out.Write(pb)
		}
	}

	out.WriteString("END\x00")
	writeU32(&out, 0)

	tileCount := in.Columns * in.Rows
	blob := encodeTilePlanes(in.Planes, tileCount)
	compressed, err := compress(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}
	out.Write(compressed)

	return out.Bytes(), nil
}

// encodeTilePlanes concatenates the five planes in spec order: layer-1
// (slot, frame) pairs, layer-2 pairs, layer-3 pairs, barrier bytes,
// trap-index bytes.
func encodeTilePlanes(p TilePlanes, tileCount int) []byte {
	out := make([]byte, 0, tileCount*8)
	for i := 0; i < tileCount; i++ {
		out = append(out, at(p.L1Slot, i), at(p.L1Frame, i))
	}
	for i := 0; i < tileCount; i++ {
		out = append(out, at(p.L2Slot, i), at(p.L2Frame, i))
	}
	for i := 0; i < tileCount; i++ {
		out = append(out, at(p.L3Slot, i), at(p.L3Frame, i))
	}
	out = append(out, padTo(p.Barrier, tileCount)...)
	out = append(out, padTo(p.Trap, tileCount)...)
	return out
}

func at(b []byte, i int) byte {
	if i >= len(b) {
		return 0
	}
	return b[i]
}

func padTo(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Decoded is a fully parsed MMF file.
type Decoded struct {
	Columns, Rows int
	Sprites       []SpriteRef
	Traps         []Trap
	Planes        TilePlanes
}

// Decode parses an MMF file.
func Decode(data []byte) (*Decoded, error) {
	if len(data) < 8+10 || string(data[:4]) != mmfMagic {
		return nil, ErrInvalidMMFSignature
	}
	off := 4
	off += 2 // version
	flags := bin.ReadU16LE(data, off)
	off += 2

	d := &Decoded{
		Columns: int(bin.ReadU16LE(data, off)),
	}
	off += 2
	d.Rows = int(bin.ReadU16LE(data, off))
	off += 2
	spriteCount := int(bin.ReadU16LE(data, off))
	off += 2
	trapCount := int(bin.ReadU16LE(data, off))
	off += 2
	off += 2 // reserved

	for i := 0; i < spriteCount; i++ {
		if off >= len(data) {
			return nil, ErrTruncated
		}
		nameLen := int(data[off])
		off++
		if off+nameLen+1 > len(data) {
			return nil, ErrTruncated
		}
		name := string(data[off : off+nameLen])
		off += nameLen
		looping := data[off] != 0
		off++
		d.Sprites = append(d.Sprites, SpriteRef{Name: name, Looping: looping})
	}

	if flags&flagTraps != 0 {
		for i := 0; i < trapCount; i++ {
			if off+3 > len(data) {
				return nil, ErrTruncated
			}
			idx := data[off]
			off++
			pathLen := int(bin.ReadU16LE(data, off))
			off += 2
			if off+pathLen > len(data) {
				return nil, ErrTruncated
			}
			path := string(data[off : off+pathLen])
			off += pathLen
			d.Traps = append(d.Traps, Trap{Index: idx, Path: path})
		}
	}

	// END sentinel
	if off+8 > len(data) {
		return nil, ErrTruncated
	}
	off += 8

	payload := data[off:]
	var blob []byte
	if flags&flagZstd != 0 {
		var err error
		blob, err = decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
		}
	} else {
		blob = payload
	}

	tileCount := d.Columns * d.Rows
	d.Planes = decodeTilePlanes(blob, tileCount)
	return d, nil
}

func decodeTilePlanes(blob []byte, tileCount int) TilePlanes {
	var p TilePlanes
	p.L1Slot = make([]byte, tileCount)
	p.L1Frame = make([]byte, tileCount)
	p.L2Slot = make([]byte, tileCount)
	p.L2Frame = make([]byte, tileCount)
	p.L3Slot = make([]byte, tileCount)
	p.L3Frame = make([]byte, tileCount)

	readPairs := func(off int, slot, frame []byte) int {
		for i := 0; i < tileCount; i++ {
			if off+2 > len(blob) {
				return off
			}
			slot[i] = blob[off]
			frame[i] = blob[off+1]
			off += 2
		}
		return off
	}

	off := 0
	off = readPairs(off, p.L1Slot, p.L1Frame)
	off = readPairs(off, p.L2Slot, p.L2Frame)
	off = readPairs(off, p.L3Slot, p.L3Frame)

	end := off + tileCount
	if end > len(blob) {
		end = len(blob)
	}
	p.Barrier = padTo(blob[off:end], tileCount)
	off = off + tileCount

	end2 := off + tileCount
	if end2 > len(blob) {
		end2 = len(blob)
	}
	if off < len(blob) {
		p.Trap = padTo(blob[off:end2], tileCount)
	} else {
		p.Trap = make([]byte, tileCount)
	}

	return p
}

func writeU16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func writeU32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 24))
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
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
