// Package mmf translates the legacy MAP tile-map format into MMF: compact
// UTF-8 sprite-slot table, embedded trap table, and a zstd-compressed
// tile blob. It shares MSF's compression and extension-chunk discipline,
// which is why this translator lives alongside the sprite codecs rather
// than as a wholly separate format family.
package mmf

import (
	"errors"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/miu2d/spritecodec/internal/bin"
)

// Errors returned by DecodeMap.
var ErrInvalidMapSignature = errors.New("map: invalid signature")

const (
	mapSignature = "MAP File Ver"

	offColumns = 68
	offRows    = 72

	spriteTableOffset = 192
	spriteSlotCount    = 255
	spriteSlotSize     = 64
	spriteNameSize     = 32
	spriteLoopOffset   = 36 // relative to slot start

	tileDataOffset = 16512
	tileRecordSize = 10
)

// SpriteSlot is one (possibly empty) entry in MAP's 255-slot sprite table.
type SpriteSlot struct {
	// Name is the UTF-8-recoded filename, empty for an unpopulated slot.
	Name    string
	Looping bool
}

// TileRecord is one decoded tile: three sprite layers (frame + 1-based
// slot index, 0 = none), a barrier byte, and a trap index byte.
type TileRecord struct {
	L1Frame, L1Slot byte
	L2Frame, L2Slot byte
	L3Frame, L3Slot byte
	Barrier         byte
	Trap            byte
}

// DecodedMap is a fully parsed MAP file.
type DecodedMap struct {
	Columns, Rows int
	Sprites       [spriteSlotCount]SpriteSlot
	Tiles         []TileRecord // Columns*Rows, row-major
}

// DecodeMap parses a MAP file: dimensions, the 255-slot sprite table
// (GBK filenames recoded to UTF-8), and the row-major tile array.
func DecodeMap(data []byte) (*DecodedMap, error) {
	if len(data) < tileDataOffset || string(data[:len(mapSignature)]) != mapSignature {
		return nil, ErrInvalidMapSignature
	}

	m := &DecodedMap{
		Columns: int(bin.ReadU32LE(data, offColumns)),
		Rows:    int(bin.ReadU32LE(data, offRows)),
	}

	dec := simplifiedchinese.GBK.NewDecoder()
	for i := 0; i < spriteSlotCount; i++ {
		slotOff := spriteTableOffset + i*spriteSlotSize
		if slotOff+spriteSlotSize > len(data) {
			break
		}
		nameBytes := data[slotOff : slotOff+spriteNameSize]
		if z := indexZero(nameBytes); z >= 0 {
			nameBytes = nameBytes[:z]
		}
		if len(nameBytes) == 0 {
			continue
		}
		name, err := dec.Bytes(nameBytes)
		if err != nil {
			// A slot with undecodable bytes is treated as unpopulated
			// rather than aborting the whole file (spec's per-frame/
			// per-record tolerance principle extended to sprite slots).
			continue
		}
		m.Sprites[i] = SpriteSlot{
			Name:    string(name),
			Looping: data[slotOff+spriteLoopOffset] != 0,
		}
	}

	tileCount := m.Columns * m.Rows
	m.Tiles = make([]TileRecord, 0, tileCount)
	for i := 0; i < tileCount; i++ {
		off := tileDataOffset + i*tileRecordSize
		if off+tileRecordSize > len(data) {
			// Truncated trailer: remaining tiles default to empty, matching
			// spec's tolerance for truncated per-record input.
			m.Tiles = append(m.Tiles, TileRecord{})
			continue
		}
		r := data[off : off+tileRecordSize]
		m.Tiles = append(m.Tiles, TileRecord{
			L1Frame: r[0], L1Slot: r[1],
			L2Frame: r[2], L2Slot: r[3],
			L3Frame: r[4], L3Slot: r[5],
			Barrier: r[6], Trap: r[7],
		})
	}

	return m, nil
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
