package mmf

import (
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/miu2d/spritecodec/internal/bin"
)

func buildMAP(t *testing.T, columns, rows int, sprites map[int]SpriteSlot, tiles []TileRecord) []byte {
	t.Helper()
	size := tileDataOffset + columns*rows*tileRecordSize
	data := make([]byte, size)
	copy(data, mapSignature)
	bin.WriteU32LE(data, offColumns, uint32(columns))
	bin.WriteU32LE(data, offRows, uint32(rows))

	enc := simplifiedchinese.GBK.NewEncoder()
	for slot, s := range sprites {
		off := spriteTableOffset + slot*spriteSlotSize
		nb, err := enc.Bytes([]byte(s.Name))
		if err != nil {
			t.Fatalf("GBK encode %q: %v", s.Name, err)
		}
		copy(data[off:off+spriteNameSize], nb)
		if s.Looping {
			data[off+spriteLoopOffset] = 1
		}
	}

	for i, tr := range tiles {
		off := tileDataOffset + i*tileRecordSize
		data[off] = tr.L1Frame
		data[off+1] = tr.L1Slot
		data[off+2] = tr.L2Frame
		data[off+3] = tr.L2Slot
		data[off+4] = tr.L3Frame
		data[off+5] = tr.L3Slot
		data[off+6] = tr.Barrier
		data[off+7] = tr.Trap
	}
	return data
}

func TestDecodeMapBasic(t *testing.T) {
	data := buildMAP(t, 2, 1,
		map[int]SpriteSlot{
			3:  {Name: "tree01.mpc"},
			7:  {Name: "rock02.mpc", Looping: true},
			42: {Name: "water.mpc"},
		},
		[]TileRecord{
			{L1Frame: 0, L1Slot: 8}, // 1-based slot 8 -> old index 7
			{},
		},
	)

	m, err := DecodeMap(data)
	if err != nil {
		t.Fatalf("DecodeMap: %v", err)
	}
	if m.Columns != 2 || m.Rows != 1 {
		t.Fatalf("dims = (%d,%d)", m.Columns, m.Rows)
	}
	if m.Sprites[3].Name != "tree01.mpc" || m.Sprites[7].Name != "rock02.mpc" || !m.Sprites[7].Looping {
		t.Fatalf("sprites = %+v", m.Sprites[:10])
	}
	if m.Sprites[42].Name != "water.mpc" {
		t.Fatalf("sprite 42 = %+v", m.Sprites[42])
	}
	if len(m.Tiles) != 2 || m.Tiles[0].L1Slot != 8 {
		t.Fatalf("tiles = %+v", m.Tiles)
	}
}

func TestDecodeMapInvalidSignature(t *testing.T) {
	data := make([]byte, tileDataOffset)
	copy(data, "NOT A MAP!!!")
	if _, err := DecodeMap(data); err != ErrInvalidMapSignature {
		t.Fatalf("err = %v, want ErrInvalidMapSignature", err)
	}
}

func TestDecodeMapTruncatedTileTrailer(t *testing.T) {
	data := buildMAP(t, 4, 4, nil, nil) // no tile records written at all
	m, err := DecodeMap(data[:tileDataOffset])
	if err != nil {
		t.Fatalf("DecodeMap: %v", err)
	}
	if len(m.Tiles) != 16 {
		t.Fatalf("tiles len = %d, want 16 zero-value records", len(m.Tiles))
	}
	for _, tr := range m.Tiles {
		if tr != (TileRecord{}) {
			t.Fatalf("tile = %+v, want zero value", tr)
		}
	}
}
