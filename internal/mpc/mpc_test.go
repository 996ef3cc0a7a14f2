package mpc

import (
	"testing"

	"github.com/miu2d/spritecodec/internal/bin"
)

func buildMPC(t *testing.T, globalW, globalH, frameCount int, frameRLEs [][]byte) []byte {
	t.Helper()
	header := make([]byte, headerSize)
	copy(header, signature)
	bin.WriteU32LE(header, offGlobalWidth, uint32(globalW))
	bin.WriteU32LE(header, offGlobalHeight, uint32(globalH))
	bin.WriteU32LE(header, offFrameCount, uint32(frameCount))
	bin.WriteU32LE(header, offColorCount, 1)
	bin.WriteU32LE(header, offRawBottom, 2)

	palette := []byte{0, 0, 255, 255} // BGRA -> opaque red

	offsets := make([]byte, 4*frameCount)
	var frameData []byte
	for i, rle := range frameRLEs {
		bin.WriteU32LE(offsets, i*4, uint32(len(frameData)))
		fh := make([]byte, frameHeaderSize)
		bin.WriteU32LE(fh, 0, uint32(frameHeaderSize+len(rle)))
		bin.WriteU32LE(fh, 4, 4) // width
		bin.WriteU32LE(fh, 8, 4) // height
		frameData = append(frameData, fh...)
		frameData = append(frameData, rle...)
	}

	// The palette starts at paletteOffset, inside the headerSize minimum;
	// short files are zero-padded up to that minimum.
	out := append([]byte{}, header[:paletteOffset]...)
	out = append(out, palette...)
	out = append(out, offsets...)
	out = append(out, frameData...)
	if len(out) < headerSize {
		out = append(out, make([]byte, headerSize-len(out))...)
	}
	return out
}

func TestDecodeOpaqueRun(t *testing.T) {
	// 16 opaque pixels, index 0, byte value 16 (0x10) dispatches opaque run.
	rle := append([]byte{16}, make([]byte, 16)...)
	data := buildMPC(t, 32, 32, 1, [][]byte{rle})

	dec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(dec.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(dec.Frames))
	}
	f := dec.Frames[0]
	if f.Width != 4 || f.Height != 4 {
		t.Fatalf("frame size = %dx%d, want 4x4", f.Width, f.Height)
	}
	for i, op := range f.Opaque {
		if !op {
			t.Fatalf("pixel %d not opaque", i)
		}
	}
}

func TestDecodeTransparentRun(t *testing.T) {
	// byte 0x90 = 0x80+16: 16 transparent pixels.
	rle := []byte{0x90}
	data := buildMPC(t, 32, 32, 1, [][]byte{rle})

	dec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f := dec.Frames[0]
	for i, op := range f.Opaque {
		if op {
			t.Fatalf("pixel %d should be transparent", i)
		}
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	// Force width/height to 0 by hand-crafting frame header.
	header := make([]byte, headerSize)
	copy(header, signature)
	bin.WriteU32LE(header, offGlobalWidth, 32)
	bin.WriteU32LE(header, offGlobalHeight, 32)
	bin.WriteU32LE(header, offFrameCount, 1)
	bin.WriteU32LE(header, offColorCount, 0)
	offsets := make([]byte, 4)
	fh := make([]byte, frameHeaderSize)
	bin.WriteU32LE(fh, 0, frameHeaderSize)
	// width/height left at 0
	out := append([]byte{}, header[:paletteOffset]...)
	out = append(out, offsets...)
	out = append(out, fh...)
	out = append(out, make([]byte, headerSize-len(out))...)

	dec, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f := dec.Frames[0]
	if f.Width != 0 || f.Height != 0 || f.Index != nil {
		t.Fatalf("expected empty frame, got %+v", f)
	}
}

func TestAnchorDerivation(t *testing.T) {
	data := buildMPC(t, 64, 32, 1, [][]byte{{0x90}})
	dec, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Anchor.X != 32 {
		t.Errorf("anchor.X = %d, want 32", dec.Anchor.X)
	}
	// GlobalHeight(32) >= 16: bottom = 32 - 16 - rawBottom(2) = 14
	if dec.Anchor.Y != 14 {
		t.Errorf("anchor.Y = %d, want 14", dec.Anchor.Y)
	}
}

func TestAnchorDerivationSmallHeight(t *testing.T) {
	data := buildMPC(t, 64, 10, 1, [][]byte{{0x90}})
	dec, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	// GlobalHeight(10) < 16: bottom = 16 - 10 - rawBottom(2) = 4
	if dec.Anchor.Y != 4 {
		t.Errorf("anchor.Y = %d, want 4", dec.Anchor.Y)
	}
}

func TestZeroByteBreakStopsDecoding(t *testing.T) {
	// Opaque run of 2, then 0x00, then more opaque bytes that must be
	// ignored under ZeroByteBreak.
	rle := []byte{2, 1, 1, 0x00, 3, 9, 9, 9}
	data := buildMPC(t, 32, 32, 1, [][]byte{rle})

	dec, err := DecodeWithZeroByteSemantics(data, ZeroByteBreak)
	if err != nil {
		t.Fatal(err)
	}
	f := dec.Frames[0]
	if !f.Opaque[0] || !f.Opaque[1] {
		t.Fatal("first two pixels should be opaque")
	}
	for i := 2; i < len(f.Opaque); i++ {
		if f.Opaque[i] {
			t.Fatalf("pixel %d should not be opaque under ZeroByteBreak", i)
		}
	}
}

func TestZeroByteNoopContinuesDecoding(t *testing.T) {
	rle := []byte{2, 1, 1, 0x00, 3, 9, 9, 9}
	data := buildMPC(t, 32, 32, 1, [][]byte{rle})

	dec, err := DecodeWithZeroByteSemantics(data, ZeroByteNoop)
	if err != nil {
		t.Fatal(err)
	}
	f := dec.Frames[0]
	for i := 0; i < 5; i++ {
		if !f.Opaque[i] {
			t.Fatalf("pixel %d should be opaque under ZeroByteNoop", i)
		}
	}
}

func TestInvalidSignature(t *testing.T) {
	if _, err := Decode(make([]byte, headerSize)); err != ErrInvalidSignature {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}
