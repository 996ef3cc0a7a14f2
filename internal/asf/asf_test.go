package asf

import (
	"testing"

	"github.com/miu2d/spritecodec/internal/bin"
)

// buildASF assembles a minimal, well-formed ASF file with one palette
// entry and one frame.
func buildASF(t *testing.T, width, height, frameCount, directions int, rle []byte) []byte {
	t.Helper()
	header := make([]byte, headerSize)
	copy(header, signature)
	bin.WriteU32LE(header, offWidth, uint32(width))
	bin.WriteU32LE(header, offHeight, uint32(height))
	bin.WriteU32LE(header, offFrameCount, uint32(frameCount))
	bin.WriteU32LE(header, offDirections, uint32(directions))
	bin.WriteU32LE(header, offColorCount, 1)
	bin.WriteU32LE(header, offInterval, 100)

	palette := []byte{0, 0, 255, 255} // BGRA: blue channel irrelevant here; B=0,G=0,R=255,A=255 -> red
	frameIndex := make([]byte, 8*frameCount)
	bin.WriteU32LE(frameIndex, 0, uint32(len(header)+len(palette)+len(frameIndex)))
	bin.WriteU32LE(frameIndex, 4, uint32(len(rle)))

	out := append([]byte{}, header...)
	out = append(out, palette...)
	out = append(out, frameIndex...)
	out = append(out, rle...)
	return out
}

func TestDecodeMinimalRedFrame(t *testing.T) {
	// 4x4 canvas, 16 opaque red pixels (count=16, alpha=255, then 16
	// palette-index-0 bytes).
	rle := append([]byte{16, 255}, make([]byte, 16)...)
	data := buildASF(t, 4, 4, 1, 1, rle)

	dec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Header.Width != 4 || dec.Header.Height != 4 {
		t.Fatalf("canvas = %dx%d, want 4x4", dec.Header.Width, dec.Header.Height)
	}
	if len(dec.Frames) != 1 {
		t.Fatalf("frame count = %d, want 1", len(dec.Frames))
	}
	frame := dec.Frames[0]
	if len(frame) != 4*4*4 {
		t.Fatalf("frame len = %d, want %d", len(frame), 64)
	}
	for i := 0; i < 16; i++ {
		off := i * 4
		if frame[off] != 255 || frame[off+1] != 0 || frame[off+2] != 0 || frame[off+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque red", i, frame[off:off+4])
		}
	}
}

func TestDecodeTransparentRun(t *testing.T) {
	// count=16, alpha=0: entire 4x4 canvas left transparent.
	rle := []byte{16, 0}
	data := buildASF(t, 4, 4, 1, 1, rle)

	dec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, b := range dec.Frames[0] {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 (fully transparent)", i, b)
		}
	}
}

func TestDecodeInvalidSignature(t *testing.T) {
	data := make([]byte, headerSize)
	copy(data, "NOPE")
	if _, err := Decode(data); err != ErrInvalidSignature {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestDecodeTooShort(t *testing.T) {
	if _, err := Decode([]byte("ASF")); err != ErrInvalidSignature {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestDecodeTruncatedRunLeavesRestTransparent(t *testing.T) {
	// Frame claims a 16-pixel opaque run but the stream is cut short
	// after the header byte; decodeFrame must stop early, not panic,
	// and the frame stays (partially) transparent.
	rle := []byte{16, 255, 1, 2} // only 2 of 16 index bytes present
	data := buildASF(t, 4, 4, 1, 1, rle)

	dec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	frame := dec.Frames[0]
	// First two pixels were written (alpha=255 opaque); the rest stay
	// zero since the stream ran out.
	if frame[3] != 255 || frame[7] != 255 {
		t.Fatalf("expected first two pixels opaque, got %v", frame[:8])
	}
	if frame[8] != 0 {
		t.Fatalf("expected third pixel to remain transparent, got %v", frame[8:12])
	}
}

func TestSingleColorTable(t *testing.T) {
	rle := append([]byte{16, 255}, make([]byte, 16)...)
	data := buildASF(t, 4, 4, 1, 1, rle)
	dec, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(dec.Palette) != 1 {
		t.Fatalf("palette len = %d, want 1", len(dec.Palette))
	}
}
