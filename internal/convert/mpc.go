package convert

import (
	"fmt"

	"github.com/miu2d/spritecodec/internal/mpc"
	"github.com/miu2d/spritecodec/internal/msf"
	"github.com/miu2d/spritecodec/internal/palette"
	"github.com/miu2d/spritecodec/internal/tpix"
)

// MPCToMSF converts an MPC sprite to an MSF2 container: TPIX finds a
// palette slot not used by any opaque pixel, that slot is mutated to
// (0,0,0,0), and every frame's RLE-decoded index/opaque pair is
// re-expressed as a single Indexed8 byte per pixel (the transparent index
// filled in wherever the source marked the pixel skipped).
func MPCToMSF(data []byte) ([]byte, error) {
	dec, err := mpc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("convert: decode MPC: %w", err)
	}

	transparent := tpix.Find(dec.Frames)
	pal := mutateTransparentEntry(dec.Palette, transparent)

	frames := make([]msf.EncodeFrame, len(dec.Frames))
	for i, f := range dec.Frames {
		if f.Width == 0 || f.Height == 0 {
			continue
		}
		plane := make([]byte, len(f.Index))
		for j, opaque := range f.Opaque {
			if opaque {
				plane[j] = f.Index[j]
			} else {
				plane[j] = byte(transparent)
			}
		}
		frames[i] = msf.EncodeFrame{Width: f.Width, Height: f.Height, Data: plane}
	}

	blob, err := msf.Encode(msf.EncodeInput{
		Magic:        msf.MagicMPC,
		Version:      2,
		CanvasWidth:  dec.Header.GlobalWidth,
		CanvasHeight: dec.Header.GlobalHeight,
		Directions:   dec.Header.Direction,
		FPS:          dec.Header.Interval,
		AnchorX:      int16(dec.Anchor.X),
		AnchorY:      int16(dec.Anchor.Y),
		PixelFormat:  msf.Indexed8,
		Palette:      pal,
		Frames:       frames,
	})
	if err != nil {
		return nil, fmt.Errorf("convert: encode MSF: %w", err)
	}
	return blob, nil
}

// mutateTransparentEntry overwrites (or appends) the palette entry at
// index t to the fully-transparent sentinel (0,0,0,0).
func mutateTransparentEntry(pal palette.Palette, t int) palette.Palette {
	out := pal.Clone()
	out = out.EnsureLen(t + 1)
	out.SetTransparent(t)
	return out
}
