// Package convert composes the per-format codecs into the repo's two
// sprite conversion pipelines — ASF (decode, crop to bounding box,
// quantize, re-encode) and MPC (decode, find a spare transparent index,
// re-encode) — plus the MAP to MMF tile-map translation. Each function
// is a pure transform on byte buffers; file I/O and concurrency belong
// to internal/driver.
package convert

import (
	"fmt"

	"github.com/miu2d/spritecodec/internal/asf"
	"github.com/miu2d/spritecodec/internal/bbox"
	"github.com/miu2d/spritecodec/internal/msf"
	"github.com/miu2d/spritecodec/internal/palette"
	"github.com/miu2d/spritecodec/internal/quant"
)

// ASFToMSF converts an ASF sprite to an MSF1 container: every canvas-sized
// frame is cropped to its tight bounding box (BBOX), quantized against the
// source palette into an Indexed8Alpha8 plane (QUANT), and re-encoded with
// the bounding box's top-left corner recorded as the frame's offset in
// the frame table.
func ASFToMSF(data []byte) ([]byte, error) {
	dec, err := asf.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("convert: decode ASF: %w", err)
	}

	frames := make([]msf.EncodeFrame, len(dec.Frames))
	for i, canvas := range dec.Frames {
		box := bbox.Compute(canvas, dec.Header.Width, dec.Header.Height)
		if box.Empty() {
			continue // zero-value EncodeFrame: no opaque pixels, frame is empty
		}
		cropped := bbox.Extract(canvas, dec.Header.Width, dec.Header.Height, box)
		plane := quantizeIndexedAlpha(cropped, dec.Palette)
		frames[i] = msf.EncodeFrame{
			OffsetX: box.MinX, OffsetY: box.MinY,
			Width: box.Width, Height: box.Height,
			Data: plane,
		}
	}

	blob, err := msf.Encode(msf.EncodeInput{
		Magic:        msf.MagicASF,
		Version:      1,
		CanvasWidth:  dec.Header.Width,
		CanvasHeight: dec.Header.Height,
		Directions:   dec.Header.Directions,
		FPS:          dec.Header.Interval,
		AnchorX:      int16(dec.Header.Left),
		AnchorY:      int16(dec.Header.Bottom),
		PixelFormat:  msf.Indexed8Alpha8,
		Palette:      dec.Palette,
		Frames:       frames,
	})
	if err != nil {
		return nil, fmt.Errorf("convert: encode MSF: %w", err)
	}
	return blob, nil
}

// quantizeIndexedAlpha quantizes a cropped RGBA buffer into an
// Indexed8Alpha8 plane: one (index, alpha) byte pair per pixel.
func quantizeIndexedAlpha(rgba []byte, pal palette.Palette) []byte {
	pixelCount := len(rgba) / 4
	out := make([]byte, pixelCount*2)
	for i := 0; i < pixelCount; i++ {
		off := i * 4
		idx, alpha := quant.QuantizePixel(pal, rgba[off], rgba[off+1], rgba[off+2], rgba[off+3])
		out[i*2] = idx
		out[i*2+1] = alpha
	}
	return out
}
