package msf

import "github.com/miu2d/spritecodec/internal/palette"

// DecodeCanvas renders frame frameIdx in composited-canvas mode: a
// CanvasWidth*CanvasHeight*4 RGBA buffer with the frame's pixels placed
// at their recorded (OffsetX, OffsetY). Empty frames (and out-of-range
// indices) produce a fully transparent canvas.
func (s *Sprite) DecodeCanvas(frameIdx int) []byte {
	canvas := make([]byte, s.CanvasWidth*s.CanvasHeight*4)
	if frameIdx < 0 || frameIdx >= len(s.FrameTable) {
		return canvas
	}
	e := s.FrameTable[frameIdx]
	if e.Width == 0 || e.Height == 0 {
		return canvas
	}
	plane := s.framePlane(e)
	decodePixels(s.PixelFormat, s.Palette, plane, int(e.Width), int(e.Height),
		func(x, y int, r, g, b, a byte) {
			cx, cy := int(e.OffsetX)+x, int(e.OffsetY)+y
			if cx < 0 || cy < 0 || cx >= s.CanvasWidth || cy >= s.CanvasHeight {
				return
			}
			off := (cy*s.CanvasWidth + cx) * 4
			canvas[off] = r
			canvas[off+1] = g
			canvas[off+2] = b
			canvas[off+3] = a
		})
	return canvas
}

// DecodeIndividual renders frame frameIdx in individual-frame mode: its
// own (width, height) and a tightly packed RGBA buffer of that size.
// Empty frames are emitted as a 1x1 fully transparent tile rather than a
// zero-length buffer, so downstream per-frame indexing never has to
// special-case a zero byte count.
func (s *Sprite) DecodeIndividual(frameIdx int) (width, height int, rgba []byte) {
	if frameIdx < 0 || frameIdx >= len(s.FrameTable) {
		return 1, 1, make([]byte, 4)
	}
	e := s.FrameTable[frameIdx]
	if e.Width == 0 || e.Height == 0 {
		return 1, 1, make([]byte, 4)
	}
	width, height = int(e.Width), int(e.Height)
	rgba = make([]byte, width*height*4)
	plane := s.framePlane(e)
	decodePixels(s.PixelFormat, s.Palette, plane, width, height,
		func(x, y int, r, g, b, a byte) {
			off := (y*width + x) * 4
			rgba[off] = r
			rgba[off+1] = g
			rgba[off+2] = b
			rgba[off+3] = a
		})
	return width, height, rgba
}

func (s *Sprite) framePlane(e FrameTableEntry) []byte {
	start, end := int(e.DataOffset), int(e.DataOffset)+int(e.DataLength)
	if start < 0 || end > len(s.Blob) || end < start {
		return nil
	}
	return s.Blob[start:end]
}

// decodePixels walks a w*h pixel plane in the given format and invokes
// write for every non-transparent pixel.
func decodePixels(pf PixelFormat, pal palette.Palette, data []byte, w, h int, write func(x, y int, r, g, b, a byte)) {
	switch pf {
	case RGBA8:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := (y*w + x) * 4
				if off+4 > len(data) {
					return
				}
				a := data[off+3]
				if a == 0 {
					continue
				}
				write(x, y, data[off], data[off+1], data[off+2], a)
			}
		}
	case Indexed8:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := y*w + x
				if off >= len(data) {
					return
				}
				c := pal.At(int(data[off]))
				if c.A == 0 {
					continue
				}
				write(x, y, c.R, c.G, c.B, 255)
			}
		}
	case Indexed8Alpha8:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := (y*w + x) * 2
				if off+2 > len(data) {
					return
				}
				alpha := data[off+1]
				if alpha == 0 {
					continue
				}
				c := pal.At(int(data[off]))
				write(x, y, c.R, c.G, c.B, alpha)
			}
		}
	}
}
