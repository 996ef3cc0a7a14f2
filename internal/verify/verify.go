// Package verify round-trip-checks a converted sprite against its source:
// decode both to RGBA and compare every pixel, reporting the first
// divergence and an aggregate diff count. It never aborts on a mismatch —
// the caller decides what to do with a non-zero Result.
package verify

import (
	"fmt"

	"github.com/miu2d/spritecodec/internal/asf"
	"github.com/miu2d/spritecodec/internal/mpc"
	"github.com/miu2d/spritecodec/internal/msf"
)

// Divergence locates the first frame/pixel where source and destination
// RGBA buffers disagree.
type Divergence struct {
	FrameIndex int
	X, Y       int
}

// Result aggregates a round-trip comparison across every frame of a file.
type Result struct {
	FrameCount      int
	PixelsCompared  int64
	PixelsDiffering int64
	FirstDivergence *Divergence
}

// OK reports whether the round trip produced zero differing pixels.
func (r *Result) OK() bool {
	return r.PixelsDiffering == 0
}

// ASF compares an ASF source against its MSF1 destination in
// composited-canvas mode.
func ASF(srcData, msfData []byte) (*Result, error) {
	src, err := asf.Decode(srcData)
	if err != nil {
		return nil, fmt.Errorf("verify: decode source ASF: %w", err)
	}
	dst, err := msf.Decode(msfData)
	if err != nil {
		return nil, fmt.Errorf("verify: decode destination MSF: %w", err)
	}
	if src.Header.Width != dst.CanvasWidth || src.Header.Height != dst.CanvasHeight || len(src.Frames) != dst.FrameCount {
		return nil, fmt.Errorf("verify: dimension mismatch: src=(%d,%d,%d) dst=(%d,%d,%d)",
			src.Header.Width, src.Header.Height, len(src.Frames),
			dst.CanvasWidth, dst.CanvasHeight, dst.FrameCount)
	}

	r := &Result{FrameCount: len(src.Frames)}
	for i, want := range src.Frames {
		got := dst.DecodeCanvas(i)
		compareBuffers(r, i, src.Header.Width, want, got)
	}
	return r, nil
}

// MPC compares an MPC source against its MSF2 destination in
// individual-frame mode. Frames the source decoded as empty (width or
// height 0) are skipped: the destination represents them as a 1x1
// placeholder tile, a deliberate shape mismatch rather than a
// divergence.
func MPC(srcData, msfData []byte) (*Result, error) {
	src, err := mpc.Decode(srcData)
	if err != nil {
		return nil, fmt.Errorf("verify: decode source MPC: %w", err)
	}
	dst, err := msf.Decode(msfData)
	if err != nil {
		return nil, fmt.Errorf("verify: decode destination MSF: %w", err)
	}
	if len(src.Frames) != dst.FrameCount {
		return nil, fmt.Errorf("verify: frame count mismatch: src=%d dst=%d", len(src.Frames), dst.FrameCount)
	}

	r := &Result{FrameCount: len(src.Frames)}
	for i, f := range src.Frames {
		if f.Width == 0 || f.Height == 0 {
			continue
		}
		want := f.RGBA(src.Palette)
		gotW, gotH, got := dst.DecodeIndividual(i)
		if gotW != f.Width || gotH != f.Height {
			if r.FirstDivergence == nil {
				r.FirstDivergence = &Divergence{FrameIndex: i}
			}
			r.PixelsDiffering += int64(f.Width * f.Height)
			r.PixelsCompared += int64(f.Width * f.Height)
			continue
		}
		compareBuffers(r, i, f.Width, want, got)
	}
	return r, nil
}

// compareBuffers compares two equally-sized, width-stride RGBA buffers
// pixel by pixel, updating r's running totals and first divergence.
func compareBuffers(r *Result, frameIdx, width int, want, got []byte) {
	n := len(want)
	if len(got) < n {
		n = len(got)
	}
	for off := 0; off+4 <= n; off += 4 {
		r.PixelsCompared++
		if want[off] == got[off] && want[off+1] == got[off+1] && want[off+2] == got[off+2] && want[off+3] == got[off+3] {
			continue
		}
		r.PixelsDiffering++
		if r.FirstDivergence == nil {
			pixel := off / 4
			r.FirstDivergence = &Divergence{FrameIndex: frameIdx, X: pixel % width, Y: pixel / width}
		}
	}
}
