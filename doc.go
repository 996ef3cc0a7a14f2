// Package spritecodec provides pure Go codecs for the legacy ASF/MPC
// sprite formats and MAP tile-map format used by a 2D isometric game
// engine, plus their MSF/MMF successors and a round-trip verifier.
//
// The package supports:
//   - ASF and MPC decoding (RLE-compressed, palette-indexed sprite frames)
//   - MSF encoding and decoding, in both canvas-composited and
//     individually-cropped frame modes
//   - MAP decoding and translation into MMF tile maps
//   - Round-trip verification between a legacy ASF or MPC source and its
//     MSF replacement (MMF output is not verified)
//
// Basic usage for converting a legacy sprite:
//
//	msfData, err := spritecodec.ASFToMSF(asfData)
//
// Basic usage for verifying a conversion:
//
//	result, err := spritecodec.VerifyASF(asfData, msfData)
//	if err == nil && !result.OK() {
//	    // report result.FirstDivergence
//	}
package spritecodec
