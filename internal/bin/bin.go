// Package bin provides bounds-checked little-endian scalar reads and writes
// over raw byte slices.
//
// Legacy sprite sources (ASF, MPC, MAP) routinely carry truncated or
// malformed trailers. Rather than returning an error from every call site,
// the read helpers degrade gracefully: a read that would run past the end
// of the slice returns the zero value. Callers that must distinguish
// "truncated" from "legitimately zero" (the container parsers, the
// verifier) check slice length explicitly before calling.
package bin

// ReadU16LE reads a little-endian uint16 at offset off in b, or 0 if the
// read would exceed len(b).
func ReadU16LE(b []byte, off int) uint16 {
	if off < 0 || off+2 > len(b) {
		return 0
	}
	return uint16(b[off]) | uint16(b[off+1])<<8
}

// ReadU32LE reads a little-endian uint32 at offset off in b, or 0 if the
// read would exceed len(b).
func ReadU32LE(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

// ReadI16LE reads a little-endian signed int16 at offset off in b, or 0 if
// the read would exceed len(b).
func ReadI16LE(b []byte, off int) int16 {
	return int16(ReadU16LE(b, off))
}

// ReadI32LE reads a little-endian signed int32 at offset off in b, or 0 if
// the read would exceed len(b).
func ReadI32LE(b []byte, off int) int32 {
	return int32(ReadU32LE(b, off))
}

// WriteU16LE writes v as little-endian into b at offset off. The caller
// must ensure b has room; unlike the Read* family this is used only by
// the encoders, which size their buffers exactly.
func WriteU16LE(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

// WriteU32LE writes v as little-endian into b at offset off.
func WriteU32LE(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

// WriteI16LE writes v as little-endian into b at offset off.
func WriteI16LE(b []byte, off int, v int16) {
	WriteU16LE(b, off, uint16(v))
}

// WriteI32LE writes v as little-endian into b at offset off.
func WriteI32LE(b []byte, off int, v int32) {
	WriteU32LE(b, off, uint32(v))
}
