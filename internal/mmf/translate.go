package mmf

import "sort"

// Translate converts a decoded MAP file plus an optional trap table into
// an MMF EncodeInput: it compacts the 255-slot sparse sprite table to a
// dense 1-based table (only populated slots survive, in ascending
// original-slot order) and remaps every tile's sprite-slot byte through
// the resulting old->new mapping. traps may be nil.
func Translate(m *DecodedMap, traps []Trap) EncodeInput {
	oldToNew := make(map[int]int)
	var sprites []SpriteRef
	for old := 0; old < spriteSlotCount; old++ {
		s := m.Sprites[old]
		if s.Name == "" {
			continue
		}
		oldToNew[old+1] = len(sprites) + 1 // +1: MAP slot bytes are 1-based
		sprites = append(sprites, SpriteRef{Name: rewriteExtension(s.Name), Looping: s.Looping})
	}

	tileCount := len(m.Tiles)
	planes := TilePlanes{
		L1Slot: make([]byte, tileCount), L1Frame: make([]byte, tileCount),
		L2Slot: make([]byte, tileCount), L2Frame: make([]byte, tileCount),
		L3Slot: make([]byte, tileCount), L3Frame: make([]byte, tileCount),
		Barrier: make([]byte, tileCount), Trap: make([]byte, tileCount),
	}
	for i, t := range m.Tiles {
		planes.L1Slot[i] = remapSlot(oldToNew, t.L1Slot)
		planes.L1Frame[i] = t.L1Frame
		planes.L2Slot[i] = remapSlot(oldToNew, t.L2Slot)
		planes.L2Frame[i] = t.L2Frame
		planes.L3Slot[i] = remapSlot(oldToNew, t.L3Slot)
		planes.L3Frame[i] = t.L3Frame
		planes.Barrier[i] = t.Barrier
		planes.Trap[i] = t.Trap
	}

	sortedTraps := append([]Trap{}, traps...)
	sort.Slice(sortedTraps, func(i, j int) bool { return sortedTraps[i].Index < sortedTraps[j].Index })

	return EncodeInput{
		Columns: m.Columns,
		Rows:    m.Rows,
		Sprites: sprites,
		Traps:   sortedTraps,
		Planes:  planes,
	}
}

// remapSlot translates a raw 1-based MAP sprite-slot byte (0 = none)
// through oldToNew. A slot referencing an unpopulated entry (shouldn't
// occur in well-formed input) is dropped to 0 rather than propagating a
// stale index.
func remapSlot(oldToNew map[int]int, raw byte) byte {
	if raw == 0 {
		return 0
	}
	if n, ok := oldToNew[int(raw)]; ok {
		return byte(n)
	}
	return 0
}

// rewriteExtension rewrites a ".mpc" suffix to ".msf", matching the
// sibling sprite files' own ASF/MPC->MSF conversion.
func rewriteExtension(name string) string {
	const oldExt = ".mpc"
	if len(name) >= len(oldExt) && equalFoldASCII(name[len(name)-len(oldExt):], oldExt) {
		return name[:len(name)-len(oldExt)] + ".msf"
	}
	return name
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
