package convert

import (
	"fmt"
	"strings"

	"github.com/miu2d/spritecodec/internal/mmf"
)

// MAPToMMF translates a MAP tile map to MMF: it parses the map, binds
// trapsINI's trap table by stem match against mapStem, remaps the sparse
// sprite-slot table, and encodes the result.
func MAPToMMF(data []byte, mapStem string, trapsINI []byte) ([]byte, error) {
	m, err := mmf.DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("convert: decode MAP: %w", err)
	}

	var traps []mmf.Trap
	if len(trapsINI) > 0 {
		traps, err = mmf.ParseTrapsINI(trapsINI, strings.TrimSuffix(mapStem, ".map"))
		if err != nil {
			return nil, fmt.Errorf("convert: parse Traps.ini: %w", err)
		}
	}

	in := mmf.Translate(m, traps)
	out, err := mmf.Encode(in)
	if err != nil {
		return nil, fmt.Errorf("convert: encode MMF: %w", err)
	}
	return out, nil
}
