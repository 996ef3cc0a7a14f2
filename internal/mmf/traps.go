package mmf

import (
	"bufio"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ParseTrapsINI parses an INI-style trap-definition file: section headers
// `[<map_name>]`, `<trap_index>=<script_path>` entries, and `;`/`#`
// comments. It returns the trap table for the given map stem (without
// extension), or nil if no matching section exists.
//
// This hand-rolled scanner is deliberately not backed by a general INI
// library: the grammar has no nesting, no repeated keys, no type
// coercion, and no array values — see SPEC_FULL.md §4.11 for why a
// 3rd-party INI parser was considered and dropped.
func ParseTrapsINI(data []byte, mapStem string) ([]Trap, error) {
	text, err := decodeINIBytes(data)
	if err != nil {
		return nil, err
	}

	var traps []Trap
	inSection := false
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			inSection = strings.EqualFold(name, mapStem)
			continue
		}
		if !inSection {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		traps = append(traps, Trap{Index: byte(idx), Path: strings.TrimSpace(val)})
	}
	return traps, sc.Err()
}

// decodeINIBytes accepts either UTF-8 or GBK-encoded trap files: it tries
// UTF-8 first (the common case for hand-edited modern files) and falls
// back to GBK, matching the legacy toolchain's "GBK or UTF-8" contract.
func decodeINIBytes(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
