package ingest

import (
	"strconv"
)

// Parse fills dst with the values of line, left to right. The line must hold
// exactly len(dst) numeric tokens; otherwise a *MalformedLineError is returned
// and dst must be treated as garbage. Nothing is written past len(dst).
func Parse(line []byte, dst []float32) error {
	n := 0
	for pos := 0; ; n++ {
		var tok []byte
		if tok, pos = nextToken(line, pos); tok == nil {
			break
		}
		if n >= len(dst) {
			return &MalformedLineError{Want: len(dst), Got: n + 1 + Dimensions(line[pos:])}
		}
		value, err := strconv.ParseFloat(string(tok), 32)
		if err != nil {
			return &MalformedLineError{Want: len(dst), Got: -1, Token: string(tok)}
		}
		dst[n] = float32(value)
	}
	if n != len(dst) {
		return &MalformedLineError{Want: len(dst), Got: n}
	}
	return nil
}

// SlotFunc hands out a writable vector of the run's dimensionality and the
// value that owns it (typically an index object).
type SlotFunc[T any] func() (T, []float32)

// ParseAll parses every line of buf in order into slots obtained from next
// and returns the owners in file order. The first malformed line aborts the
// run; its error carries the physical line number and the vector ordinal.
func ParseAll[T any](buf []byte, lines []Line, next SlotFunc[T]) ([]T, error) {
	out := make([]T, 0, len(lines))
	for i, line := range lines {
		owner, dst := next()
		if err := Parse(line.Bytes(buf), dst); err != nil {
			if malformed, ok := err.(*MalformedLineError); ok {
				malformed.Vector = i + 1
				malformed.Line = LineNumber(buf, line.Offset)
			}
			return nil, err
		}
		out = append(out, owner)
	}
	return out, nil
}
