package ingest

// Line is a zero-copy view of one non-blank input line: Length bytes of the
// loaded buffer starting at Offset. It is only valid while that buffer is.
type Line struct {
	Offset int
	Length int
}

// Bytes returns the line contents as a subslice of buf.
func (l Line) Bytes(buf []byte) []byte {
	return buf[l.Offset : l.Offset+l.Length : l.Offset+l.Length]
}

func isTerminator(b byte) bool { return b == '\n' || b == '\r' }

// extent returns the scannable length of buf: a NUL byte marks end of input.
func extent(buf []byte) int {
	for i, b := range buf {
		if b == 0 {
			return i
		}
	}
	return len(buf)
}

// CountLines is Split's counting pass. Each maximal run of non-terminator
// bytes is one line; runs of any mix of '\r' and '\n' between them are a
// single separator, so blank lines never add to the count.
func CountLines(buf []byte) int {
	end := extent(buf)
	count := 0
	inLine := false
	for pos := 0; pos < end; pos++ {
		if isTerminator(buf[pos]) {
			inLine = false
			continue
		}
		if !inLine {
			count++
			inLine = true
		}
	}
	return count
}

// LineNumber returns the 1-based physical line holding buf[offset]. A CRLF
// pair ends one line; a lone CR or LF ends one line each.
func LineNumber(buf []byte, offset int) int {
	n := 1
	for i := 0; i < offset && i < len(buf); i++ {
		switch buf[i] {
		case '\n':
			n++
		case '\r':
			if i+1 >= len(buf) || buf[i+1] != '\n' {
				n++
			}
		}
	}
	return n
}

// Split partitions buf into the ordered non-blank lines it contains. Terminator
// runs are collapsed into one separator and a trailing line without a
// terminator is kept. The result is allocated once, sized by the counting pass.
func Split(buf []byte) []Line {
	end := extent(buf)
	lines := make([]Line, 0, CountLines(buf))

	start := -1
	if end > 0 && !isTerminator(buf[0]) {
		start = 0
	}
	for pos := 0; pos < end; {
		if !isTerminator(buf[pos]) {
			pos++
			continue
		}
		if start >= 0 {
			lines = append(lines, Line{Offset: start, Length: pos - start})
		}
		for pos < end && isTerminator(buf[pos]) {
			pos++
		}
		start = -1
		if pos < end {
			start = pos
		}
	}
	if start >= 0 && start < end {
		lines = append(lines, Line{Offset: start, Length: end - start})
	}
	return lines
}
