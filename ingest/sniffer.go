package ingest

// isSpace matches the C locale isspace set.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// nextToken returns the first whitespace-delimited token of line at or after
// pos and the position just past it. The token is nil at end of line.
func nextToken(line []byte, pos int) ([]byte, int) {
	for pos < len(line) && isSpace(line[pos]) {
		pos++
	}
	start := pos
	for pos < len(line) && !isSpace(line[pos]) {
		pos++
	}
	if start == pos {
		return nil, pos
	}
	return line[start:pos], pos
}

// Dimensions counts the whitespace-delimited tokens of line. An empty or
// all-whitespace line has zero dimensions.
func Dimensions(line []byte) int {
	count := 0
	for pos := 0; ; count++ {
		var tok []byte
		if tok, pos = nextToken(line, pos); tok == nil {
			return count
		}
	}
}
