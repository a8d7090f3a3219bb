package ingest

import (
	"errors"
	"fmt"
)

// SelfTest checks the splitter, sniffer and parser against known inputs.
// It backs the unittest command, which runs without touching the filesystem.
func SelfTest() error {
	buf := []byte("1 2 3\r\n\r\n\n-4.5 5 6e1\n\n7 8 9")
	lines := Split(buf)
	if len(lines) != 3 || CountLines(buf) != 3 {
		return fmt.Errorf("ingest: split found %d lines, counted %d, want 3", len(lines), CountLines(buf))
	}
	if got := string(lines[1].Bytes(buf)); got != "-4.5 5 6e1" {
		return fmt.Errorf("ingest: second line %q", got)
	}
	dims := Dimensions(lines[0].Bytes(buf))
	if dims != 3 {
		return fmt.Errorf("ingest: sniffed %d dimensions, want 3", dims)
	}
	want := [][]float32{{1, 2, 3}, {-4.5, 5, 60}, {7, 8, 9}}
	vectors, err := ParseAll(buf, lines, func() ([]float32, []float32) {
		v := make([]float32, dims)
		return v, v
	})
	if err != nil {
		return err
	}
	for i, v := range vectors {
		for j := range v {
			if v[j] != want[i][j] {
				return fmt.Errorf("ingest: vector %d = %v, want %v", i, v, want[i])
			}
		}
	}
	if err := Parse([]byte("1 2 3 4"), make([]float32, 3)); !errors.Is(err, ErrMalformedLine) {
		return fmt.Errorf("ingest: over-long line not rejected: %v", err)
	}
	if err := Parse([]byte("1 2"), make([]float32, 3)); !errors.Is(err, ErrMalformedLine) {
		return fmt.Errorf("ingest: short line not rejected: %v", err)
	}
	return nil
}
