package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lineStrings(buf []byte, lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, string(l.Bytes(buf)))
	}
	return out
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "blank lines collapse", input: "a b\n\n\nc d\n", want: []string{"a b", "c d"}},
		{name: "crlf", input: "1 2\r\n3 4\r\n", want: []string{"1 2", "3 4"}},
		{name: "mixed terminators", input: "x\r\r\n\n\ry\n\r", want: []string{"x", "y"}},
		{name: "leading terminators", input: "\n\r\nfirst\nsecond", want: []string{"first", "second"}},
		{name: "no trailing terminator", input: "only", want: []string{"only"}},
		{name: "only terminators", input: "\n\r\n\n", want: []string{}},
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace line kept", input: "   \n1\n", want: []string{"   ", "1"}},
		{name: "nul ends input", input: "1 2\n3 4\x005 6\n", want: []string{"1 2", "3 4"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := []byte(tc.input)
			lines := Split(buf)
			assert.Equal(t, tc.want, lineStrings(buf, lines))
			assert.Equal(t, len(lines), CountLines(buf))
			assert.Equal(t, len(lines), cap(lines))
			assert.Equal(t, tc.input, string(buf), "split must not mutate the buffer")
		})
	}
}

func TestSplit_Idempotent(t *testing.T) {
	buf := []byte("1 2 3\n\n4 5 6\r\n7 8 9\n")
	for _, line := range Split(buf) {
		text := line.Bytes(buf)
		again := Split(text)
		if assert.Len(t, again, 1) {
			assert.Equal(t, string(text), string(again[0].Bytes(text)))
		}
	}
}

func TestLine_BytesIsClipped(t *testing.T) {
	buf := []byte("ab\ncd")
	lines := Split(buf)
	first := lines[0].Bytes(buf)
	_ = append(first, 'X')
	assert.Equal(t, "ab\ncd", string(buf))
}

func TestLineNumber(t *testing.T) {
	buf := []byte("a\n\nb\r\n\r\nc\rd\n")
	lines := Split(buf)
	want := []int{1, 3, 5, 6}
	got := make([]int, len(lines))
	for i, line := range lines {
		got[i] = LineNumber(buf, line.Offset)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 1, LineNumber(buf, 0))
}
