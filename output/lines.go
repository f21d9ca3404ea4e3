package output

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count characters.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// LineIndex maps byte offsets of a source to positions.
type LineIndex struct {
	src    string
	starts []int
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Position clamps offset to the source length.
func (li *LineIndex) Position(offset uint32) Position {
	off := min(int(offset), len(li.src))
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	col := utf8.RuneCountInString(li.src[li.starts[line]:off]) + 1
	return Position{Line: line + 1, Column: col}
}

// Line returns the text of the 1-based line n without its terminator.
func (li *LineIndex) Line(n int) string {
	if n < 1 || n > len(li.starts) {
		return ""
	}
	start := li.starts[n-1]
	end := len(li.src)
	if n < len(li.starts) {
		end = li.starts[n] - 1
	}
	return strings.TrimSuffix(li.src[start:end], "\r")
}

// LineStart returns the byte offset at which the 1-based line n begins.
func (li *LineIndex) LineStart(n int) int {
	if n < 1 || n > len(li.starts) {
		return len(li.src)
	}
	return li.starts[n-1]
}
