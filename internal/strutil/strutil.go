package strutil

import (
	"iter"
	"strings"
)

// ByPiece yields the pieces of s between occurrences of sep, with their
// zero-based position.
func ByPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// OneLine collapses runs of whitespace, newlines included, into single
// spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
