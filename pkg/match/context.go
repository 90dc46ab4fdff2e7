package match

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultWindowWords is the number of whole words kept on each side of a match.
const DefaultWindowWords = 100

type wordSpan struct {
	start int
	end   int
}

// splitWords tokenizes text on whitespace, keeping the byte range of each word.
func splitWords(text string) []wordSpan {
	var words []wordSpan
	inWord := false
	start := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				words = append(words, wordSpan{start: start, end: i})
				inWord = false
			}
			continue
		}
		if !inWord {
			start = i
			inWord = true
		}
	}
	if inWord {
		words = append(words, wordSpan{start: start, end: len(text)})
	}
	return words
}

// wordIndexAt returns the index of the word containing the byte offset.
func wordIndexAt(words []wordSpan, offset int) (int, bool) {
	idx := sort.Search(len(words), func(i int) bool { return words[i].end > offset })
	if idx < len(words) && words[idx].start <= offset {
		return idx, true
	}
	return 0, false
}

// Window returns up to windowWords whole words before the match's first word
// through windowWords words after its last word, joined by single spaces.
// Offsets that fall outside any word (e.g. at the very end of text) default
// to the first word for the start and the last word for the end.
func Window(text string, matchStart, matchEnd, windowWords int) string {
	words := splitWords(text)
	if len(words) == 0 {
		return ""
	}
	if windowWords < 0 {
		windowWords = 0
	}

	startIdx, ok := wordIndexAt(words, matchStart)
	if !ok {
		startIdx = 0
	}
	endIdx, ok := wordIndexAt(words, matchEnd-1)
	if !ok {
		endIdx = len(words) - 1
	}

	lo := startIdx - windowWords
	if lo < 0 {
		lo = 0
	}
	hi := endIdx + windowWords + 1
	if hi > len(words) {
		hi = len(words)
	}

	parts := make([]string, 0, hi-lo)
	for _, w := range words[lo:hi] {
		parts = append(parts, text[w.start:w.end])
	}
	return strings.Join(parts, " ")
}
