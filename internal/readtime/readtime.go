// Package readtime derives a minutes-to-read estimate from rendered body
// content. It is independent of validation and runs at render time.
package readtime

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the fixed reading speed the estimate divides by.
const WordsPerMinute = 200

// Estimate counts maximal runs of letters and digits as words and returns
// ceil(words / WordsPerMinute), never less than 1. Empty input is 1
// minute, not 0. Scripts without alphanumeric word boundaries undercount;
// that is a known limitation, not something to paper over here.
func Estimate(text string) int {
	words := countWords(text)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// EstimateHTML strips markup before counting: tag delimiters become
// spaces so adjacent elements never glue two words together.
func EstimateHTML(markup string) int {
	return Estimate(stripTags(markup))
}

func countWords(s string) int {
	words := 0
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return words
}

func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case inTag:
			// drop tag contents
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
