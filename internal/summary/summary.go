// Package summary produces a short extractive summary of a document's text
package summary

import (
	"strings"
	"unicode/utf8"
)

const (
	minSentenceLen = 20
	maxSentences   = 5
)

// Summarize keeps the first five sentences longer than twenty characters
// (runes, not bytes), joined with ". " and closed with a period. Sentences end at any run of
// '.', '!' or '?'. Text with no qualifying sentence summarizes to "".
func Summarize(text string) string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	kept := make([]string, 0, maxSentences)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) <= minSentenceLen {
			continue
		}
		kept = append(kept, p)
		if len(kept) == maxSentences {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ". ") + "."
}
