// Package textutil provides small text helpers for provider metadata.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayTitle normalizes a provider title for display. Listings feeds often
// deliver all-caps titles; those are re-cased, while mixed-case titles pass
// through untouched apart from whitespace cleanup.
func DisplayTitle(title string) string {
	cleaned := strings.Join(strings.Fields(title), " ")
	if cleaned == "" {
		return ""
	}
	if !isShouting(cleaned) {
		return cleaned
	}
	return titleCaser.String(strings.ToLower(cleaned))
}

func isShouting(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsLower(r) {
			return false
		}
	}
	return letters > 1
}
