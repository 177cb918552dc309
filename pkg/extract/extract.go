// Package extract derives profile fields from a raw chat message using
// ordered indicator-phrase matching. Deliberately rule-based: behavior stays
// auditable, and the indicator tables are the whole contract.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field names recognized by the profile layer.
const (
	FieldName         = "name"
	FieldFeelingToday = "feelingToday"
	FieldSleepQuality = "sleepQuality"
	FieldStressLevel  = "stressLevel"
)

// maxCapturedWords bounds the snippet recorded for a matched category.
const maxCapturedWords = 10

type category struct {
	field      string
	indicators []string
	isName     bool
}

// Category order and indicator order are load-bearing: the first indicator
// found wins for its category, and classification ties resolve by this
// listing. Do not reorder.
var categories = []category{
	{field: FieldFeelingToday, indicators: []string{"feeling", "feel", "felt", "mood", "emotion"}},
	{field: FieldSleepQuality, indicators: []string{"slept", "sleep", "insomnia", "tired", "rest", "rested"}},
	{field: FieldStressLevel, indicators: []string{"stress", "stressed", "anxiety", "anxious", "overwhelmed"}},
	{field: FieldName, indicators: []string{"my name is", "i am", "i'm", "call me"}, isName: true},
}

// Extract scans message for each category's indicators in order and returns
// the captured field values, 0-4 entries. A missing key means "no update",
// never "clear". Extract has no side effects and never fails.
func Extract(message string) map[string]string {
	info := map[string]string{}
	lower := strings.ToLower(message)

	for _, cat := range categories {
		for _, indicator := range cat.indicators {
			if !strings.Contains(lower, indicator) {
				continue
			}
			// An indicator with nothing after it does not end the scan:
			// a later indicator may still capture for this category.
			words := wordsAfter(lower, indicator)
			if len(words) == 0 {
				continue
			}
			if cat.isName {
				// Reject stray single-letter tokens picked up from pronouns.
				name := strings.Trim(words[0], ",.!?;:\"'")
				if len(name) <= 1 {
					continue
				}
				info[cat.field] = capitalize(name)
				break
			}
			info[cat.field] = strings.Join(words, " ")
			break
		}
	}

	return info
}

func wordsAfter(lower, indicator string) []string {
	parts := strings.SplitN(lower, indicator, 2)
	if len(parts) < 2 {
		return nil
	}
	words := strings.Fields(strings.TrimSpace(parts[1]))
	if len(words) > maxCapturedWords {
		words = words[:maxCapturedWords]
	}
	return words
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError && size <= 1 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
