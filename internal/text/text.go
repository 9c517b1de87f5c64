// Package text holds the phrase-level string helpers shared by the loader,
// the composer and the authoring tools.
package text

import (
	"strings"

	"golang.org/x/text/cases"
)

// Separator is the phrase delimiter used by default style fragments.
const Separator = ", "

// NormalizeSpace turns line breaks into spaces, collapses whitespace runs to a
// single space and trims both ends.
func NormalizeSpace(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// SplitPhrases normalizes s and splits it on the literal delimiter, dropping
// empty parts. Order is preserved.
func SplitPhrases(s, delimiter string) []string {
	s = NormalizeSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, delimiter)
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

// DedupePhrases keeps the first occurrence of every phrase, comparing case
// folded. Later repeats are dropped, never merged.
func DedupePhrases(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		key := Fold(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// JoinPhrases trims the parts, drops blanks, de-duplicates and joins them with
// Separator.
func JoinPhrases(parts []string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(DedupePhrases(trimmed), Separator)
}

// JoinSentences joins parts as prose: each part loses its trailing periods and
// the result ends with exactly one.
func JoinSentences(parts []string) string {
	var sentences []string
	for _, p := range parts {
		p = strings.TrimRight(strings.TrimSpace(p), ".")
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(sentences, ". ")) + "."
}

// EqualFold reports whether a and b are equal under the same folding used by
// DedupePhrases.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Fold applies full Unicode case folding, so "Straße" and "STRASSE" match.
func Fold(s string) string {
	return cases.Fold().String(s)
}
