package identity

import (
	"strings"
	"unicode"
)

// looksLikeCompany judges whether a candidate string is a plausible
// company name. A candidate is accepted when it contains a corporate
// entity keyword, has at least two capitalized words, or is a single
// capitalized word longer than three characters. A personal salutation
// keyword anywhere in the candidate vetoes the capitalization rules
// (but not the entity-keyword rule: "Dear Acme Inc" is still Acme Inc
// territory for the content patterns, not the display name).
func (r *Resolver) looksLikeCompany(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}

	if r.containsEntityKeyword(candidate) {
		return true
	}

	if r.containsSalutation(candidate) {
		return false
	}

	words := strings.Fields(candidate)
	capitalized := 0
	for _, w := range words {
		if isCapitalized(w) {
			capitalized++
		}
	}

	if capitalized >= 2 {
		return true
	}
	if len(words) == 1 && isCapitalized(words[0]) && len([]rune(words[0])) > 3 {
		return true
	}
	return false
}

func (r *Resolver) containsEntityKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range r.tables.EntityKeywords {
		if containsWord(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (r *Resolver) containsSalutation(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range r.tables.Salutations {
		if containsWord(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s on word boundaries.
// Both arguments must already be lowercased. Trailing punctuation in
// the word itself (e.g. "co.") is tolerated.
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordRune(rune(s[start-1]))
		afterOK := end == len(s) || !isWordRune(rune(s[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isCapitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

// stripNoise removes known noise suffixes (" via X", " team", ...)
// from a display name before the company-like judgment.
func (r *Resolver) stripNoise(name string) string {
	name = strings.TrimSpace(name)

	// " via X" carries the relaying service, not the sender: keep only
	// what precedes it.
	lower := strings.ToLower(name)
	if i := strings.Index(lower, " via "); i >= 0 {
		name = name[:i]
		lower = lower[:i]
	}

	for {
		// Longest matching suffix wins so " hiring team" is taken as a
		// whole rather than leaving " hiring" behind.
		best := 0
		for _, suffix := range r.tables.NoiseSuffixes {
			if strings.HasSuffix(lower, suffix) && len(suffix) > best {
				best = len(suffix)
			}
		}
		if best == 0 {
			return strings.TrimSpace(name)
		}
		name = strings.TrimSpace(name[:len(name)-best])
		lower = strings.ToLower(name)
	}
}
