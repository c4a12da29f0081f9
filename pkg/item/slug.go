package item

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// SlugFallback is the slug used when a title reduces to nothing,
	// e.g. a title made only of punctuation.
	SlugFallback = "untitled"

	// maxSlugLen bounds generated slugs so filenames stay manageable.
	maxSlugLen = 64
)

// Slugify derives a filesystem-safe token from a title: lowercase, runs of
// non-alphanumeric characters collapsed to a single dash, trimmed and
// truncated.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
		} else {
			pendingDash = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		cut := maxSlugLen
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}
		slug = strings.TrimRight(slug[:cut], "-")
	}
	if slug == "" {
		return SlugFallback
	}
	return slug
}

// Uniquify returns token unchanged if it is free in existing, otherwise the
// first token-N (N starting at 2) that is. Deterministic by construction.
func Uniquify(token string, existing map[string]bool) string {
	if !existing[token] {
		return token
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", token, n)
		if !existing[candidate] {
			return candidate
		}
	}
}

// UniqueSlug slugifies title and resolves collisions against existing.
func UniqueSlug(title string, existing map[string]bool) string {
	return Uniquify(Slugify(title), existing)
}
