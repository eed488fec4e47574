package poststore

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugMaxLen = 30

var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify lowercases the topic, folds accented characters to ASCII, strips
// everything but letters, digits, and spaces, and joins words with hyphens,
// capped at 30 characters.
func slugify(topic string) string {
	folded, _, err := transform.String(asciiFolder, topic)
	if err != nil {
		folded = topic
	}
	lower := strings.ToLower(folded)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
		slug = strings.Trim(slug, "-")
	}
	if slug == "" {
		slug = "post"
	}
	return slug
}

// topicFromSlug reverses slugify well enough for display: hyphens back to
// spaces, words title-cased.
func topicFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
