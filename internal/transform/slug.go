package transform

import (
	"strings"
	"unicode"
)

// Slugify builds a URL-safe slug from a product title. Latin letters,
// digits, and the Greek Unicode block survive; whitespace and hyphen runs
// collapse to a single hyphen.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x0370 && r <= 0x03ff:
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune('-')
		}
	}

	var out strings.Builder
	prevHyphen := false
	for _, r := range b.String() {
		if r == '-' {
			if !prevHyphen {
				out.WriteRune(r)
			}
			prevHyphen = true
			continue
		}
		out.WriteRune(r)
		prevHyphen = false
	}

	return strings.Trim(out.String(), "-")
}
