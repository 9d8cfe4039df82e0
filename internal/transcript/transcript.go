// Package transcript extracts course-code selections from already-
// OCR'd transcript text for POST /process-pdf. The PDF-to-text step
// itself happens upstream; this package only consumes the resulting
// text.
package transcript

import (
	"regexp"
	"strings"
)

// courseCodeRe matches a subject prefix of 3-4 letters followed by a
// 4-digit course number and a trailing "U", tolerating the line breaks
// OCR sometimes inserts between the prefix and the digits.
var courseCodeRe = regexp.MustCompile(`[A-Z]{3,4}[ \r\n]*[0-9]{4}U`)

// Extract returns the lowercased, de-duplicated (first-occurrence order)
// course codes found in text.
func Extract(text string) []string {
	matches := courseCodeRe.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		code := strings.ToLower(stripWhitespace(m))
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\r' || r == '\n' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
