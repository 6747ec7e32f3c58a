// Package textutil provides safe text shortening for log output.
package textutil

import (
	"unicode"
	"unicode/utf8"
)

// MaxPreview is the maximum byte length of a chunk preview in logs.
const MaxPreview = 64

// truncateUTF8 caps s at limit bytes, backtracking to a valid UTF-8
// boundary.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// Preview renders raw output bytes as a short single-line string for
// structured log fields: control characters are replaced, the result is
// capped at MaxPreview bytes with UTF-8-safe truncation.
func Preview(data []byte) string {
	out := make([]rune, 0, len(data))
	for _, r := range string(data) {
		if r == utf8.RuneError || unicode.IsControl(r) {
			out = append(out, '.')
			continue
		}
		out = append(out, r)
	}
	return truncateUTF8(string(out), MaxPreview)
}
