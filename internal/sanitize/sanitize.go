// Package sanitize strips markup from untrusted request input.
package sanitize

import (
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// Clean removes HTML tags and trims surrounding whitespace. Every
// client-supplied field passes through here before validation, so an
// input consisting only of markup validates as empty.
func Clean(s string) string {
	return strings.TrimSpace(tagRegex.ReplaceAllString(s, ""))
}
