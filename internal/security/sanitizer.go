package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeText cleans free-text input (display names, film descriptions)
// before validation: trims, strips all HTML and removes null bytes.
func SanitizeText(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return htmlPolicy.Sanitize(input)
}
