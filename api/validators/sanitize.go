package validators

import "strings"

// SanitizeString trims, collapses runs of whitespace, and cuts the result to
// maxLen runes (0 means unbounded) without splitting a UTF-8 sequence.
func SanitizeString(input string, maxLen int) string {
	clean := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 {
		return clean
	}
	runes := []rune(clean)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return clean
}
