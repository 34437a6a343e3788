package utils

import "strings"

// NormalizeName lowercases and trims a config enum value such as a
// backend or log level name.
func NormalizeName(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
