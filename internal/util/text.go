package util

import "strings"

// SanitizeText strips invalid UTF-8 and NUL bytes from model output
// before it is stored. Postgres text columns reject NUL.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
