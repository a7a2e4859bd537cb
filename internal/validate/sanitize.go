package validate

import "strings"

// SanitizeEmail strips all whitespace and lowercases, matching how the
// form layer normalizes email input as it is typed.
func SanitizeEmail(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// SanitizePhone keeps digits only, capped at ten.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() == 10 {
			break
		}
	}
	return b.String()
}

// SanitizeUsername drops everything outside [A-Za-z0-9_].
func SanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
