package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MaxEmailLength matches the email columns in the schema.
const MaxEmailLength = 320

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// IsValidEmail reports whether email has the shape local@domain.tld with no whitespace
// and fits the stored column.
func IsValidEmail(email string) bool {
	if len(email) > MaxEmailLength {
		return false
	}
	return emailRegex.MatchString(email)
}
