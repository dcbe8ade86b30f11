package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// Lookup always goes through the normalized form so that registration and
// login agree on uniqueness.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
