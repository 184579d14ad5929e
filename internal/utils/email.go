package utils

import "strings"

// NormalizeEmail canonicalizes an email address (trim + lowercase) so that
// equivalent inputs resolve to the same identity.  Every entry point that
// accepts an email must pass it through here before lookups or writes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
