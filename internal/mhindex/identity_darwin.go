//spellchecker:words mhindex
package mhindex

import "strings"

// SameIdentity checks if two identities refer to the same index.
// The default darwin filesystems are case-insensitive, so identities are compared ignoring case.
func SameIdentity(a, b string) bool {
	return strings.EqualFold(a, b)
}
