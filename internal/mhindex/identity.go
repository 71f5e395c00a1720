//go:build !darwin

//spellchecker:words mhindex
package mhindex

// SameIdentity checks if two identities refer to the same index.
// Identities are compared byte by byte.
func SameIdentity(a, b string) bool {
	return a == b
}
