//spellchecker:words mhindex
package mhindex

//spellchecker:words strconv strings
import (
	"fmt"
	"strconv"
	"strings"
)

// cspell:words msgno

// DefaultBase is the default base name of the index within a folder.
const DefaultBase = "mhindex"

// Separator separates the components of an item path.
const Separator = '/'

// Resolve returns the identity of the index responsible for itemPath, using DefaultBase.
//
// See [ResolveBase].
func Resolve(itemPath string) string {
	return ResolveBase(itemPath, DefaultBase)
}

// ResolveBase returns the identity of the index responsible for itemPath.
//
// An itemPath whose last component is all-numeric names a message; the identity is then located in the parent folder.
// Any other itemPath names a folder, which holds the index itself.
// In both cases the identity is the folder path, terminated by a [Separator], followed by base.
// A path without any separator is relative to the current directory.
//
// ResolveBase does not touch the filesystem.
// In particular, a folder that has an all-numeric name is mistaken for a message,
// and its index is looked for in its parent folder.
func ResolveBase(itemPath, base string) string {
	index := strings.LastIndexByte(itemPath, Separator)
	last := itemPath[index+1:]

	var folder string
	if IsDigits(last) {
		// message (or a path already ending in a separator): cut the last component
		folder = itemPath[:index+1]
	} else {
		folder = itemPath + string(Separator)
	}
	return folder + base
}

// MessageNumber extracts the message number from the last component of itemPath.
//
// When the last component is not a positive decimal number, returns an error wrapping [ErrNoMessageNumber].
func MessageNumber(itemPath string) (MsgNo, error) {
	last := itemPath[strings.LastIndexByte(itemPath, Separator)+1:]
	if last == "" || !IsDigits(last) {
		return 0, fmt.Errorf("%w (%s)", ErrNoMessageNumber, itemPath)
	}

	number, err := strconv.ParseUint(last, 10, 32)
	if err != nil || number == 0 {
		return 0, fmt.Errorf("%w (%s)", ErrNoMessageNumber, itemPath)
	}
	return MsgNo(number), nil
}

// IsDigits checks if s consists of ascii digits only, that is if s would be taken for a message number.
// The empty string consists of digits only.
func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
