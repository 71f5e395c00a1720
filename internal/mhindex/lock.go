//spellchecker:words mhindex
package mhindex

//spellchecker:words gofrs flock
import (
	"github.com/gofrs/flock"
)

// LockSuffix is appended to an identity to form the name of its lock file.
const LockSuffix = ".lock"

// lock acquires the advisory lock on the index with the given identity.
//
// The lock file is created if needed, which requires the folder to exist.
// Acquiring blocks until the lock is granted, without timeout.
// For NoLock, lock returns a nil lock and does nothing.
func lock(identity string, access Access) (*flock.Flock, error) {
	if access == NoLock {
		return nil, nil
	}

	fl := flock.New(identity + LockSuffix)

	var err error
	if access == Exclusive {
		err = fl.Lock()
	} else {
		err = fl.RLock()
	}
	if err != nil {
		return nil, err
	}
	return fl, nil
}
