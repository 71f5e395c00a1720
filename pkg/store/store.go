// Package store provides the key-value engines that persist a folder index.
//
//spellchecker:words store
package store

//spellchecker:words errors
import (
	"errors"
)

// Engine opens and manages named Stores.
//
// A name is an index identity, that is a filesystem path without any engine-specific suffix.
// Each engine decides how a name maps to files on disk.
type Engine interface {
	// Exists reports if a store with the given name exists.
	Exists(name string) (bool, error)

	// Open opens the store with the given name.
	// When readOnly is false, the store is created if it does not exist.
	// When readOnly is true and the store does not exist, an error is returned.
	Open(name string, readOnly bool) (Store, error)

	// Remove removes the store with the given name, if any.
	// Removing a store that does not exist is not an error.
	Remove(name string) error
}

// Mode determines how Put treats a key that already exists.
type Mode int

const (
	// Replace overwrites any existing value.
	Replace Mode = iota

	// Insert refuses to overwrite an existing value and returns ErrDuplicate instead.
	Insert
)

func (mode Mode) String() string {
	switch mode {
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

var (
	// ErrDuplicate is returned by Put in Insert mode when the key is already present.
	ErrDuplicate = errors.New("key already present")

	// ErrReadOnly is returned by mutating calls on a store that was opened read-only.
	ErrReadOnly = errors.New("store opened read-only")

	// ErrClosed is returned by calls on a store that has been closed.
	ErrClosed = errors.New("store closed")
)

// Store holds a set of opaque key-value pairs.
//
// A Store is owned by a single goroutine; it is not safe for concurrent use.
type Store interface {
	// Close closes this store.
	Close() error

	// Put stores value under key according to mode.
	Put(key, value []byte, mode Mode) error

	// Get retrieves the value for key.
	// The second value indicates if the value was found.
	Get(key []byte) ([]byte, bool, error)

	// Delete deletes key from this store.
	// Deleting a key that does not exist is not an error.
	Delete(key []byte) error

	// Iterate calls f for all entries in the store, in the native order of the engine.
	//
	// The slices passed to f are only valid until f returns, and f must not call back into the store.
	// When any f returns a non-nil error, iteration stops and that error is returned.
	Iterate(f func(key, value []byte) error) error
}

// Compacter is implemented by stores that can optimize their on-disk representation.
type Compacter interface {
	Compact() error
}
