//spellchecker:words mhindex
package mhindex

//spellchecker:words errors github mhdb store
import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/mhdb/pkg/store"
)

var (
	// ErrNoMessageNumber indicates an item path that does not end in a message number.
	// The operations of an Index recover from it by logging it and treating the item as having no uid.
	ErrNoMessageNumber = errors.New("no message number")

	// ErrNotFound is returned when opening an index that does not exist without creating it.
	// It indicates an absent index rather than a failure.
	ErrNotFound = errors.New("index does not exist")

	// ErrReadOnly is returned by mutating calls on an index that was not opened exclusively.
	ErrReadOnly = store.ErrReadOnly

	// ErrClosed is returned by calls on an index that has been closed.
	ErrClosed = errors.New("index closed")
)

// IOError indicates that the backing store of an index could not be created, opened, locked, read or written.
// It is not recoverable.
type IOError struct {
	Op       string // operation that failed
	Identity string // identity of the index
	Err      error  // underlying error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", err.Op, err.Identity, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// ConsistencyError indicates that an insert-only write found its key already present.
//
// It means that either a message number or a uid was about to be assigned twice.
// This signals a corrupted index or a caller bug, and must not be papered over.
type ConsistencyError struct {
	Key string // key that was already present
}

func (err *ConsistencyError) Error() string {
	return fmt.Sprintf("key %s already present", err.Key)
}

func (err *ConsistencyError) Unwrap() error {
	return store.ErrDuplicate
}

// CorruptError indicates a stored value that cannot be decoded.
type CorruptError struct {
	Key   string
	Value string
}

func (err *CorruptError) Error() string {
	return fmt.Sprintf("corrupt value %q for key %s", err.Value, err.Key)
}
