//spellchecker:words mhindex
package mhindex

//spellchecker:words github mhdb store
import (
	"github.com/FAU-CDI/mhdb/pkg/store"
)

// counter returns the next uid to be allocated.
// An index without a counter starts at 1.
func (idx *Index) counter() (UID, error) {
	key := CounterKey()

	value, ok, err := idx.store.Get(key)
	if err != nil {
		return 0, &IOError{Op: "read", Identity: idx.identity, Err: err}
	}
	if !ok {
		return 1, nil
	}

	next, err := decodeNumber(key, value)
	if err != nil {
		return 0, err
	}
	return UID(next), nil
}

// setCounter stores next as the next uid to be allocated.
func (idx *Index) setCounter(next UID) error {
	if err := idx.store.Put(CounterKey(), encodeNumber(uint32(next)), store.Replace); err != nil {
		return &IOError{Op: "write", Identity: idx.identity, Err: err}
	}
	return nil
}

// NextUID allocates a uid.
//
// A valid forced uid is returned unchanged, and the counter is neither read nor advanced.
// Otherwise the current counter value is returned, and the counter is advanced past it.
//
// NextUID requires exclusive access.
func (idx *Index) NextUID(forced UID) (UID, error) {
	if forced.Valid() {
		return forced, nil
	}

	if err := idx.writable(); err != nil {
		return 0, err
	}

	uid, err := idx.counter()
	if err != nil {
		return 0, err
	}
	if err := idx.setCounter(uid.Next()); err != nil {
		return 0, err
	}
	return uid, nil
}

// HighUID returns the highest uid allocated so far, or 0 if none has been.
func (idx *Index) HighUID() (UID, error) {
	if err := idx.readable(); err != nil {
		return 0, err
	}

	next, err := idx.counter()
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}
