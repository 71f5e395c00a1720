//spellchecker:words mhindex
package mhindex

//spellchecker:words errors github mhdb store
import (
	"errors"

	"github.com/FAU-CDI/mhdb/pkg/store"
)

// cspell:words msgno

// messageNumber extracts the message number of itemPath.
// A malformed itemPath is logged and reported as ok = false.
func (idx *Index) messageNumber(itemPath string) (msgno MsgNo, ok bool) {
	msgno, err := MessageNumber(itemPath)
	if err != nil {
		idx.status.LogWarn("no message number", "path", itemPath, "identity", idx.identity)
		return 0, false
	}
	return msgno, true
}

// GetUID returns the uid assigned to the message at itemPath.
//
// When the message has no uid, or itemPath does not end in a message number, returns 0.
func (idx *Index) GetUID(itemPath string) (UID, error) {
	if err := idx.readable(); err != nil {
		return 0, err
	}

	msgno, ok := idx.messageNumber(itemPath)
	if !ok {
		return 0, nil
	}

	key := ForwardKey(msgno)
	value, ok, err := idx.store.Get(key)
	if err != nil {
		return 0, &IOError{Op: "read", Identity: idx.identity, Err: err}
	}
	if !ok {
		return 0, nil
	}

	uid, err := decodeNumber(key, value)
	if err != nil {
		return 0, err
	}
	return UID(uid), nil
}

// LookupMsgNo returns the message number the given uid is assigned to, or 0 if it is not assigned.
func (idx *Index) LookupMsgNo(uid UID) (MsgNo, error) {
	if err := idx.readable(); err != nil {
		return 0, err
	}
	if !uid.Valid() {
		return 0, nil
	}

	key := ReverseKey(uid)
	value, ok, err := idx.store.Get(key)
	if err != nil {
		return 0, &IOError{Op: "read", Identity: idx.identity, Err: err}
	}
	if !ok {
		return 0, nil
	}

	msgno, err := decodeNumber(key, value)
	if err != nil {
		return 0, err
	}
	return MsgNo(msgno), nil
}

// AssignUID assigns a uid to the message at itemPath, and returns it.
//
// When forced is valid, it is used as the uid and the counter is left alone.
// Otherwise a fresh uid is allocated, and the counter is only advanced once both mappings have been written.
//
// When the message number or the uid is already mapped, a *ConsistencyError is returned and nothing is changed.
// When itemPath does not end in a message number, AssignUID logs this and returns 0 without writing anything.
func (idx *Index) AssignUID(itemPath string, forced UID) (UID, error) {
	if err := idx.writable(); err != nil {
		return 0, err
	}

	msgno, ok := idx.messageNumber(itemPath)
	if !ok {
		return 0, nil
	}

	uid := forced
	if !forced.Valid() {
		var err error
		if uid, err = idx.counter(); err != nil {
			return 0, err
		}
	}

	reverse := ReverseKey(uid)
	if err := idx.insert(reverse, encodeNumber(uint32(msgno))); err != nil {
		return 0, err
	}

	if err := idx.insert(ForwardKey(msgno), encodeNumber(uint32(uid))); err != nil {
		// the reverse key did not exist before, so removing it restores the previous state
		if derr := idx.store.Delete(reverse); derr != nil {
			err = errors.Join(err, &IOError{Op: "delete", Identity: idx.identity, Err: derr})
		}
		return 0, err
	}

	if !forced.Valid() {
		if err := idx.setCounter(uid.Next()); err != nil {
			return 0, err
		}
	}

	idx.status.LogDebug("assigned uid", "identity", idx.identity, "msgno", msgno.String(), "uid", uid.String())
	return uid, nil
}

// insert writes key and value unless key is already present.
func (idx *Index) insert(key, value []byte) error {
	err := idx.store.Put(key, value, store.Insert)
	if errors.Is(err, store.ErrDuplicate) {
		return &ConsistencyError{Key: string(key)}
	}
	if err != nil {
		return &IOError{Op: "write", Identity: idx.identity, Err: err}
	}
	return nil
}

// DeleteUID removes the mapping between the message at itemPath and uid.
//
// The two directions are removed independently, and missing entries are ignored.
// The counter is never changed, so uid is not handed out again.
// When itemPath does not end in a message number, DeleteUID logs this and does nothing.
func (idx *Index) DeleteUID(itemPath string, uid UID) error {
	if err := idx.writable(); err != nil {
		return err
	}

	msgno, ok := idx.messageNumber(itemPath)
	if !ok {
		return nil
	}

	var errs [2]error
	errs[0] = idx.store.Delete(ForwardKey(msgno))
	if uid.Valid() {
		errs[1] = idx.store.Delete(ReverseKey(uid))
	}

	if err := errors.Join(errs[:]...); err != nil {
		return &IOError{Op: "delete", Identity: idx.identity, Err: err}
	}

	idx.status.LogDebug("deleted uid", "identity", idx.identity, "msgno", msgno.String(), "uid", uid.String())
	return nil
}
