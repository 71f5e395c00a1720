//spellchecker:words mhindex
package mhindex

//spellchecker:words errors github mhdb store
import (
	"errors"

	"github.com/FAU-CDI/mhdb/pkg/store"
)

// Move moves the uid mapping of the message at src to the message at dst, and returns the uid of dst.
//
// When src and dst resolve to the same index, it is opened only once and dst keeps the uid of src.
// Otherwise both indexes are opened, and dst is given a fresh uid in its own folder,
// because a uid has no meaning outside of the folder that issued it.
func Move(engine store.Engine, src, dst string, opts Options) (uid UID, err error) {
	srcID := opts.Resolve(src)
	dstID := opts.Resolve(dst)

	from, err := Open(engine, srcID, Exclusive, opts)
	if err != nil {
		return 0, err
	}

	// opening the same identity twice would deadlock on our own lock
	to := from
	if !SameIdentity(srcID, dstID) {
		to, err = Open(engine, dstID, Exclusive, opts)
		if err != nil {
			return 0, errors.Join(err, from.Close())
		}
	}

	defer func() {
		var cerr error
		if to != from {
			cerr = to.Close()
		}
		cerr = errors.Join(cerr, from.Close())

		if cerr != nil {
			uid = 0
			err = errors.Join(err, cerr)
		}
	}()

	return move(from, to, src, dst)
}

// move implements Move on already opened indexes.
func move(from, to *Index, src, dst string) (UID, error) {
	uid, err := from.GetUID(src)
	if err != nil {
		return 0, err
	}
	if err := from.DeleteUID(src, uid); err != nil {
		return 0, err
	}

	var forced UID
	if from == to {
		forced = uid
	}
	return to.AssignUID(dst, forced)
}
