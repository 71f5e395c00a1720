//spellchecker:words mhindex
package mhindex

//spellchecker:words errors path strconv strings slices github mhdb store
import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/FAU-CDI/mhdb/pkg/store"
	"golang.org/x/exp/slices"
)

// cspell:words msgno msgnos

// Messages lists the message numbers of the messages in folder, in ascending order.
// A message is a regular file with an all-numeric name.
func Messages(folder string) ([]MsgNo, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	msgnos := make([]MsgNo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		msgno, err := MessageNumber(entry.Name())
		if err != nil {
			continue
		}
		msgnos = append(msgnos, msgno)
	}

	slices.Sort(msgnos)
	return msgnos, nil
}

// Rebuild throws away the index of folder and builds a new one from the messages currently in it.
//
// Messages are assigned fresh uids in ascending order of their message numbers, starting at 1.
// Rebuild holds an exclusive lock from before removing the old index until the new one is complete,
// and lists the folder only once the lock is held.
// folder is always taken to be a folder, so its own index is rebuilt even when its name is all-numeric.
// It returns the number of messages that were assigned a uid.
func Rebuild(engine store.Engine, folder string, opts Options) (count int, err error) {
	identity := ResolveBase(strings.TrimRight(folder, string(Separator))+string(Separator), opts.BaseName())

	idx, err := open(engine, identity, Exclusive, opts, true)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	msgnos, err := Messages(folder)
	if err != nil {
		return 0, err
	}

	for _, msgno := range msgnos {
		uid, err := idx.AssignUID(path.Join(folder, strconv.FormatUint(uint64(msgno), 10)), 0)
		if err != nil {
			return count, err
		}
		if uid.Valid() {
			count++
		}
		opts.Status.SetCT(count, len(msgnos))
	}

	if compacter, ok := idx.store.(store.Compacter); ok {
		if err := compacter.Compact(); err != nil {
			return count, &IOError{Op: "compact", Identity: identity, Err: err}
		}
	}
	return count, nil
}
