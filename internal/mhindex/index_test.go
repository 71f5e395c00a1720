//spellchecker:words mhindex
package mhindex_test

//spellchecker:words errors path filepath testing github mhdb internal mhindex store gofrs flock stretchr testify assert require
import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/pkg/store"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cspell:words msgno

// engines holds constructors for every engine the index is tested against.
var engines = map[string]func() store.Engine{
	"memory":  func() store.Engine { return &store.MemoryEngine{} },
	"leveldb": func() store.Engine { return store.DiskEngine{} },
	"sqlite":  func() store.Engine { return store.SQLiteEngine{} },
}

// forEngine runs f once for every engine, each time with a fresh folder.
func forEngine(t *testing.T, f func(t *testing.T, engine store.Engine, folder string)) {
	t.Helper()

	for name, engine := range engines {
		engine := engine
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f(t, engine(), makeFolder(t, "inbox"))
		})
	}
}

// makeFolder creates a new folder with the given name inside a temporary directory.
func makeFolder(t *testing.T, name string) string {
	t.Helper()

	folder := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	return folder
}

// openExclusive opens the index of folder exclusively, and closes it at the end of the test.
func openExclusive(t *testing.T, engine store.Engine, folder string) *mhindex.Index {
	t.Helper()

	idx, err := mhindex.OpenPath(engine, folder, mhindex.Exclusive, mhindex.Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		err := idx.Close()
		if err != nil && !errors.Is(err, mhindex.ErrClosed) {
			t.Errorf("Close() returned error %s", err)
		}
	})
	return idx
}

func msg(folder string, msgno int) string {
	return fmt.Sprintf("%s/%d", folder, msgno)
}

func ExampleIndex() {
	dir, err := os.MkdirTemp("", "mhindex")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	engine := &store.MemoryEngine{}
	idx, err := mhindex.OpenPath(engine, dir+"/5", mhindex.Exclusive, mhindex.Options{})
	if err != nil {
		panic(err)
	}
	defer idx.Close()

	fmt.Println(idx.AssignUID(dir+"/5", 0))
	fmt.Println(idx.AssignUID(dir+"/3", 0))
	fmt.Println(idx.GetUID(dir + "/5"))
	fmt.Println(idx.LookupMsgNo(2))

	dump, err := idx.Dump()
	if err != nil {
		panic(err)
	}
	dump.WriteTo(os.Stdout)

	// Output: 1 <nil>
	// 2 <nil>
	// 1 <nil>
	// 3 <nil>
	// high uid = 2
	// '1:uid:msg' => '5'
	// '2:uid:msg' => '3'
	// '3:msg:uid' => '2'
	// '5:msg:uid' => '1'
	// 'file_header' => '3'
}

func TestIndex_Scenario(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		high, err := idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(0), high, "empty index")

		uid, err := idx.AssignUID(msg(folder, 1), 0)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(1), uid)

		high, err = idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(1), high)

		uid, err = idx.AssignUID(msg(folder, 2), 0)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(2), uid)

		require.NoError(t, idx.DeleteUID(msg(folder, 1), 1))

		uid, err = idx.GetUID(msg(folder, 1))
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(0), uid, "deleted mapping")

		msgno, err := idx.LookupMsgNo(1)
		require.NoError(t, err)
		assert.Equal(t, mhindex.MsgNo(0), msgno, "deleted reverse mapping")

		high, err = idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(2), high, "delete does not touch the counter")

		uid, err = idx.AssignUID(msg(folder, 1), 0)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(3), uid, "uids are never reused")
	})
}

func TestIndex_DistinctUIDs(t *testing.T) {
	t.Parallel()

	const N = 200

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		seen := make(map[mhindex.UID]int, N)
		var max mhindex.UID
		for i := 1; i <= N; i++ {
			uid, err := idx.AssignUID(msg(folder, i), 0)
			require.NoError(t, err)

			if prev, ok := seen[uid]; ok {
				t.Fatalf("uid %s assigned to both %d and %d", uid, prev, i)
			}
			seen[uid] = i
			if uid > max {
				max = uid
			}
		}

		high, err := idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, max, high)

		// both directions agree
		for uid, i := range seen {
			got, err := idx.GetUID(msg(folder, i))
			require.NoError(t, err)
			assert.Equal(t, uid, got)

			msgno, err := idx.LookupMsgNo(uid)
			require.NoError(t, err)
			assert.Equal(t, mhindex.MsgNo(i), msgno)
		}
	})
}

func TestIndex_ForcedUID(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		for i := 1; i <= 6; i++ {
			_, err := idx.AssignUID(msg(folder, i), 0)
			require.NoError(t, err)
		}
		require.NoError(t, idx.DeleteUID(msg(folder, 5), 5))

		before, err := idx.HighUID()
		require.NoError(t, err)

		uid, err := idx.AssignUID(msg(folder, 10), 5)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(5), uid)

		after, err := idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, before, after, "forced uid must not advance the counter")

		// NextUID behaves the same way
		uid, err = idx.NextUID(42)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(42), uid)

		after, err = idx.HighUID()
		require.NoError(t, err)
		assert.Equal(t, before, after)

		uid, err = idx.NextUID(0)
		require.NoError(t, err)
		assert.Equal(t, before+1, uid)
	})
}

func TestIndex_ConsistencyError(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		_, err := idx.AssignUID(msg(folder, 1), 0)
		require.NoError(t, err)
		_, err = idx.AssignUID(msg(folder, 2), 0)
		require.NoError(t, err)

		before, err := idx.Dump()
		require.NoError(t, err)

		// the message number is already mapped
		_, err = idx.AssignUID(msg(folder, 1), 0)
		var cerr *mhindex.ConsistencyError
		if assert.ErrorAs(t, err, &cerr) {
			assert.Equal(t, "1:msg:uid", cerr.Key)
		}

		// the uid is already mapped
		_, err = idx.AssignUID(msg(folder, 3), 2)
		if assert.ErrorAs(t, err, &cerr) {
			assert.Equal(t, "2:uid:msg", cerr.Key)
		}
		assert.ErrorIs(t, err, store.ErrDuplicate)

		after, err := idx.Dump()
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed assignments must not change the index")
	})
}

func TestIndex_NoMessageNumber(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		uid, err := idx.AssignUID(folder+"/notes", 0)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(0), uid)

		uid, err = idx.GetUID(folder + "/notes")
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(0), uid)

		require.NoError(t, idx.DeleteUID(folder+"/notes", 1))

		dump, err := idx.Dump()
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(0), dump.HighUID)
		assert.Empty(t, dump.Entries, "nothing may be written")
	})
}

func TestIndex_DeleteLenient(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx := openExclusive(t, engine, folder)

		uid, err := idx.AssignUID(msg(folder, 4), 0)
		require.NoError(t, err)

		require.NoError(t, idx.DeleteUID(msg(folder, 4), uid))
		require.NoError(t, idx.DeleteUID(msg(folder, 4), uid), "double delete")
		require.NoError(t, idx.DeleteUID(msg(folder, 9), 0), "delete of unknown message")

		dump, err := idx.Dump()
		require.NoError(t, err)
		if assert.Len(t, dump.Entries, 1) {
			assert.Equal(t, "file_header", string(dump.Entries[0].Key))
		}
	})
}

func TestOpen_Access(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		// nothing there yet
		_, err := mhindex.OpenPath(engine, folder, mhindex.Shared, mhindex.Options{})
		assert.ErrorIs(t, err, mhindex.ErrNotFound)
		_, err = mhindex.OpenPath(engine, folder, mhindex.NoLock, mhindex.Options{})
		assert.ErrorIs(t, err, mhindex.ErrNotFound)

		// create it
		idx, err := mhindex.OpenPath(engine, msg(folder, 1), mhindex.Exclusive, mhindex.Options{})
		require.NoError(t, err)
		assert.Equal(t, folder+"/mhindex", idx.Identity())
		assert.Equal(t, mhindex.Exclusive, idx.Access())

		_, err = idx.AssignUID(msg(folder, 1), 0)
		require.NoError(t, err)
		require.NoError(t, idx.Close())
		assert.ErrorIs(t, idx.Close(), mhindex.ErrClosed)

		_, err = idx.GetUID(msg(folder, 1))
		assert.ErrorIs(t, err, mhindex.ErrClosed)

		// shared readers can coexist
		r1, err := mhindex.OpenPath(engine, folder, mhindex.Shared, mhindex.Options{})
		require.NoError(t, err)
		r2, err := mhindex.OpenPath(engine, folder, mhindex.NoLock, mhindex.Options{})
		require.NoError(t, err)

		for _, r := range []*mhindex.Index{r1, r2} {
			uid, err := r.GetUID(msg(folder, 1))
			require.NoError(t, err)
			assert.Equal(t, mhindex.UID(1), uid)

			_, err = r.AssignUID(msg(folder, 2), 0)
			assert.ErrorIs(t, err, mhindex.ErrReadOnly)
			assert.ErrorIs(t, r.DeleteUID(msg(folder, 1), 1), mhindex.ErrReadOnly)
		}

		require.NoError(t, r2.Close())
		require.NoError(t, r1.Close())
	})
}

func TestOpen_MissingFolder(t *testing.T) {
	t.Parallel()

	folder := filepath.Join(t.TempDir(), "missing")

	_, err := mhindex.OpenPath(store.DiskEngine{}, folder, mhindex.Exclusive, mhindex.Options{})
	var ioErr *mhindex.IOError
	if assert.ErrorAs(t, err, &ioErr) {
		assert.Equal(t, folder+"/mhindex", ioErr.Identity)
	}
}

func TestOpen_Base(t *testing.T) {
	t.Parallel()

	engine := &store.MemoryEngine{}
	folder := makeFolder(t, "inbox")
	opts := mhindex.Options{Base: ".uids"}

	idx, err := mhindex.OpenPath(engine, msg(folder, 3), mhindex.Exclusive, opts)
	require.NoError(t, err)
	assert.Equal(t, folder+"/.uids", idx.Identity())
	require.NoError(t, idx.Close())

	ok, err := engine.Exists(folder + "/.uids")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_NoLockWhileExclusive(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		writer := openExclusive(t, engine, folder)
		_, err := writer.AssignUID(msg(folder, 1), 0)
		require.NoError(t, err)

		reader, err := mhindex.OpenPath(engine, folder, mhindex.NoLock, mhindex.Options{})
		require.NoError(t, err)

		uid, err := reader.GetUID(msg(folder, 1))
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(1), uid)

		dump, err := reader.Dump()
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(1), dump.HighUID)
		require.NoError(t, reader.Close())

		// the writer is unaffected
		uid, err = writer.AssignUID(msg(folder, 2), 0)
		require.NoError(t, err)
		assert.Equal(t, mhindex.UID(2), uid)
	})
}

// tryLock reports if the lock of identity could currently be acquired shared and exclusively.
func tryLock(t *testing.T, identity string) (shared, exclusive bool) {
	t.Helper()

	fl := flock.New(identity + mhindex.LockSuffix)

	shared, err := fl.TryRLock()
	require.NoError(t, err)
	if shared {
		require.NoError(t, fl.Unlock())
	}

	exclusive, err = fl.TryLock()
	require.NoError(t, err)
	if exclusive {
		require.NoError(t, fl.Unlock())
	}
	return shared, exclusive
}

func TestOpen_Lock(t *testing.T) {
	t.Parallel()

	forEngine(t, func(t *testing.T, engine store.Engine, folder string) {
		idx, err := mhindex.OpenPath(engine, folder, mhindex.Exclusive, mhindex.Options{})
		require.NoError(t, err)
		identity := idx.Identity()

		shared, exclusive := tryLock(t, identity)
		assert.False(t, shared, "exclusive access blocks shared openers")
		assert.False(t, exclusive, "exclusive access blocks exclusive openers")

		require.NoError(t, idx.Close())

		shared, exclusive = tryLock(t, identity)
		assert.True(t, shared, "close releases the lock")
		assert.True(t, exclusive, "close releases the lock")

		// shared access only blocks writers
		idx, err = mhindex.OpenPath(engine, folder, mhindex.Shared, mhindex.Options{})
		require.NoError(t, err)

		shared, exclusive = tryLock(t, identity)
		assert.True(t, shared, "shared access admits shared openers")
		assert.False(t, exclusive, "shared access blocks exclusive openers")

		require.NoError(t, idx.Close())

		// no lock is taken at all
		idx, err = mhindex.OpenPath(engine, folder, mhindex.NoLock, mhindex.Options{})
		require.NoError(t, err)

		shared, exclusive = tryLock(t, identity)
		assert.True(t, shared)
		assert.True(t, exclusive)

		require.NoError(t, idx.Close())
	})
}
