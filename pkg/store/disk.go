//spellchecker:words store
package store

//spellchecker:words errors io path filepath syndtr goleveldb leveldb util
import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DiskSuffix is appended to a store name to form the leveldb directory.
const DiskSuffix = ".leveldb"

// DiskEngine stores each index in a leveldb directory next to the folder it belongs to.
type DiskEngine struct{}

var (
	_ Engine    = DiskEngine{}
	_ Store     = (*DiskStore)(nil)
	_ Compacter = (*DiskStore)(nil)
)

// Path returns the directory used for the store with the given name.
func (DiskEngine) Path(name string) string {
	return name + DiskSuffix
}

func (de DiskEngine) Exists(name string) (bool, error) {
	return exists(de.Path(name))
}

// Open opens the store with the given name.
//
// leveldb locks its directory even when opened read-only.
// When a read-only open fails because a writer holds that lock, the store is read from a point-in-time copy instead.
func (de DiskEngine) Open(name string, readOnly bool) (Store, error) {
	path := de.Path(name)

	db, err := openLevelDB(path, readOnly)
	if err == nil {
		return &DiskStore{DB: db, readOnly: readOnly}, nil
	}
	if !readOnly {
		return nil, err
	}

	snapshot, serr := snapshotDir(path)
	if serr != nil {
		return nil, errors.Join(err, serr)
	}

	db, serr = openLevelDB(snapshot, true)
	if serr != nil {
		return nil, errors.Join(err, serr, os.RemoveAll(snapshot))
	}
	return &DiskStore{DB: db, readOnly: true, snapshot: snapshot}, nil
}

func openLevelDB(path string, readOnly bool) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		ReadOnly:       readOnly,
		ErrorIfMissing: readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}
	return db, nil
}

// snapshotLock is the name of the lock file leveldb keeps inside its directory.
const snapshotLock = "LOCK"

// snapshotDir copies the files of the leveldb directory at path into a new temporary directory.
// Files that disappear while copying, because a concurrent writer compacted them away, are skipped.
func snapshotDir(path string) (snapshot string, err error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read database directory: %w", err)
	}

	snapshot, err = os.MkdirTemp("", "mhindex-snapshot-")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(snapshot)
			snapshot = ""
		}
	}()

	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == snapshotLock {
			continue
		}

		err := copyFile(filepath.Join(snapshot, entry.Name()), filepath.Join(path, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to copy database file: %w", err)
		}
	}
	return snapshot, nil
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}

func (de DiskEngine) Remove(name string) error {
	if err := os.RemoveAll(de.Path(name)); err != nil {
		return fmt.Errorf("failed to remove database file: %w", err)
	}
	return nil
}

// DiskStore implements Store on top of a leveldb database.
type DiskStore struct {
	DB *leveldb.DB

	readOnly bool
	snapshot string // temporary copy the database was opened from, if any
}

// Snapshot returns the temporary copy this store was opened from, or the empty string if it was opened directly.
func (ds *DiskStore) Snapshot() string {
	return ds.snapshot
}

func (ds *DiskStore) Put(key, value []byte, mode Mode) error {
	if ds.DB == nil {
		return ErrClosed
	}
	if ds.readOnly {
		return ErrReadOnly
	}

	// leveldb has no native insert-only put.
	// Callers hold an exclusive lock, so a check before the write is sufficient.
	if mode == Insert {
		ok, err := ds.DB.Has(key, nil)
		if err != nil {
			return fmt.Errorf("failed to check database for key: %w", err)
		}
		if ok {
			return ErrDuplicate
		}
	}

	if err := ds.DB.Put(key, value, nil); err != nil {
		return fmt.Errorf("failed to set value for key: %w", err)
	}
	return nil
}

// Get returns the given value if it exists.
func (ds *DiskStore) Get(key []byte) ([]byte, bool, error) {
	if ds.DB == nil {
		return nil, false, ErrClosed
	}

	value, err := ds.DB.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key from database: %w", err)
	}
	return value, true, nil
}

// Delete deletes the given key from this storage.
func (ds *DiskStore) Delete(key []byte) error {
	if ds.DB == nil {
		return ErrClosed
	}
	if ds.readOnly {
		return ErrReadOnly
	}

	if err := ds.DB.Delete(key, nil); err != nil {
		return fmt.Errorf("failed to delete key from disk: %w", err)
	}
	return nil
}

// Iterate calls f for all entries in the database, in ascending key order.
func (ds *DiskStore) Iterate(f func(key, value []byte) error) error {
	if ds.DB == nil {
		return ErrClosed
	}

	it := ds.DB.NewIterator(nil, nil)
	defer it.Release()

	for it.Next() {
		if err := f(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("failed to iterate database: %w", err)
	}
	return nil
}

// Compact compacts the entire underlying database.
func (ds *DiskStore) Compact() error {
	if ds.DB == nil {
		return ErrClosed
	}
	if err := ds.DB.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to compact database: %w", err)
	}
	return nil
}

func (ds *DiskStore) Close() error {
	if ds.DB == nil {
		return ErrClosed
	}

	err := ds.DB.Close()
	ds.DB = nil
	if ds.snapshot != "" {
		err = errors.Join(err, os.RemoveAll(ds.snapshot))
		ds.snapshot = ""
	}
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// exists checks if the given path exists on disk.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return true, nil
}
