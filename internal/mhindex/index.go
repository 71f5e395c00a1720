//spellchecker:words mhindex
package mhindex

//spellchecker:words errors gofrs flock github mhdb internal status store
import (
	"errors"

	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/FAU-CDI/mhdb/pkg/store"
	"github.com/gofrs/flock"
)

// Access determines how an index is opened and locked.
type Access int

const (
	// NoLock opens an existing index read-only and does not lock it.
	// It is only safe for diagnostics that tolerate concurrent writers.
	NoLock Access = iota

	// Shared opens an existing index read-only and holds a shared lock.
	Shared

	// Exclusive creates the index if needed, opens it read-write and holds an exclusive lock.
	Exclusive
)

func (access Access) String() string {
	switch access {
	case NoLock:
		return "nolock"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Options configure how indexes are located and how they report.
// The zero Options are ready to use.
type Options struct {
	// Base is the base name of the index within a folder.
	// When empty, DefaultBase is used.
	Base string

	// Status receives warnings about malformed item paths and debug information.
	// It may be nil.
	Status *status.Status
}

// BaseName returns the index base name to use.
func (opts Options) BaseName() string {
	if opts.Base == "" {
		return DefaultBase
	}
	return opts.Base
}

// Resolve resolves itemPath using the configured base name.
func (opts Options) Resolve(itemPath string) string {
	return ResolveBase(itemPath, opts.BaseName())
}

// Index is an open connection to the index of a single folder.
//
// An Index exclusively owns its store and its lock.
// At most one Index per identity may be open within a process at any time;
// callers detect this by comparing identities using [SameIdentity].
//
// An Index is not safe for concurrent use.
type Index struct {
	identity string
	access   Access

	store  store.Store
	lock   *flock.Flock
	status *status.Status
}

// Open opens the index with the given identity.
//
// With Shared or NoLock access, an index that does not exist results in ErrNotFound.
// Any other failure is returned as an *IOError.
// Open blocks until the requested lock is granted.
func Open(engine store.Engine, identity string, access Access, opts Options) (*Index, error) {
	return open(engine, identity, access, opts, false)
}

// OpenPath resolves itemPath and opens the corresponding index.
func OpenPath(engine store.Engine, itemPath string, access Access, opts Options) (*Index, error) {
	return Open(engine, opts.Resolve(itemPath), access, opts)
}

// open implements Open.
// When reset is true, any existing store is removed once the lock is held.
func open(engine store.Engine, identity string, access Access, opts Options, reset bool) (*Index, error) {
	readOnly := access != Exclusive

	if readOnly {
		ok, err := engine.Exists(identity)
		if err != nil {
			return nil, &IOError{Op: "open", Identity: identity, Err: err}
		}
		if !ok {
			return nil, ErrNotFound
		}
	}

	fl, err := lock(identity, access)
	if err != nil {
		return nil, &IOError{Op: "lock", Identity: identity, Err: err}
	}
	opts.Status.LogDebug("lock acquired", "identity", identity, "access", access.String())

	if reset {
		if err := engine.Remove(identity); err != nil {
			return nil, &IOError{Op: "remove", Identity: identity, Err: errors.Join(err, unlock(fl))}
		}
	}

	st, err := engine.Open(identity, readOnly)
	if err != nil {
		return nil, &IOError{Op: "open", Identity: identity, Err: errors.Join(err, unlock(fl))}
	}

	return &Index{
		identity: identity,
		access:   access,

		store:  st,
		lock:   fl,
		status: opts.Status,
	}, nil
}

// unlock releases fl, if any.
func unlock(fl *flock.Flock) error {
	if fl == nil {
		return nil
	}
	return fl.Unlock()
}

// Identity returns the identity of this index.
func (idx *Index) Identity() string {
	return idx.identity
}

// Access returns the access this index was opened with.
func (idx *Index) Access() Access {
	return idx.access
}

// Close closes the underlying store and releases the lock.
//
// An Index must be closed exactly once; further calls return ErrClosed.
func (idx *Index) Close() error {
	if idx.store == nil {
		return ErrClosed
	}

	err := errors.Join(idx.store.Close(), unlock(idx.lock))
	idx.store = nil
	idx.lock = nil

	if err != nil {
		return &IOError{Op: "close", Identity: idx.identity, Err: err}
	}
	idx.status.LogDebug("lock released", "identity", idx.identity)
	return nil
}

// writable checks that this index can be written to.
func (idx *Index) writable() error {
	if idx.store == nil {
		return ErrClosed
	}
	if idx.access != Exclusive {
		return ErrReadOnly
	}
	return nil
}

// readable checks that this index can be read from.
func (idx *Index) readable() error {
	if idx.store == nil {
		return ErrClosed
	}
	return nil
}
