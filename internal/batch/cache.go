//spellchecker:words batch
package batch

//spellchecker:words errors github mhdb internal mhindex store
import (
	"errors"

	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/pkg/store"
)

// Cache keeps the index of the most recently used folder open.
//
// Consecutive items from the same folder reuse the open index,
// so that a run over a whole folder locks and opens it only once.
// A Cache is not safe for concurrent use.
type Cache struct {
	Engine  store.Engine
	Access  mhindex.Access
	Options mhindex.Options

	index *mhindex.Index
}

// Get returns the index responsible for itemPath.
//
// When the cached index has a different identity it is closed first.
// The returned index remains owned by the cache.
func (cache *Cache) Get(itemPath string) (*mhindex.Index, error) {
	identity := cache.Options.Resolve(itemPath)
	if cache.index != nil && mhindex.SameIdentity(cache.index.Identity(), identity) {
		return cache.index, nil
	}

	if err := cache.Close(); err != nil {
		return nil, err
	}

	idx, err := mhindex.Open(cache.Engine, identity, cache.Access, cache.Options)
	if err != nil {
		return nil, err
	}
	cache.index = idx
	return idx, nil
}

// Close closes the cached index, if any.
// It is safe to call Close more than once.
func (cache *Cache) Close() error {
	if cache.index == nil {
		return nil
	}

	err := cache.index.Close()
	cache.index = nil
	if errors.Is(err, mhindex.ErrClosed) {
		return nil
	}
	return err
}
