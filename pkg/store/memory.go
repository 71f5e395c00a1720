//spellchecker:words store
package store

//spellchecker:words golang maps slices
import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MemoryEngine keeps stores in memory.
// Data written to a store survives closing and reopening it through the same engine.
//
// The zero MemoryEngine is ready to use.
// A MemoryEngine must not be copied after first use.
type MemoryEngine struct {
	data map[string]map[string][]byte
}

var (
	_ Engine = (*MemoryEngine)(nil)
	_ Store  = (*MemoryStore)(nil)
)

func (me *MemoryEngine) Exists(name string) (bool, error) {
	_, ok := me.data[name]
	return ok, nil
}

func (me *MemoryEngine) Open(name string, readOnly bool) (Store, error) {
	data, ok := me.data[name]
	if !ok {
		if readOnly {
			return nil, ErrReadOnly
		}
		if me.data == nil {
			me.data = make(map[string]map[string][]byte)
		}
		data = make(map[string][]byte)
		me.data[name] = data
	}
	return &MemoryStore{data: data, readOnly: readOnly}, nil
}

func (me *MemoryEngine) Remove(name string) error {
	delete(me.data, name)
	return nil
}

// MemoryStore implements Store as an in-memory map.
type MemoryStore struct {
	data     map[string][]byte
	readOnly bool
}

func (ms *MemoryStore) Put(key, value []byte, mode Mode) error {
	if ms.data == nil {
		return ErrClosed
	}
	if ms.readOnly {
		return ErrReadOnly
	}

	if _, ok := ms.data[string(key)]; ok && mode == Insert {
		return ErrDuplicate
	}
	ms.data[string(key)] = slices.Clone(value)
	return nil
}

// Get returns the given value if it exists.
func (ms *MemoryStore) Get(key []byte) ([]byte, bool, error) {
	if ms.data == nil {
		return nil, false, ErrClosed
	}

	value, ok := ms.data[string(key)]
	return slices.Clone(value), ok, nil
}

// Delete deletes the given key from this storage.
func (ms *MemoryStore) Delete(key []byte) error {
	if ms.data == nil {
		return ErrClosed
	}
	if ms.readOnly {
		return ErrReadOnly
	}

	delete(ms.data, string(key))
	return nil
}

// Iterate calls f for all entries in the store, in ascending key order.
func (ms *MemoryStore) Iterate(f func(key, value []byte) error) error {
	if ms.data == nil {
		return ErrClosed
	}

	keys := maps.Keys(ms.data)
	slices.Sort(keys)

	for _, key := range keys {
		if err := f([]byte(key), ms.data[key]); err != nil {
			return err
		}
	}
	return nil
}

// Close closes this store.
// The data remains available to future calls to Open on the engine.
func (ms *MemoryStore) Close() error {
	if ms.data == nil {
		return ErrClosed
	}
	ms.data = nil
	return nil
}
