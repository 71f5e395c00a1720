//spellchecker:words mhindex
package mhindex

//spellchecker:words slices
import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"
)

// Entry is a raw key-value pair stored in an index.
type Entry struct {
	Key   []byte
	Value []byte
}

func (entry Entry) String() string {
	return fmt.Sprintf("'%s' => '%s'", entry.Key, entry.Value)
}

// Scan calls f for every raw entry in the index, in the native order of the underlying engine.
// Consumers must not rely on that order.
//
// The entry passed to f is only valid until f returns.
// When f returns a non-nil error, scanning stops and that error is returned.
func (idx *Index) Scan(f func(Entry) error) error {
	if err := idx.readable(); err != nil {
		return err
	}

	var ferr error
	err := idx.store.Iterate(func(key, value []byte) error {
		ferr = f(Entry{Key: key, Value: value})
		return ferr
	})
	if ferr != nil {
		return ferr
	}
	if err != nil {
		return &IOError{Op: "scan", Identity: idx.identity, Err: err}
	}
	return nil
}

// Dump is a snapshot of the raw contents of an index.
type Dump struct {
	HighUID UID
	Entries []Entry
}

// Dump takes a snapshot of the raw contents of this index.
func (idx *Index) Dump() (dump Dump, err error) {
	dump.HighUID, err = idx.HighUID()
	if err != nil {
		return Dump{}, err
	}

	err = idx.Scan(func(entry Entry) error {
		dump.Entries = append(dump.Entries, Entry{
			Key:   slices.Clone(entry.Key),
			Value: slices.Clone(entry.Value),
		})
		return nil
	})
	if err != nil {
		return Dump{}, err
	}
	return dump, nil
}

// WriteTo writes a human-readable form of this dump to w.
func (dump Dump) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := fmt.Fprintf(w, "high uid = %d\n", dump.HighUID)
	total += int64(n)
	if err != nil {
		return total, err
	}

	for _, entry := range dump.Entries {
		n, err := fmt.Fprintln(w, entry.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
