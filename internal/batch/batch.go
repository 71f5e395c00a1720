//spellchecker:words batch
package batch

//spellchecker:words bufio errors strings github mhdb internal mhindex store
import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/pkg/store"
)

// Stdin is the source name that makes Paths read item paths from standard input.
const Stdin = "-"

// Op is an operation applied to a single item by Run.
// It returns the uid the item ended up with.
type Op func(idx *mhindex.Index, itemPath string) (mhindex.UID, error)

// Add assigns a fresh uid to an item.
func Add(idx *mhindex.Index, itemPath string) (mhindex.UID, error) {
	return idx.AssignUID(itemPath, 0)
}

// Delete removes the uid of an item, if it has one.
func Delete(idx *mhindex.Index, itemPath string) (mhindex.UID, error) {
	uid, err := idx.GetUID(itemPath)
	if err != nil {
		return 0, err
	}

	// no forward mapping, or no message number at all
	if !uid.Valid() {
		return 0, nil
	}
	if err := idx.DeleteUID(itemPath, uid); err != nil {
		return 0, err
	}
	return uid, nil
}

// Paths calls f with every item path named by sources.
//
// A source equal to Stdin is replaced by the lines read from stdin.
// Empty lines are skipped, and surrounding whitespace is trimmed.
// When f returns an error, Paths stops and returns it.
func Paths(sources []string, stdin io.Reader, f func(itemPath string) error) error {
	for _, source := range sources {
		if source != Stdin {
			if err := f(source); err != nil {
				return err
			}
			continue
		}

		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := f(line); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read paths: %w", err)
		}
	}
	return nil
}

// Result summarizes a call to Run.
type Result struct {
	Items   int // number of items processed
	Changed int // number of items that had or received a uid
}

// Run applies op to every item path named by sources, holding each folder's index exclusively.
//
// Indexes are reused across consecutive items of the same folder.
// The first error stops the run, and all indexes are closed before Run returns.
func Run(engine store.Engine, opts mhindex.Options, sources []string, stdin io.Reader, op Op) (result Result, err error) {
	cache := &Cache{
		Engine:  engine,
		Access:  mhindex.Exclusive,
		Options: opts,
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	err = Paths(sources, stdin, func(itemPath string) error {
		idx, err := cache.Get(itemPath)
		if err != nil {
			return err
		}

		uid, err := op(idx, itemPath)
		if err != nil {
			return fmt.Errorf("%s: %w", itemPath, err)
		}

		result.Items++
		if uid.Valid() {
			result.Changed++
		}
		opts.Status.SetCT(result.Items, 0)
		opts.Status.LogDebug("processed", "path", itemPath, "uid", uid.String())
		return nil
	})
	return result, err
}
