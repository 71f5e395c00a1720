//spellchecker:words cli
package cli

//spellchecker:words errors github mhdb internal mhindex status cobra
import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/mhdb"
	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/spf13/cobra"
)

var errNotFolderOrMessage = errors.New("neither a folder nor a message")

func newDumpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FOLDER|MESSAGE",
		Short: "Print the contents of an index",
		Long: `Print the raw contents of the index of FOLDER, or the uid of MESSAGE.

The index is read without locking it, and is never created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stage(status.StageDump, func() error {
				return a.dump(args[0])
			})
		},
	}
}

func (a *app) dump(itemPath string) (err error) {
	kind, err := mhdb.Classify(itemPath)
	if err != nil {
		return err
	}
	if kind == mhdb.KindOther {
		return fmt.Errorf("%s: %w", itemPath, errNotFolderOrMessage)
	}

	idx, err := mhindex.OpenPath(a.engine, itemPath, mhindex.NoLock, a.Options())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, idx.Close())
	}()

	if kind == mhdb.KindMessage {
		uid, err := idx.GetUID(itemPath)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.Stdout, "uid = %d\n", uid)
		return err
	}

	dump, err := idx.Dump()
	if err != nil {
		return err
	}
	a.status.SetCT(len(dump.Entries), 0)

	_, err = dump.WriteTo(a.Stdout)
	return err
}
