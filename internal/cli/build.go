//spellchecker:words cli
package cli

//spellchecker:words errors github mhdb internal mhindex status dustin humanize cobra
import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/mhdb"
	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var errNotAFolder = errors.New("not a folder")

func newBuildCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build FOLDER",
		Short: "Rebuild the index of a folder",
		Long: `Throw away the index of FOLDER and build a new one from its messages.

Messages are assigned uids starting at 1, in ascending order of their message numbers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]

			ok, err := mhdb.IsFolder(folder)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", folder, errNotAFolder)
			}

			return a.stage(status.StageBuild, func() error {
				count, err := mhindex.Rebuild(a.engine, folder, a.Options())
				if err != nil {
					return err
				}
				a.status.Log("built index", "folder", folder, "uids", humanize.Comma(int64(count)))
				return nil
			})
		},
	}
}
