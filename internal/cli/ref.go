//spellchecker:words cli
package cli

//spellchecker:words github mhdb internal mhindex status cobra
import (
	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/spf13/cobra"
)

func newRefCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ref SRC DST",
		Short: "Move the uid of a message to a new path",
		Long: `Move the uid mapping of the message at SRC to the message at DST.

Within a folder the message keeps its uid.
When DST is in a different folder, it is given a fresh uid in that folder.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stage(status.StageMove, func() error {
				uid, err := mhindex.Move(a.engine, args[0], args[1], a.Options())
				if err != nil {
					return err
				}
				a.status.Log("moved", "src", args[0], "dst", args[1], "uid", uid.String())
				return nil
			})
		},
	}
}
