//spellchecker:words cli
package cli

//spellchecker:words github mhdb internal batch status progress dustin humanize cobra
import (
	"github.com/FAU-CDI/mhdb/internal/batch"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/FAU-CDI/mhdb/pkg/progress"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add PATH|- ...",
		Short: "Assign fresh uids to messages",
		Long: `Assign a fresh uid to every given message.

Messages are given as paths, or read one per line from standard input when a path is '-'.
Assigning a uid to a message that already has one is an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(status.StageAdd, args, batch.Add)
		},
	}
}

func newDelCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "del PATH|- ...",
		Short: "Remove the uids of messages",
		Long: `Remove the uid of every given message.

Messages are given as paths, or read one per line from standard input when a path is '-'.
Messages without a uid are ignored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(status.StageDelete, args, batch.Delete)
		},
	}
}

// runBatch runs op on the items named by sources as a single stage.
func (a *app) runBatch(stage status.Stage, sources []string, op batch.Op) error {
	return a.stage(stage, func() error {
		// paths read from stdin report to the same line as the stage
		stdin := a.Stdin
		if a.status != nil && a.status.Rewritable != nil {
			stdin = &progress.Reader{Reader: stdin, Rewritable: a.status.Rewritable}
		}

		result, err := batch.Run(a.engine, a.Options(), sources, stdin, op)
		if err != nil {
			return err
		}

		a.status.Log(string(stage), "items", humanize.Comma(int64(result.Items)), "uids", humanize.Comma(int64(result.Changed)))
		return nil
	})
}
