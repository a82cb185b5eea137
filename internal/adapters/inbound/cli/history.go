package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/arclint/arclint/internal/adapters/outbound/history"
	"github.com/arclint/arclint/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show runs recorded with validate --record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			entries, err := history.New().Load(root)
			if err != nil {
				return errors.Wrap(err, "loading history")
			}

			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), entries)
			}
			tui.BindOutput(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")

	return cmd
}
