package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arclint/arclint/internal/adapters/outbound/config"
	"github.com/arclint/arclint/internal/adapters/outbound/tui"
	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the validation rules",
		Long:  "List the rules that validate would run for path (default: current directory), honoring disabled_rules from .arclint.yaml.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			cfg, err := config.New().Load(root)
			if err != nil {
				return exitWith(err, domain.ExitEnvironment)
			}
			infos := rules.Default(cfg).Describe()

			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), infos)
			}
			tui.BindOutput(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(infos))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules as JSON")

	return cmd
}
