package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arclint",
		Short: "Validate actions-runner-controller manifests",
		Long: "arclint validates the ARC runner manifests of a repository before they are applied: " +
			"YAML syntax, required structure, security posture and conventions. " +
			"Exit code 0 means safe to deploy, 1 means invalid files, 2 means the run could not complete.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. Errors that were not already reported through the
// rendered output are printed to stderr; use ExitCode to map the returned
// error to the process exit status.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && !isSilent(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
