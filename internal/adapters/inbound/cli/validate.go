package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arclint/arclint/internal/adapters/outbound/config"
	"github.com/arclint/arclint/internal/adapters/outbound/fixer"
	"github.com/arclint/arclint/internal/adapters/outbound/gitinfo"
	"github.com/arclint/arclint/internal/adapters/outbound/history"
	"github.com/arclint/arclint/internal/adapters/outbound/loader"
	"github.com/arclint/arclint/internal/adapters/outbound/scanner"
	"github.com/arclint/arclint/internal/adapters/outbound/tui"
	"github.com/arclint/arclint/internal/application"
	"github.com/arclint/arclint/internal/domain"
	"github.com/arclint/arclint/internal/logging"
)

// newFlagViper binds a command's flags to ARCLINT_* environment variables.
// Dashes in flag names become underscores: --dry-run reads ARCLINT_DRY_RUN.
func newFlagViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ARCLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(cmd.Flags())
	return v
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate the manifests under a directory",
		Long: "Discover every .yaml/.yml file under path (default: current directory), validate it " +
			"against the rule catalog and print a report. Exit code 0: valid (warnings allowed), " +
			"1: invalid files, 2: environment failure.",
		Args: cobra.MaximumNArgs(1),
	}

	cmd.Flags().Bool("fix", false, "Apply auto-fixes (trailing whitespace) in place")
	cmd.Flags().Bool("dry-run", false, "With --fix, report the fixes without writing files")
	cmd.Flags().BoolP("verbose", "v", false, "Narrate per-file progress")
	cmd.Flags().String("format", "text", "Report format: text or json")
	cmd.Flags().Int("jobs", 1, "Number of files validated concurrently")
	cmd.Flags().String("log-format", "text", "Narration format: text or json")
	cmd.Flags().Bool("record", false, "Append a summary of this run to .arclint/history")

	v := newFlagViper(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		format := strings.ToLower(v.GetString("format"))
		if format != "text" && format != "json" {
			return exitWith(errors.Newf("unknown format %q (want text or json)", format), domain.ExitEnvironment)
		}
		logFormat, err := logging.ParseFormat(v.GetString("log-format"))
		if err != nil {
			return exitWith(err, domain.ExitEnvironment)
		}

		// JSON reports own stdout, so narration moves to stderr.
		var narration io.Writer = cmd.OutOrStdout()
		if format == "json" {
			narration = cmd.ErrOrStderr()
		}
		logger := logging.New(logging.Config{Level: slog.LevelInfo, Format: logFormat, Output: narration})

		svc := application.NewValidateService(
			scanner.New(),
			loader.New(),
			config.New(),
			fixer.New(),
			gitinfo.New(),
			logger,
		)

		verbose := v.GetBool("verbose")
		report := svc.Run(root, domain.ValidateOptions{
			Fix:     domain.FixOptions{Enabled: v.GetBool("fix"), DryRun: v.GetBool("dry-run")},
			Verbose: verbose,
			Jobs:    v.GetInt("jobs"),
		})

		if v.GetBool("record") && !report.Aborted {
			if err := history.New().Save(root, domain.EntryFor(report, time.Now())); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: run not recorded: %v\n", err)
			}
		}

		code := report.ExitCode()
		switch format {
		case "json":
			if err := renderJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		default:
			var text string
			tui.BindOutput(cmd.OutOrStdout())
			text, code = tui.Render(report, tui.RenderOptions{Verbose: verbose})
			fmt.Fprint(cmd.OutOrStdout(), text)
		}

		if code != domain.ExitOK {
			return exitWith(nil, code)
		}
		return nil
	}

	return cmd
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
