package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Audit the ledger for internal consistency",
		Long: `Recompute the ledger's counters, per-event supply and journal coverage
from first principles and compare against stored state.

A ledger written only through the engine always verifies clean; run
this after a restore or manual surgery.

Exit codes:
  0 - Ledger is consistent
  1 - Findings reported
  2 - Command error (database not found, etc.)

Examples:
  boxoffice verify
  boxoffice verify --db ./boxoffice.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd)
		},
	}
}

func runVerify(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.Engine.Audit(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "audit failed", err)
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: report}
		if !report.Consistent {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    "E_AUDIT",
				Message: fmt.Sprintf("%d finding(s)", len(report.Findings)),
			}
		}
		if err := encodeResponse(formatter, response); err != nil {
			return err
		}
		if !report.Consistent {
			return NewExitError(ExitFailure, "ledger audit failed")
		}
		return nil
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Audit: %d event(s), %d ticket(s), %d receipt(s)\n",
		report.Events, report.Tickets, report.Receipts)

	if report.Consistent {
		fmt.Fprintln(w, "✓ Ledger is consistent")
		return nil
	}

	fmt.Fprintf(w, "✗ %d finding(s):\n", len(report.Findings))
	for _, finding := range report.Findings {
		fmt.Fprintf(w, "  - %s\n", finding)
	}
	return NewExitError(ExitFailure, "ledger audit failed")
}
