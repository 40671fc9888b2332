package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger-wide statistics",
		Long: `Show the ledger-wide scalars: event and ticket counts, accrued
platform revenue, the current height, and the treasury account.

Examples:
  boxoffice stats
  boxoffice stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.Engine.Stats(ctx)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}

	w := formatter.Writer
	fmt.Fprintln(w, "Ledger statistics")
	fmt.Fprintf(w, "  Events:           %d\n", stats.Events)
	fmt.Fprintf(w, "  Tickets sold:     %d\n", stats.TicketsSold)
	fmt.Fprintf(w, "  Platform revenue: %d\n", stats.PlatformRevenue)
	fmt.Fprintf(w, "  Height:           %d\n", stats.Height)
	fmt.Fprintf(w, "  Treasury:         %s\n", stats.Treasury)
	return nil
}
