package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEventsCommand creates the events listing command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List all events",
		Long: `List every event on the ledger, ordered by id, with current
availability and unit price.

Examples:
  boxoffice events
  boxoffice events --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(rootOpts, cmd)
		},
	}
}

func runEvents(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	events, err := env.Engine.Events(ctx)
	if err != nil {
		return reportFailure(formatter, err)
	}

	views := make([]EventView, len(events))
	for i, ev := range events {
		views[i] = newEventView(ev)
	}

	if formatter.Format == "json" {
		return formatter.Success(views)
	}

	w := formatter.Writer
	if len(views) == 0 {
		fmt.Fprintln(w, "No events on the ledger.")
		return nil
	}

	fmt.Fprintf(w, "Events: %d\n\n", len(views))
	for _, v := range views {
		fmt.Fprintf(w, "[%d] %s\n", v.ID, v.Name)
		fmt.Fprintf(w, "    height %d  supply %d/%d  unit price %d  active %v\n",
			v.EventHeight, v.AvailableSupply, v.TotalSupply, v.UnitPrice, v.Active)
	}
	return nil
}
