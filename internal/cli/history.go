package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Actor string
	Kind  string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the receipts journal",
		Long: `Show the journal of committed mutations, oldest first.

Every committed operation leaves exactly one receipt; failed operations
leave none, so the journal is a faithful replay record of the ledger.

Examples:
  boxoffice history
  boxoffice history --actor alice
  boxoffice history --kind ticket_purchased --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "filter by caller account")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter by receipt kind (event_created, ticket_purchased, batch_purchased, ticket_transferred)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries to return (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	receipts, err := env.Engine.History(ctx, opts.Actor, opts.Kind, opts.Limit)
	if err != nil {
		return reportFailure(formatter, err)
	}

	views := make([]ReceiptView, len(receipts))
	for i, r := range receipts {
		views[i] = newReceiptView(r)
	}

	if formatter.Format == "json" {
		return formatter.Success(views)
	}

	w := formatter.Writer
	if len(views) == 0 {
		fmt.Fprintln(w, "No receipts.")
		return nil
	}

	fmt.Fprintf(w, "Receipts: %d\n\n", len(views))
	for _, v := range views {
		fmt.Fprintf(w, "[%d] %s  height %d  actor %s", v.ID, v.Kind, v.Height, v.Actor)
		if v.EventID != 0 {
			fmt.Fprintf(w, "  event %d", v.EventID)
		}
		if v.TicketID != 0 {
			fmt.Fprintf(w, "  ticket %d", v.TicketID)
		}
		if v.Quantity != 0 {
			fmt.Fprintf(w, "  qty %d", v.Quantity)
		}
		if v.Amount != 0 {
			fmt.Fprintf(w, "  amount %d", v.Amount)
		}
		if v.Fee != 0 {
			fmt.Fprintf(w, "  fee %d", v.Fee)
		}
		fmt.Fprintln(w)
		if formatter.Verbose {
			fmt.Fprintf(w, "    token %s\n", v.Token)
		}
	}
	return nil
}
