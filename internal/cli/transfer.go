package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TransferOptions holds flags for the transfer command.
type TransferOptions struct {
	*RootOptions
	As string
	To string
	At uint64
}

// NewTransferCommand creates the transfer command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transfer <ticket-id>",
		Short: "Transfer a ticket to another account",
		Long: `Transfer ownership of a ticket.

The caller must currently own the ticket, and the ticket must be
transferable and unused. No payment moves and no fee accrues; the
ticket's price paid and purchase height are unchanged.

Examples:
  boxoffice transfer 42 --as alice --to carol`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "current owner account (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringVar(&opts.To, "to", "", "new owner account (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().Uint64Var(&opts.At, "at", 0, "execute at this height instead of the stored height")

	return cmd
}

func runTransfer(opts *TransferOptions, ticketArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	ticketID, err := parseID(ticketArg, "ticket id")
	if err != nil {
		return err
	}

	env, err := openEnv(ctx, opts.RootOptions, atOverride(cmd.Flags().Changed("at"), opts.At))
	if err != nil {
		return err
	}
	defer env.Close()

	tk, err := env.Engine.Transfer(ctx, opts.As, ticketID, opts.To)
	if err != nil {
		return reportFailure(formatter, err)
	}

	view := newTicketView(tk)
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Transferred ticket %d (event %d) to %s\n", view.ID, view.EventID, view.Owner)
	return nil
}
