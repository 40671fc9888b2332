package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// PurchaseOptions holds flags for the purchase command.
type PurchaseOptions struct {
	*RootOptions
	As   string
	Seat string
	At   uint64
}

// NewPurchaseCommand creates the purchase command.
func NewPurchaseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurchaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purchase <event-id>",
		Short: "Buy one ticket at the current dynamic price",
		Long: `Buy a single ticket for an event.

The price is computed from the event's current availability, plus the
platform fee. The buyer is debited before the ticket is minted; a
rejected operation moves no money and mints nothing.

Exit codes:
  0 - Ticket purchased
  1 - Operation rejected (sold out, insufficient payment, ...)
  2 - Command error (bad arguments, database not found, ...)

Examples:
  boxoffice purchase 1 --as alice
  boxoffice purchase 1 --as alice --seat "B12" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchase(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "buyer account (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringVar(&opts.Seat, "seat", "", "free-form seat label")
	cmd.Flags().Uint64Var(&opts.At, "at", 0, "execute at this height instead of the stored height")

	return cmd
}

func runPurchase(opts *PurchaseOptions, eventArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	eventID, err := parseID(eventArg, "event id")
	if err != nil {
		return err
	}

	env, err := openEnv(ctx, opts.RootOptions, atOverride(cmd.Flags().Changed("at"), opts.At))
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.Engine.Purchase(ctx, opts.As, eventID, opts.Seat)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(res)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Purchased ticket %d for event %d\n", res.TicketID, res.EventID)
	fmt.Fprintf(w, "  Price:  %d\n", res.Price)
	fmt.Fprintf(w, "  Fee:    %d\n", res.Fee)
	fmt.Fprintf(w, "  Total:  %d\n", res.Total)
	fmt.Fprintf(w, "  Height: %d\n", res.Height)
	return nil
}

// parseID parses a positional numeric id argument. Parse failures are
// command errors, not domain rejections.
func parseID(arg, what string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", what, arg))
	}
	return id, nil
}
