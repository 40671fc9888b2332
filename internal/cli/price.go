package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PriceOptions holds flags for the price command.
type PriceOptions struct {
	*RootOptions
	Quantity      uint64
	GroupDiscount bool
	At            uint64
}

// NewPriceCommand creates the price command.
func NewPriceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PriceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "price <event-id>",
		Short: "Quote a purchase without buying",
		Long: `Quote what a purchase would cost right now.

The quote mirrors the purchase arithmetic exactly: same unit price off
the current availability, same discount tiers, same fee. Quoting moves
nothing, so the same quote repeats until someone buys.

Examples:
  boxoffice price 1
  boxoffice price 1 --quantity 5 --group-discount
  boxoffice price 1 --at 90`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Quantity, "quantity", 1, "number of tickets to quote")
	cmd.Flags().BoolVar(&opts.GroupDiscount, "group-discount", false, "apply the group discount tiers")
	cmd.Flags().Uint64Var(&opts.At, "at", 0, "quote at this height instead of the stored height")

	return cmd
}

func runPrice(opts *PriceOptions, eventArg string, cmd *cobra.Command) error {
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

	quote, err := env.Engine.PriceQuote(ctx, eventID, opts.Quantity, opts.GroupDiscount)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(quote)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Quote for event %d (quantity %d)\n", quote.EventID, quote.Quantity)
	fmt.Fprintf(w, "  Unit price:      %d\n", quote.UnitPrice)
	fmt.Fprintf(w, "  Discount:        %d%%\n", quote.DiscountRate)
	fmt.Fprintf(w, "  Discounted unit: %d\n", quote.DiscountedUnit)
	fmt.Fprintf(w, "  Subtotal:        %d\n", quote.Subtotal)
	fmt.Fprintf(w, "  Fee:             %d\n", quote.Fee)
	fmt.Fprintf(w, "  Total:           %d\n", quote.Total)
	fmt.Fprintf(w, "  Purchasable:     %v\n", quote.Purchasable)
	fmt.Fprintf(w, "  Height:          %d\n", quote.Height)
	return nil
}
