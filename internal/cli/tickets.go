package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// TicketsOptions holds flags for the tickets command.
type TicketsOptions struct {
	*RootOptions
	Owner string
	Event uint64
}

// NewTicketsCommand creates the tickets listing command.
func NewTicketsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TicketsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List tickets by owner or event",
		Long: `List tickets held by an account or minted against an event.

Exactly one of --owner or --event must be given.

Examples:
  boxoffice tickets --owner alice
  boxoffice tickets --event 1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTickets(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "list tickets held by this account")
	cmd.Flags().Uint64Var(&opts.Event, "event", 0, "list tickets minted against this event")

	return cmd
}

func runTickets(opts *TicketsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	byOwner := cmd.Flags().Changed("owner")
	byEvent := cmd.Flags().Changed("event")
	if byOwner == byEvent {
		return NewExitError(ExitCommandError, "exactly one of --owner or --event is required")
	}

	env, err := openEnv(ctx, opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	var tickets []ledger.Ticket
	if byOwner {
		tickets, err = env.Engine.TicketsByOwner(ctx, opts.Owner)
	} else {
		tickets, err = env.Engine.TicketsByEvent(ctx, opts.Event)
	}
	if err != nil {
		return reportFailure(formatter, err)
	}

	views := make([]TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = newTicketView(t)
	}

	if formatter.Format == "json" {
		return formatter.Success(views)
	}

	w := formatter.Writer
	if len(views) == 0 {
		fmt.Fprintln(w, "No tickets.")
		return nil
	}

	fmt.Fprintf(w, "Tickets: %d\n\n", len(views))
	for _, v := range views {
		fmt.Fprintf(w, "[%d] event %d  owner %s  paid %d  height %d",
			v.ID, v.EventID, v.Owner, v.PricePaid, v.PurchaseHeight)
		if v.SeatInfo != "" {
			fmt.Fprintf(w, "  seat %s", v.SeatInfo)
		}
		fmt.Fprintln(w)
	}
	return nil
}
