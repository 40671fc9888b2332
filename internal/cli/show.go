package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command with its event and ticket
// subcommands.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a single event or ticket",
	}

	cmd.AddCommand(newShowEventCommand(rootOpts))
	cmd.AddCommand(newShowTicketCommand(rootOpts))

	return cmd
}

func newShowEventCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event-id>",
		Short: "Show one event",
		Long: `Show an event's full state, including how much supply is left and the
current unit price.

Examples:
  boxoffice show event 1
  boxoffice show event 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowEvent(rootOpts, args[0], cmd)
		},
	}
}

func newShowTicketCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ticket <ticket-id>",
		Short: "Show one ticket",
		Long: `Show a ticket's full state: owner, price paid, purchase height, seat.

Examples:
  boxoffice show ticket 42
  boxoffice show ticket 42 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowTicket(rootOpts, args[0], cmd)
		},
	}
}

func runShowEvent(opts *RootOptions, eventArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	eventID, err := parseID(eventArg, "event id")
	if err != nil {
		return err
	}

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ev, err := env.Engine.Event(ctx, eventID)
	if err != nil {
		return reportFailure(formatter, err)
	}

	view := newEventView(ev)
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Event %d: %s\n", view.ID, view.Name)
	writeEventDetail(w, view)
	return nil
}

func runShowTicket(opts *RootOptions, ticketArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	ticketID, err := parseID(ticketArg, "ticket id")
	if err != nil {
		return err
	}

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	tk, err := env.Engine.Ticket(ctx, ticketID)
	if err != nil {
		return reportFailure(formatter, err)
	}

	view := newTicketView(tk)
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Ticket %d (event %d)\n", view.ID, view.EventID)
	writeTicketDetail(w, view)
	return nil
}
