package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagedoor/boxoffice/internal/engine"
)

// CreateEventOptions holds flags for the create-event command.
type CreateEventOptions struct {
	*RootOptions
	As          string
	Name        string
	Description string
	Venue       string
	EventType   string
	Height      uint64
	Supply      uint64
	Price       uint64
	At          uint64
}

// NewCreateEventCommand creates the create-event command.
func NewCreateEventCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateEventOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-event",
		Short: "Create an event with a fixed ticket supply",
		Long: `Create an event on the ledger.

The event height must be strictly after the current height, and supply
and base price must be positive. The full supply is available from the
moment of creation.

Examples:
  boxoffice create-event --as promoter --name "Gala Night" --height 100 --supply 250 --price 1000
  boxoffice create-event --as promoter --name "Gala Night" --venue "Grand Hall" --type concert \
      --height 100 --supply 250 --price 1000 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateEvent(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "creator account (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringVar(&opts.Name, "name", "", "event name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.Description, "description", "", "event description")
	cmd.Flags().StringVar(&opts.Venue, "venue", "", "venue name")
	cmd.Flags().StringVar(&opts.EventType, "type", "", "event type (concert, theater, ...)")
	cmd.Flags().Uint64Var(&opts.Height, "height", 0, "logical height at which the event occurs (required)")
	_ = cmd.MarkFlagRequired("height")
	cmd.Flags().Uint64Var(&opts.Supply, "supply", 0, "total ticket supply (required)")
	_ = cmd.MarkFlagRequired("supply")
	cmd.Flags().Uint64Var(&opts.Price, "price", 0, "base ticket price (required)")
	_ = cmd.MarkFlagRequired("price")
	cmd.Flags().Uint64Var(&opts.At, "at", 0, "execute at this height instead of the stored height")

	return cmd
}

func runCreateEvent(opts *CreateEventOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts.RootOptions, atOverride(cmd.Flags().Changed("at"), opts.At))
	if err != nil {
		return err
	}
	defer env.Close()

	ev, err := env.Engine.CreateEvent(ctx, engine.CreateEventParams{
		Creator:     opts.As,
		Name:        opts.Name,
		Description: opts.Description,
		Venue:       opts.Venue,
		EventType:   opts.EventType,
		EventHeight: opts.Height,
		TotalSupply: opts.Supply,
		BasePrice:   opts.Price,
	})
	if err != nil {
		return reportFailure(formatter, err)
	}

	view := newEventView(ev)
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Created event %d: %s\n", view.ID, view.Name)
	writeEventDetail(w, view)
	return nil
}
