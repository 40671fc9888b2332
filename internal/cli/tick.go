package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TickOptions holds flags for the tick command.
type TickOptions struct {
	*RootOptions
	By uint64
}

// TickResult is the JSON payload of a tick.
type TickResult struct {
	Height uint64 `json:"height"`
}

// NewTickCommand creates the tick command.
func NewTickCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TickOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Advance the stored logical height",
		Long: `Advance the ledger's logical height.

Height is the only notion of time here; nothing reads the wall clock.
Advancing past an event's height makes it unpurchasable.

Examples:
  boxoffice tick
  boxoffice tick --by 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTick(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.By, "by", 1, "number of heights to advance")

	return cmd
}

func runTick(opts *TickOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.By == 0 {
		return NewExitError(ExitCommandError, "--by must be at least 1")
	}

	env, err := openEnv(ctx, opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.Engine.Tick(ctx, opts.By)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(TickResult{Height: h})
	}

	fmt.Fprintf(formatter.Writer, "Height advanced to %d\n", h)
	return nil
}
