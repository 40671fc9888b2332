package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagedoor/boxoffice/internal/catalog"
	"github.com/stagedoor/boxoffice/internal/engine"
	"github.com/stagedoor/boxoffice/internal/ledger"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	As     string
	DryRun bool
	At     uint64
}

// SeedResult is the JSON payload of a seed run.
type SeedResult struct {
	Seeded int         `json:"seeded"`
	DryRun bool        `json:"dry_run,omitempty"`
	Events []EventView `json:"events,omitempty"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <catalog-dir>",
		Short: "Create events from a CUE catalog",
		Long: `Compile a CUE event catalog and create each entry on the ledger.

Catalog files declare events under catalog.events. Entries are created
in declaration order, each as its own atomic operation: the first entry
the engine rejects aborts the remainder, and the command reports which
one failed. Already-created entries stay.

With --dry-run the catalog is compiled and validated but nothing is
created.

Examples:
  boxoffice seed ./catalog --as promoter
  boxoffice seed ./catalog --dry-run
  boxoffice seed ./catalog --as promoter --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "creator account for every entry (required unless --dry-run)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "compile and validate the catalog without creating anything")
	cmd.Flags().Uint64Var(&opts.At, "at", 0, "execute at this height instead of the stored height")

	return cmd
}

func runSeed(opts *SeedOptions, catalogDir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.RootOptions.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if !opts.DryRun && opts.As == "" {
		return NewExitError(ExitCommandError, "--as is required to seed (or use --dry-run)")
	}

	defs, err := catalog.Load(catalogDir)
	if err != nil {
		return reportCatalogError(formatter, err)
	}
	formatter.VerboseLog("Catalog %s: %d event definition(s)", catalogDir, len(defs))

	if opts.DryRun {
		if formatter.Format == "json" {
			return formatter.Success(SeedResult{Seeded: 0, DryRun: true})
		}
		fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d event definition(s)\n", len(defs))
		for _, def := range defs {
			fmt.Fprintf(formatter.Writer, "  %s (height %d, supply %d, base %d)\n",
				def.Name, def.EventHeight, def.TotalTickets, def.BasePrice)
		}
		return nil
	}

	env, err := openEnv(ctx, opts.RootOptions, atOverride(cmd.Flags().Changed("at"), opts.At))
	if err != nil {
		return err
	}
	defer env.Close()

	created := make([]EventView, 0, len(defs))
	for i, def := range defs {
		ev, err := env.Engine.CreateEvent(ctx, engine.CreateEventParams{
			Creator:     opts.As,
			Name:        def.Name,
			Description: def.Description,
			Venue:       def.Venue,
			EventType:   def.EventType,
			EventHeight: def.EventHeight,
			TotalSupply: def.TotalTickets,
			BasePrice:   def.BasePrice,
		})
		if err != nil {
			code := errorCode(err)
			msg := fmt.Sprintf("entry %d (%s): %v", i, def.Name, err)
			_ = formatter.Error(code, msg, map[string]interface{}{
				"entry":   i,
				"name":    def.Name,
				"created": len(created),
			})
			return NewExitError(ExitFailure, fmt.Sprintf("seed aborted at entry %d: %s", i, code))
		}
		created = append(created, newEventView(ev))
	}

	if formatter.Format == "json" {
		return formatter.Success(SeedResult{Seeded: len(created), Events: created})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Seeded %d event(s) from %s\n\n", len(created), catalogDir)
	for _, v := range created {
		fmt.Fprintf(w, "[%d] %s (height %d, supply %d, base %d)\n",
			v.ID, v.Name, v.EventHeight, v.TotalSupply, v.BasePrice)
	}
	return nil
}

// reportCatalogError renders a catalog load failure with its source position
// when CUE provides one. Catalog problems are command errors: nothing was
// attempted against the ledger.
func reportCatalogError(formatter *OutputFormatter, err error) error {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		if formatter.Format != "json" && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		_ = formatter.Error(ledger.CodeInvalidParameters, loadErr.Error(), nil)
		return WrapExitError(ExitCommandError, "catalog rejected", err)
	}
	_ = formatter.Error(ledger.CodeInternal, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load catalog", err)
}
