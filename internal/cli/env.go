package cli

import (
	"context"
	"log/slog"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/clock"
	"github.com/stagedoor/boxoffice/internal/config"
	"github.com/stagedoor/boxoffice/internal/engine"
	"github.com/stagedoor/boxoffice/internal/store"
)

// Env bundles the open handles behind a single command invocation: the
// resolved configuration, both databases, and an engine wired to them.
type Env struct {
	Config config.Config
	Store  *store.Store
	Vault  *bank.Vault
	Engine *engine.Engine
	Clock  clock.Source
}

// Close releases both databases. Close errors are logged, not returned;
// by the time a command closes its env the interesting result is already
// decided.
func (e *Env) Close() {
	if err := e.Vault.Close(); err != nil {
		slog.Error("error closing bank vault", "error", err)
	}
	if err := e.Store.Close(); err != nil {
		slog.Error("error closing ledger database", "error", err)
	}
}

// openEnv resolves configuration and opens the ledger and vault for a
// one-shot command. The engine sees a fixed height: the --at override when
// given, otherwise the stored height scalar.
func openEnv(ctx context.Context, opts *RootOptions, at *uint64) (*Env, error) {
	return open(ctx, opts, at, func(h uint64) clock.Source {
		return clock.Fixed(h)
	})
}

// openServeEnv opens the same handles for the long-running server, with a
// manual clock starting at the stored height. Tick moves the clock along
// with the stored scalar, so later requests see the new height without a
// restart.
func openServeEnv(ctx context.Context, opts *RootOptions) (*Env, error) {
	return open(ctx, opts, nil, func(h uint64) clock.Source {
		return clock.NewManual(h)
	})
}

func open(ctx context.Context, opts *RootOptions, at *uint64, mkClock func(uint64) clock.Source) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.LedgerDB = opts.Database
	}
	if opts.BankDB != "" {
		cfg.BankDB = opts.BankDB
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	st, err := store.Open(cfg.LedgerDB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}
	vault, err := bank.Open(cfg.BankDB)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open bank vault", err)
	}

	height := uint64(0)
	if at != nil {
		height = *at
	} else {
		height, err = st.Height(ctx)
		if err != nil {
			vault.Close()
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to read ledger height", err)
		}
	}
	clk := mkClock(height)

	eng, err := engine.New(st, vault, clk, cfg.Treasury)
	if err != nil {
		vault.Close()
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to build engine", err)
	}

	return &Env{
		Config: cfg,
		Store:  st,
		Vault:  vault,
		Engine: eng,
		Clock:  clk,
	}, nil
}

// atOverride reads a --at height flag, distinguishing "not given" from an
// explicit zero.
func atOverride(changed bool, at uint64) *uint64 {
	if !changed {
		return nil
	}
	return &at
}
