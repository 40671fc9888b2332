package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AccountResult is the JSON payload of account subcommands.
type AccountResult struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

// NewAccountCommand creates the account command with its fund and balance
// subcommands. These talk to the demo vault directly; the ledger is not
// involved.
func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Fund and inspect vault accounts",
	}

	cmd.AddCommand(newAccountFundCommand(rootOpts))
	cmd.AddCommand(newAccountBalanceCommand(rootOpts))

	return cmd
}

func newAccountFundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fund <account> <amount>",
		Short: "Credit an account in the vault",
		Long: `Credit an account, creating it on first funding.

Funding is the only way money enters the vault; purchases merely move
it between accounts.

Examples:
  boxoffice account fund alice 500`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountFund(rootOpts, args[0], args[1], cmd)
		},
	}
}

func newAccountBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's balance",
		Long: `Show the vault balance of an account. An account the vault has never
seen is reported as not found, not as zero.

Examples:
  boxoffice account balance alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountBalance(rootOpts, args[0], cmd)
		},
	}
}

func runAccountFund(opts *RootOptions, account, amountArg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	amount, err := parseID(amountArg, "amount")
	if err != nil {
		return err
	}

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Vault.Deposit(ctx, account, amount); err != nil {
		return reportFailure(formatter, err)
	}
	balance, err := env.Vault.Balance(ctx, account)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(AccountResult{Account: account, Balance: balance})
	}

	fmt.Fprintf(formatter.Writer, "Funded %s with %d (balance %d)\n", account, amount, balance)
	return nil
}

func runAccountBalance(opts *RootOptions, account string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openEnv(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	balance, err := env.Vault.Balance(ctx, account)
	if err != nil {
		return reportFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(AccountResult{Account: account, Balance: balance})
	}

	fmt.Fprintf(formatter.Writer, "Balance of %s: %d\n", account, balance)
	return nil
}
