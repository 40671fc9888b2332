package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// testOptions points the root options at fresh databases in a temp dir.
// No config file exists at the path, so the built-in defaults apply and
// the database overrides land on the temp files.
func testOptions(t *testing.T) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		ConfigPath: filepath.Join(dir, "boxoffice.yaml"),
		Database:   filepath.Join(dir, "ledger.db"),
		BankDB:     filepath.Join(dir, "vault.db"),
		Format:     "text",
	}
}

// execute runs one command with the given args and returns everything it
// wrote to stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// createEvent creates a standard event at height 100.
func createEvent(t *testing.T, opts *RootOptions, supply, price string) {
	t.Helper()
	out, err := execute(t, NewCreateEventCommand(opts),
		"--as", "organizer",
		"--name", "Launch Night",
		"--venue", "Main Hall",
		"--height", "100",
		"--supply", supply,
		"--price", price,
	)
	require.NoError(t, err, out)
}

// fund deposits into the vault through the account command.
func fund(t *testing.T, opts *RootOptions, account, amount string) {
	t.Helper()
	out, err := execute(t, NewAccountCommand(opts), "fund", account, amount)
	require.NoError(t, err, out)
}

// buyTicket purchases one ticket for the buyer on event 1.
func buyTicket(t *testing.T, opts *RootOptions, buyer string) {
	t.Helper()
	out, err := execute(t, NewPurchaseCommand(opts), "1", "--as", buyer)
	require.NoError(t, err, out)
}
