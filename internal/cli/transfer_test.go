package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

func TestTransferCommand(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "50", "100")
	fund(t, opts, "alice", "1000")
	buyTicket(t, opts, "alice")

	out, err := execute(t, NewTransferCommand(opts), "1", "--as", "alice", "--to", "bob")

	require.NoError(t, err, out)
	assert.Contains(t, out, "Transferred ticket 1 (event 1) to bob")

	out, err = execute(t, NewShowCommand(opts), "ticket", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Owner:           bob")
}

func TestTransferCommandNotOwner(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "50", "100")
	fund(t, opts, "alice", "1000")
	buyTicket(t, opts, "alice")

	out, err := execute(t, NewTransferCommand(opts), "1", "--as", "mallory", "--to", "eve")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ledger.CodeNotTicketOwner+"]")
}

func TestTransferCommandUnknownTicket(t *testing.T) {
	opts := testOptions(t)

	out, err := execute(t, NewTransferCommand(opts), "7", "--as", "alice", "--to", "bob")

	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ledger.CodeNotFound+"]")
}

// Transfer moves ownership only; the ticket keeps its recorded price and
// no money changes hands.
func TestTransferCommandNoPayment(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "50", "100")
	fund(t, opts, "alice", "1000")
	buyTicket(t, opts, "alice")

	_, err := execute(t, NewTransferCommand(opts), "1", "--as", "alice", "--to", "bob")
	require.NoError(t, err)

	out, err := execute(t, NewAccountCommand(opts), "balance", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance of alice: 895")
}

func TestTransferCommandChain(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "50", "100")
	fund(t, opts, "alice", "1000")
	buyTicket(t, opts, "alice")

	_, err := execute(t, NewTransferCommand(opts), "1", "--as", "alice", "--to", "bob")
	require.NoError(t, err)

	// The previous owner lost the right to move it on.
	out, err := execute(t, NewTransferCommand(opts), "1", "--as", "alice", "--to", "carol")
	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ledger.CodeNotTicketOwner+"]")

	out, err = execute(t, NewTransferCommand(opts), "1", "--as", "bob", "--to", "carol")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transferred ticket 1 (event 1) to carol")
}
