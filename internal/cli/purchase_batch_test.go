package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

func TestPurchaseBatchCommand(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "100", "100")
	fund(t, opts, "alice", "10000")

	out, err := execute(t, NewPurchaseBatchCommand(opts), "1",
		"--as", "alice",
		"--quantity", "5",
		"--seats", "A-1,A-2,A-3,A-4,A-5",
		"--group-discount",
	)

	require.NoError(t, err, out)
	assert.Contains(t, out, "Purchased 5 tickets for event 1 (ids 1-5)")
	assert.Contains(t, out, "Unit price:      100")
	assert.Contains(t, out, "Discount:        10%")
	assert.Contains(t, out, "Discounted unit: 90")
	assert.Contains(t, out, "Subtotal:        450")
	assert.Contains(t, out, "Fee:             22")
	assert.Contains(t, out, "Total:           472")
}

func TestPurchaseBatchCommandWithoutSeats(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "100", "100")
	fund(t, opts, "alice", "10000")

	out, err := execute(t, NewPurchaseBatchCommand(opts), "1", "--as", "alice", "--quantity", "3")

	require.NoError(t, err, out)
	assert.Contains(t, out, "Purchased 3 tickets for event 1 (ids 1-3)")
}

// Without the opt-in flag a discount-sized batch still pays full price.
func TestPurchaseBatchCommandNoDiscountByDefault(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "100", "100")
	fund(t, opts, "alice", "10000")

	out, err := execute(t, NewPurchaseBatchCommand(opts), "1", "--as", "alice", "--quantity", "5")

	require.NoError(t, err, out)
	assert.Contains(t, out, "Discount:        0%")
	assert.Contains(t, out, "Subtotal:        500")
}

func TestPurchaseBatchCommandQuantityBounds(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "100", "100")
	fund(t, opts, "alice", "10000")

	for _, quantity := range []string{"0", "11"} {
		out, err := execute(t, NewPurchaseBatchCommand(opts), "1", "--as", "alice", "--quantity", quantity)
		require.Error(t, err, "quantity %s", quantity)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, "Error ["+ledger.CodeInvalidParameters+"]")
	}
}

func TestPurchaseBatchCommandSeatMismatch(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "100", "100")
	fund(t, opts, "alice", "10000")

	out, err := execute(t, NewPurchaseBatchCommand(opts), "1",
		"--as", "alice",
		"--quantity", "3",
		"--seats", "A-1",
	)

	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ledger.CodeInvalidParameters+"]")
}

// A batch that cannot be fully covered is refused whole; no partial
// mint, no money moved.
func TestPurchaseBatchCommandAtomic(t *testing.T) {
	opts := testOptions(t)
	createEvent(t, opts, "3", "100")
	fund(t, opts, "alice", "10000")

	out, err := execute(t, NewPurchaseBatchCommand(opts), "1", "--as", "alice", "--quantity", "5")
	require.Error(t, err)
	assert.Contains(t, out, "Error ["+ledger.CodeSoldOut+"]")

	out, err = execute(t, NewTicketsCommand(opts), "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "No tickets.")

	out, err = execute(t, NewAccountCommand(opts), "balance", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance of alice: 10000")
}
