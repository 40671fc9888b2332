package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

func TestPurchase_Basic(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 2000)

	res, err := env.engine.Purchase(ctx, "alice", ev.ID, "A1")
	require.NoError(t, err)

	// Nothing sold yet, so the price is exactly the base price.
	assert.Equal(t, uint64(1000), res.Price)
	assert.Equal(t, uint64(50), res.Fee)
	assert.Equal(t, uint64(1050), res.Total)
	assert.Equal(t, uint64(1), res.TicketID)

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), stored.AvailableSupply)

	tk, err := env.engine.Ticket(ctx, res.TicketID)
	require.NoError(t, err)
	assert.Equal(t, "alice", tk.Owner)
	assert.Equal(t, uint64(1000), tk.PricePaid)
	assert.Equal(t, "A1", tk.SeatInfo)
	assert.True(t, tk.Transferable)
	assert.False(t, tk.Used)

	// Money moved: buyer down by the total, treasury up by it.
	assert.Equal(t, uint64(950), env.bank.balances["alice"])
	assert.Equal(t, uint64(1050), env.bank.balances["treasury"])

	stats, err := env.engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), stats.PlatformRevenue)

	receipts, err := env.engine.History(ctx, "alice", "", 0)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, ledger.ReceiptTicketPurchased, receipts[0].Kind)
	assert.Equal(t, uint64(1), receipts[0].Quantity)
	assert.Equal(t, uint64(1050), receipts[0].Amount)
	assert.Equal(t, uint64(50), receipts[0].Fee)
}

func TestPurchase_PriceRisesWithDemand(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 4, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 10_000)

	first, err := env.engine.Purchase(ctx, "alice", ev.ID, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), first.Price)

	// One of four sold: multiplier 25, uplift 1000*25/200 = 125.
	second, err := env.engine.Purchase(ctx, "alice", ev.ID, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1125), second.Price)

	tk, err := env.engine.Ticket(ctx, second.TicketID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1125), tk.PricePaid, "ticket records the price actually paid")
}

func TestPurchase_EventNotFound(t *testing.T) {
	env := setupTestEngine(t)
	env.bank.fund("alice", 1000)

	_, err := env.engine.Purchase(context.Background(), "alice", 42, "")
	assert.ErrorIs(t, err, ledger.ErrEventNotFound)
}

func TestPurchase_PastEventNotActive(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	p := futureEvent("Soon", 10, 100)
	p.EventHeight = 5
	ev, err := env.engine.CreateEvent(ctx, p)
	require.NoError(t, err)
	env.bank.fund("alice", 1000)

	// Height reaches the event: it is no longer purchasable.
	_, err = env.engine.Tick(ctx, 5)
	require.NoError(t, err)

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	assert.ErrorIs(t, err, ledger.ErrEventNotActive)

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), stored.AvailableSupply, "failed purchase mutates nothing")
	assert.Equal(t, uint64(1000), env.bank.balances["alice"])
}

func TestPurchase_EleventhTicketSoldOut(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Small Venue", 10, 100))
	require.NoError(t, err)
	env.bank.fund("alice", 10_000)

	for i := 0; i < 10; i++ {
		_, err := env.engine.Purchase(ctx, "alice", ev.ID, "")
		require.NoError(t, err, "purchase %d", i+1)
	}

	statsBefore, err := env.engine.Stats(ctx)
	require.NoError(t, err)
	balanceBefore := env.bank.balances["alice"]

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	assert.ErrorIs(t, err, ledger.ErrSoldOut)

	// The failed attempt left every scalar and balance untouched.
	statsAfter, err := env.engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
	assert.Equal(t, balanceBefore, env.bank.balances["alice"])

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stored.AvailableSupply)
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 1049) // total is 1050

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	assert.ErrorIs(t, err, ledger.ErrInsufficientPayment)

	assert.Equal(t, uint64(1049), env.bank.balances["alice"])
	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stored.AvailableSupply)
}

func TestPurchase_UnknownBuyer(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)

	_, err = env.engine.Purchase(ctx, "stranger", ev.ID, "")
	assert.ErrorIs(t, err, ledger.ErrInsufficientPayment)
}

func TestPurchase_PaymentFailureAborts(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 2000)
	env.bank.transferErr = errors.New("bank offline")

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	assert.ErrorIs(t, err, ledger.ErrPaymentFailed)

	// Hard abort: no ticket minted, no supply change, no receipt.
	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stored.AvailableSupply)

	receipts, err := env.engine.History(ctx, "alice", "", 0)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestPurchase_RefundOnFailedLedgerWrite(t *testing.T) {
	// Two purchases share one receipt token; the second one's journal
	// insert violates the unique index, rolling back its ledger write
	// after the debit already happened. The engine must refund.
	env := setupTestEngine(t, WithReceiptTokens(NewFixedGenerator("evt", "dup", "dup")))
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 10_000)

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	require.NoError(t, err)
	balanceAfterFirst := env.bank.balances["alice"]
	treasuryAfterFirst := env.bank.balances["treasury"]

	_, err = env.engine.Purchase(ctx, "alice", ev.ID, "")
	require.Error(t, err)

	assert.Equal(t, balanceAfterFirst, env.bank.balances["alice"], "debit was refunded")
	assert.Equal(t, treasuryAfterFirst, env.bank.balances["treasury"])

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), stored.AvailableSupply, "only the first purchase committed")

	stats, err := env.engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TicketsSold)
}

func TestPurchase_InvalidParams(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	_, err := env.engine.Purchase(ctx, "", 1, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidParams)

	_, err = env.engine.Purchase(ctx, "alice", 1, strings.Repeat("x", ledger.MaxSeatInfoLen+1))
	assert.ErrorIs(t, err, ledger.ErrInvalidParams)
}

func TestPurchaseEligibility(t *testing.T) {
	base := ledger.Event{
		EventHeight:     100,
		TotalSupply:     10,
		AvailableSupply: 10,
		Active:          true,
	}

	tests := []struct {
		name     string
		mutate   func(*ledger.Event)
		now      uint64
		quantity uint64
		want     error
	}{
		{"purchasable", nil, 50, 1, nil},
		{"inactive", func(e *ledger.Event) { e.Active = false }, 50, 1, ledger.ErrEventNotActive},
		{"at event height", nil, 100, 1, ledger.ErrEventNotActive},
		{"past event height", nil, 150, 1, ledger.ErrEventNotActive},
		{"zero supply", func(e *ledger.Event) { e.AvailableSupply = 0 }, 50, 1, ledger.ErrSoldOut},
		{"short supply for batch", func(e *ledger.Event) { e.AvailableSupply = 3 }, 50, 5, ledger.ErrSoldOut},
		{"exact supply for batch", func(e *ledger.Event) { e.AvailableSupply = 5 }, 50, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := base
			if tt.mutate != nil {
				tt.mutate(&ev)
			}
			err := purchaseEligibility(ev, tt.now, tt.quantity)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestPurchaseBatch_GroupDiscount(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 10_000)

	res, err := env.engine.PurchaseBatch(ctx, "alice", ev.ID, 10, seats(10), true)
	require.NoError(t, err)

	// Full batch of ten at unit price 1000: 15% off.
	assert.Equal(t, uint64(1000), res.UnitPrice)
	assert.Equal(t, uint64(15), res.DiscountRate)
	assert.Equal(t, uint64(850), res.DiscountedUnit)
	assert.Equal(t, uint64(8500), res.Subtotal)
	assert.Equal(t, uint64(425), res.Fee)
	assert.Equal(t, uint64(8925), res.Total)
	assert.Equal(t, uint64(1), res.FirstTicketID)
	assert.Equal(t, uint64(10), res.Quantity)

	assert.Equal(t, uint64(10_000-8925), env.bank.balances["alice"])

	tickets, err := env.engine.TicketsByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tickets, 10)
	for i, tk := range tickets {
		assert.Equal(t, res.FirstTicketID+uint64(i), tk.ID, "strictly consecutive ids")
		assert.Equal(t, uint64(850), tk.PricePaid)
		assert.Equal(t, seats(10)[i], tk.SeatInfo)
	}

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), stored.AvailableSupply)

	stats, err := env.engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(425), stats.PlatformRevenue)
}

func TestPurchaseBatch_MediumGroupDiscount(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 10_000)

	res, err := env.engine.PurchaseBatch(ctx, "alice", ev.ID, 5, seats(5), true)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), res.DiscountRate)
	assert.Equal(t, uint64(900), res.DiscountedUnit)
	assert.Equal(t, uint64(4500), res.Subtotal)
}

func TestPurchaseBatch_NoDiscountWithoutOptIn(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 20_000)

	res, err := env.engine.PurchaseBatch(ctx, "alice", ev.ID, 10, seats(10), false)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), res.DiscountRate)
	assert.Equal(t, uint64(1000), res.DiscountedUnit)
	assert.Equal(t, uint64(10_000), res.Subtotal)
}

func TestPurchaseBatch_FirstIDFollowsEarlierMints(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 20_000)

	single, err := env.engine.Purchase(ctx, "alice", ev.ID, "")
	require.NoError(t, err)
	require.Equal(t, uint64(1), single.TicketID)

	// The batch's first id is the pre-batch next id, not the counter
	// value after minting.
	res, err := env.engine.PurchaseBatch(ctx, "alice", ev.ID, 3, seats(3), false)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.FirstTicketID)

	tickets, err := env.engine.TicketsByEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 4)
	for i, tk := range tickets {
		assert.Equal(t, uint64(i+1), tk.ID)
	}
}

func TestPurchaseBatch_InvalidQuantity(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 100_000)

	_, err = env.engine.PurchaseBatch(ctx, "alice", ev.ID, 0, nil, false)
	assert.ErrorIs(t, err, ledger.ErrInvalidParams)

	_, err = env.engine.PurchaseBatch(ctx, "alice", ev.ID, 11, seats(11), false)
	assert.ErrorIs(t, err, ledger.ErrInvalidParams, "hard cap is independent of availability")

	_, err = env.engine.PurchaseBatch(ctx, "alice", ev.ID, 3, seats(2), false)
	assert.ErrorIs(t, err, ledger.ErrInvalidParams, "seat list length must match quantity")
}

func TestPurchaseBatch_InsufficientSupply(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Tiny", 3, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 100_000)

	_, err = env.engine.PurchaseBatch(ctx, "alice", ev.ID, 5, seats(5), false)
	assert.ErrorIs(t, err, ledger.ErrSoldOut)

	stored, err := env.engine.Event(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stored.AvailableSupply)
	assert.Equal(t, uint64(100_000), env.bank.balances["alice"])
}

func TestPurchaseBatch_ExactFunds(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	ev, err := env.engine.CreateEvent(ctx, futureEvent("Concert", 100, 1000))
	require.NoError(t, err)
	env.bank.fund("alice", 8925)

	_, err = env.engine.PurchaseBatch(ctx, "alice", ev.ID, 10, seats(10), true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), env.bank.balances["alice"])
}
