package engine

import (
	"context"
	"fmt"

	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/pricing"
	"github.com/stagedoor/boxoffice/internal/store"
)

// Read operations go straight to the store without the engine mutex.
// Each one is a single query over the store's single connection, so it
// sees either the state before a concurrent mutation or after it, never
// a partial write.

// Event returns one event by id.
func (e *Engine) Event(ctx context.Context, id uint64) (ledger.Event, error) {
	return e.store.Event(ctx, id)
}

// Events returns all events ordered by id.
func (e *Engine) Events(ctx context.Context) ([]ledger.Event, error) {
	return e.store.Events(ctx)
}

// Ticket returns one ticket by id.
func (e *Engine) Ticket(ctx context.Context, id uint64) (ledger.Ticket, error) {
	return e.store.Ticket(ctx, id)
}

// TicketsByOwner returns the tickets held by an account, ordered by id.
func (e *Engine) TicketsByOwner(ctx context.Context, owner string) ([]ledger.Ticket, error) {
	return e.store.TicketsByOwner(ctx, ledger.Normalize(owner))
}

// TicketsByEvent returns the tickets minted against an event, ordered by id.
func (e *Engine) TicketsByEvent(ctx context.Context, eventID uint64) ([]ledger.Ticket, error) {
	return e.store.TicketsByEvent(ctx, eventID)
}

// Quote prices a prospective purchase without mutating anything. It is a
// pure function of current event state: quoting twice without an
// intervening purchase returns identical numbers.
type Quote struct {
	EventID        uint64 `json:"event_id"`
	Quantity       uint64 `json:"quantity"`
	UnitPrice      uint64 `json:"unit_price"`
	DiscountRate   uint64 `json:"discount_rate"`
	DiscountedUnit uint64 `json:"discounted_unit"`
	Subtotal       uint64 `json:"subtotal"`
	Fee            uint64 `json:"fee"`
	Total          uint64 `json:"total"`
	Purchasable    bool   `json:"purchasable"`
	Height         uint64 `json:"height"`
}

// PriceQuote computes what a purchase of the given quantity would cost
// right now, mirroring the purchase arithmetic exactly. Purchasable
// reports whether the purchase would pass eligibility at the current
// height; funds are not checked.
func (e *Engine) PriceQuote(ctx context.Context, eventID uint64, quantity uint64, applyGroupDiscount bool) (Quote, error) {
	if quantity < 1 || quantity > MaxBatchQuantity {
		return Quote{}, fmt.Errorf("quote: quantity %d outside [1, %d]: %w",
			quantity, MaxBatchQuantity, ledger.ErrInvalidParams)
	}

	ev, err := e.store.Event(ctx, eventID)
	if err != nil {
		return Quote{}, fmt.Errorf("quote: %w", err)
	}
	if ev.TotalSupply == 0 {
		return Quote{}, fmt.Errorf("quote event %d: %w", eventID, ledger.ErrCorruptEvent)
	}

	now := e.clock.Height()
	unitPrice := pricing.Price(ev.TotalSupply, ev.AvailableSupply, ev.BasePrice)
	rate := pricing.DiscountRate(quantity, applyGroupDiscount)
	discounted := pricing.Discounted(unitPrice, rate)
	subtotal := discounted * quantity
	fee := pricing.PlatformFee(subtotal)

	return Quote{
		EventID:        eventID,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountRate:   rate,
		DiscountedUnit: discounted,
		Subtotal:       subtotal,
		Fee:            fee,
		Total:          subtotal + fee,
		Purchasable:    purchaseEligibility(ev, now, quantity) == nil,
		Height:         now,
	}, nil
}

// Stats summarizes the ledger-wide scalars.
type Stats struct {
	Events          uint64 `json:"events"`
	TicketsSold     uint64 `json:"tickets_sold"`
	PlatformRevenue uint64 `json:"platform_revenue"`
	Height          uint64 `json:"height"`
	Treasury        string `json:"treasury"`
}

// Stats reads the counters row. Event and ticket counts are derived from
// the id allocators: ids are dense and never reused, so count is always
// next id minus one.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	c, err := e.store.Counters(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return Stats{
		Events:          c.NextEventID - 1,
		TicketsSold:     c.NextTicketID - 1,
		PlatformRevenue: c.TotalPlatformRevenue,
		Height:          c.CurrentHeight,
		Treasury:        e.treasury,
	}, nil
}

// History returns journal receipts, optionally narrowed by actor and
// kind. Limit 0 returns everything, oldest first.
func (e *Engine) History(ctx context.Context, actor, kind string, limit int) ([]ledger.Receipt, error) {
	if kind != "" {
		switch ledger.ReceiptKind(kind) {
		case ledger.ReceiptEventCreated, ledger.ReceiptTicketPurchased,
			ledger.ReceiptBatchPurchased, ledger.ReceiptTicketTransferred:
		default:
			return nil, fmt.Errorf("history: unknown receipt kind %q: %w", kind, ledger.ErrInvalidParams)
		}
	}
	return e.store.Receipts(ctx, store.ReceiptFilter{
		Actor: ledger.Normalize(actor),
		Kind:  ledger.ReceiptKind(kind),
		Limit: limit,
	})
}

// Audit runs the store's consistency check over counters, supply and
// journal coverage.
func (e *Engine) Audit(ctx context.Context) (store.AuditReport, error) {
	return e.store.Audit(ctx)
}
