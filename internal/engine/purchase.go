package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/pricing"
)

// MaxBatchQuantity is the hard cap on tickets per batch purchase,
// independent of availability. Keeps every batch loop bounded.
const MaxBatchQuantity = 10

// PurchaseResult reports a committed single purchase.
type PurchaseResult struct {
	TicketID uint64 `json:"ticket_id"`
	EventID  uint64 `json:"event_id"`
	Price    uint64 `json:"price"`
	Fee      uint64 `json:"fee"`
	Total    uint64 `json:"total"`
	Height   uint64 `json:"height"`
}

// BatchResult reports a committed batch purchase. UnitPrice is the
// pre-discount quote frozen against the pre-batch event state;
// DiscountedUnit is what each ticket actually cost.
type BatchResult struct {
	FirstTicketID  uint64 `json:"first_ticket_id"`
	EventID        uint64 `json:"event_id"`
	Quantity       uint64 `json:"quantity"`
	UnitPrice      uint64 `json:"unit_price"`
	DiscountRate   uint64 `json:"discount_rate"`
	DiscountedUnit uint64 `json:"discounted_unit"`
	Subtotal       uint64 `json:"subtotal"`
	Fee            uint64 `json:"fee"`
	Total          uint64 `json:"total"`
	Height         uint64 `json:"height"`
}

// Purchase buys one ticket for the buyer at the current dynamic price.
//
// Order of evaluation: look up the event, compute price and fee from its
// current state, check purchasability, check funds. Only after every
// check passes is the buyer debited and the ledger written. A failed
// ledger write after the debit triggers a refund.
func (e *Engine) Purchase(ctx context.Context, buyer string, eventID uint64, seatInfo string) (PurchaseResult, error) {
	buyer = ledger.Normalize(buyer)
	seatInfo = ledger.Normalize(seatInfo)
	if buyer == "" {
		return PurchaseResult{}, fmt.Errorf("purchase: buyer account required: %w", ledger.ErrInvalidParams)
	}
	if len(seatInfo) > ledger.MaxSeatInfoLen {
		return PurchaseResult{}, fmt.Errorf("purchase: seat info exceeds %d bytes: %w",
			ledger.MaxSeatInfoLen, ledger.ErrInvalidParams)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Height()
	ev, err := e.store.Event(ctx, eventID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase: %w", err)
	}
	if ev.TotalSupply == 0 {
		return PurchaseResult{}, fmt.Errorf("purchase event %d: %w", eventID, ledger.ErrCorruptEvent)
	}

	price := pricing.Price(ev.TotalSupply, ev.AvailableSupply, ev.BasePrice)
	fee := pricing.PlatformFee(price)
	total := price + fee

	if err := purchaseEligibility(ev, now, 1); err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase event %d: %w", eventID, err)
	}
	if err := e.checkFunds(ctx, buyer, total); err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase event %d: %w", eventID, err)
	}

	if err := e.debit(ctx, buyer, total); err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase event %d: %w", eventID, err)
	}

	ticket := ledger.Ticket{
		EventID:        eventID,
		Owner:          buyer,
		PricePaid:      price,
		PurchaseHeight: now,
		Used:           false,
		Transferable:   true,
		SeatInfo:       seatInfo,
	}
	rcpt := e.receipt(ledger.ReceiptTicketPurchased, buyer, now)
	rcpt.EventID = eventID
	rcpt.Quantity = 1
	rcpt.Amount = total
	rcpt.Fee = fee

	ticketID, err := e.store.ApplyPurchase(ctx, eventID, []ledger.Ticket{ticket}, fee, rcpt)
	if err != nil {
		e.refund(ctx, buyer, total)
		return PurchaseResult{}, fmt.Errorf("purchase event %d: %w", eventID, err)
	}

	slog.Info("ticket purchased",
		"ticket_id", ticketID,
		"event_id", eventID,
		"buyer", buyer,
		"price", price,
		"fee", fee,
		"height", now,
	)

	return PurchaseResult{
		TicketID: ticketID,
		EventID:  eventID,
		Price:    price,
		Fee:      fee,
		Total:    total,
		Height:   now,
	}, nil
}

// PurchaseBatch buys quantity tickets in one atomic operation.
//
// The unit price is computed once against the pre-batch event state and
// frozen for the whole batch; availability decreasing within the batch
// does not move the price. The group discount applies only when the
// caller opts in: 15% for a full batch of ten, 10% for five to nine.
// Each minted ticket records the discounted unit price as its PricePaid.
func (e *Engine) PurchaseBatch(ctx context.Context, buyer string, eventID uint64, quantity uint64, seatInfos []string, applyGroupDiscount bool) (BatchResult, error) {
	buyer = ledger.Normalize(buyer)
	if buyer == "" {
		return BatchResult{}, fmt.Errorf("batch purchase: buyer account required: %w", ledger.ErrInvalidParams)
	}
	if quantity < 1 || quantity > MaxBatchQuantity {
		return BatchResult{}, fmt.Errorf("batch purchase: quantity %d outside [1, %d]: %w",
			quantity, MaxBatchQuantity, ledger.ErrInvalidParams)
	}
	if uint64(len(seatInfos)) != quantity {
		return BatchResult{}, fmt.Errorf("batch purchase: %d seat entries for quantity %d: %w",
			len(seatInfos), quantity, ledger.ErrInvalidParams)
	}
	seats := make([]string, len(seatInfos))
	for i, seat := range seatInfos {
		seats[i] = ledger.Normalize(seat)
		if len(seats[i]) > ledger.MaxSeatInfoLen {
			return BatchResult{}, fmt.Errorf("batch purchase: seat %d exceeds %d bytes: %w",
				i, ledger.MaxSeatInfoLen, ledger.ErrInvalidParams)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Height()
	ev, err := e.store.Event(ctx, eventID)
	if err != nil {
		return BatchResult{}, fmt.Errorf("batch purchase: %w", err)
	}
	if ev.TotalSupply == 0 {
		return BatchResult{}, fmt.Errorf("batch purchase event %d: %w", eventID, ledger.ErrCorruptEvent)
	}

	unitPrice := pricing.Price(ev.TotalSupply, ev.AvailableSupply, ev.BasePrice)
	rate := pricing.DiscountRate(quantity, applyGroupDiscount)
	discounted := pricing.Discounted(unitPrice, rate)
	subtotal := discounted * quantity
	fee := pricing.PlatformFee(subtotal)
	total := subtotal + fee

	if err := purchaseEligibility(ev, now, quantity); err != nil {
		return BatchResult{}, fmt.Errorf("batch purchase event %d: %w", eventID, err)
	}
	if err := e.checkFunds(ctx, buyer, total); err != nil {
		return BatchResult{}, fmt.Errorf("batch purchase event %d: %w", eventID, err)
	}

	if err := e.debit(ctx, buyer, total); err != nil {
		return BatchResult{}, fmt.Errorf("batch purchase event %d: %w", eventID, err)
	}

	tickets := make([]ledger.Ticket, quantity)
	for i := range tickets {
		tickets[i] = ledger.Ticket{
			EventID:        eventID,
			Owner:          buyer,
			PricePaid:      discounted,
			PurchaseHeight: now,
			Used:           false,
			Transferable:   true,
			SeatInfo:       seats[i],
		}
	}
	rcpt := e.receipt(ledger.ReceiptBatchPurchased, buyer, now)
	rcpt.EventID = eventID
	rcpt.Quantity = quantity
	rcpt.Amount = total
	rcpt.Fee = fee

	first, err := e.store.ApplyPurchase(ctx, eventID, tickets, fee, rcpt)
	if err != nil {
		e.refund(ctx, buyer, total)
		return BatchResult{}, fmt.Errorf("batch purchase event %d: %w", eventID, err)
	}

	slog.Info("batch purchased",
		"first_ticket_id", first,
		"event_id", eventID,
		"buyer", buyer,
		"quantity", quantity,
		"unit_price", unitPrice,
		"discount_rate", rate,
		"total", total,
		"height", now,
	)

	return BatchResult{
		FirstTicketID:  first,
		EventID:        eventID,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountRate:   rate,
		DiscountedUnit: discounted,
		Subtotal:       subtotal,
		Fee:            fee,
		Total:          total,
		Height:         now,
	}, nil
}

// purchaseEligibility checks an event against the purchasability rules,
// reporting the most specific failure: an inactive or past event is not
// active; an active future event without enough supply for the requested
// quantity is sold out.
func purchaseEligibility(ev ledger.Event, now, quantity uint64) error {
	if !ev.Active || ev.EventHeight <= now {
		return ledger.ErrEventNotActive
	}
	if ev.AvailableSupply < quantity {
		return ledger.ErrSoldOut
	}
	return nil
}

// checkFunds verifies the buyer can cover the total before any money
// moves. An account the bank has never seen cannot pay anything.
func (e *Engine) checkFunds(ctx context.Context, buyer string, total uint64) error {
	balance, err := e.bank.Balance(ctx, buyer)
	if errors.Is(err, bank.ErrUnknownAccount) {
		return fmt.Errorf("account %q has no funds: %w", buyer, ledger.ErrInsufficientPayment)
	}
	if err != nil {
		return fmt.Errorf("balance of %q: %w", buyer, err)
	}
	if balance < total {
		return fmt.Errorf("account %q holds %d, needs %d: %w",
			buyer, balance, total, ledger.ErrInsufficientPayment)
	}
	return nil
}

// debit moves the total from the buyer to the treasury. The balance was
// checked under the same lock, so a failure here is a bank fault, not a
// race, and aborts the operation before any ledger write.
func (e *Engine) debit(ctx context.Context, buyer string, total uint64) error {
	if err := e.bank.Transfer(ctx, buyer, e.treasury, total); err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrPaymentFailed, err)
	}
	return nil
}

// refund compensates an already-debited buyer after a failed ledger
// write. Best effort: a refund failure is logged rather than returned,
// because the caller must see the original failure.
func (e *Engine) refund(ctx context.Context, buyer string, total uint64) {
	if err := e.bank.Transfer(ctx, e.treasury, buyer, total); err != nil {
		slog.Error("refund failed after aborted ledger write",
			"account", buyer,
			"amount", total,
			"error", err,
		)
	}
}
