package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// Transfer moves a ticket to a new owner. The caller must be the current
// owner; the ticket must be transferable and unused. No payment, no fee,
// no counter changes.
//
// Returns the ticket with the new owner applied.
func (e *Engine) Transfer(ctx context.Context, caller string, ticketID uint64, newOwner string) (ledger.Ticket, error) {
	caller = ledger.Normalize(caller)
	newOwner = ledger.Normalize(newOwner)
	if caller == "" {
		return ledger.Ticket{}, fmt.Errorf("transfer: caller account required: %w", ledger.ErrInvalidParams)
	}
	if newOwner == "" {
		return ledger.Ticket{}, fmt.Errorf("transfer: new owner required: %w", ledger.ErrInvalidParams)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Height()
	tk, err := e.store.Ticket(ctx, ticketID)
	if err != nil {
		return ledger.Ticket{}, fmt.Errorf("transfer: %w", err)
	}
	if tk.Owner != caller {
		return ledger.Ticket{}, fmt.Errorf("transfer ticket %d: caller %q is not the owner: %w",
			ticketID, caller, ledger.ErrNotTicketOwner)
	}
	if !tk.CanTransfer() {
		return ledger.Ticket{}, fmt.Errorf("transfer ticket %d: %w", ticketID, ledger.ErrTransferNotAllowed)
	}

	rcpt := e.receipt(ledger.ReceiptTicketTransferred, caller, now)
	rcpt.EventID = tk.EventID
	if err := e.store.ApplyTransfer(ctx, ticketID, newOwner, rcpt); err != nil {
		return ledger.Ticket{}, fmt.Errorf("transfer: %w", err)
	}

	slog.Info("ticket transferred",
		"ticket_id", ticketID,
		"from", caller,
		"to", newOwner,
		"height", now,
	)

	tk.Owner = newOwner
	return tk, nil
}
