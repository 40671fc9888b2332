package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// ApplyCreateEvent inserts a new event and its receipt in one transaction.
//
// The event id is allocated from the counters row inside the transaction:
// read next_event_id, insert the record under that id, advance the counter.
// The caller supplies the event with ID zero; the allocated id is filled
// into the journaled receipt and returned.
func (s *Store) ApplyCreateEvent(ctx context.Context, ev ledger.Event, rcpt ledger.Receipt) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create event: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var id uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_event_id FROM counters WHERE id = 1`,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create event: read counter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events
		(id, name, description, venue, event_type, event_height,
		 total_supply, available_supply, base_price, creator, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		ev.Name,
		ev.Description,
		ev.Venue,
		ev.EventType,
		ev.EventHeight,
		ev.TotalSupply,
		ev.AvailableSupply,
		ev.BasePrice,
		ev.Creator,
		ev.Active,
	)
	if err != nil {
		return 0, fmt.Errorf("create event: insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE counters SET next_event_id = ? WHERE id = 1`, id+1,
	); err != nil {
		return 0, fmt.Errorf("create event: advance counter: %w", err)
	}

	rcpt.EventID = id
	if err := insertReceipt(ctx, tx, rcpt); err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create event: commit: %w", err)
	}

	return id, nil
}

// ApplyPurchase applies every side effect of a committed purchase in one
// transaction: mint the tickets under consecutive ids, decrement the
// event's available supply, add the fee to total_platform_revenue, advance
// next_ticket_id, and journal the receipt.
//
// The first minted id is captured from next_ticket_id BEFORE the mint loop
// and returned; the counter afterwards equals first+len(tickets). Reading
// the counter after the loop would yield one past the last minted ticket.
// Ticket IDs on the input records are ignored.
//
// The supply decrement re-checks availability inside the transaction. The
// engine validates it beforehand; the guard turns a logic regression into a
// rolled-back transaction instead of a negative supply.
func (s *Store) ApplyPurchase(ctx context.Context, eventID uint64, tickets []ledger.Ticket, fee uint64, rcpt ledger.Receipt) (uint64, error) {
	if len(tickets) == 0 {
		return 0, fmt.Errorf("apply purchase: no tickets to mint")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("apply purchase: begin tx: %w", err)
	}
	defer tx.Rollback()

	var first uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_ticket_id FROM counters WHERE id = 1`,
	).Scan(&first); err != nil {
		return 0, fmt.Errorf("apply purchase: read counter: %w", err)
	}

	for i, t := range tickets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tickets
			(id, event_id, owner, price_paid, purchase_height, used, transferable, seat_info)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			first+uint64(i),
			eventID,
			t.Owner,
			t.PricePaid,
			t.PurchaseHeight,
			t.Used,
			t.Transferable,
			t.SeatInfo,
		)
		if err != nil {
			return 0, fmt.Errorf("apply purchase: mint ticket %d: %w", first+uint64(i), err)
		}
	}

	qty := uint64(len(tickets))
	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET available_supply = available_supply - ?
		WHERE id = ? AND available_supply >= ?
	`, qty, eventID, qty)
	if err != nil {
		return 0, fmt.Errorf("apply purchase: decrement supply: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("apply purchase: rows affected: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("apply purchase: %w", ledger.ErrSoldOut)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE counters
		SET next_ticket_id = ?, total_platform_revenue = total_platform_revenue + ?
		WHERE id = 1
	`, first+qty, fee)
	if err != nil {
		return 0, fmt.Errorf("apply purchase: advance counters: %w", err)
	}

	rcpt.TicketID = first
	if err := insertReceipt(ctx, tx, rcpt); err != nil {
		return 0, fmt.Errorf("apply purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("apply purchase: commit: %w", err)
	}

	return first, nil
}

// ApplyTransfer overwrites the ticket's owner and journals the receipt in
// one transaction. No payment, no fee, no counter changes.
func (s *Store) ApplyTransfer(ctx context.Context, ticketID uint64, newOwner string, rcpt ledger.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET owner = ? WHERE id = ?`, newOwner, ticketID,
	)
	if err != nil {
		return fmt.Errorf("transfer: update owner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transfer: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transfer ticket %d: %w", ticketID, ledger.ErrTicketNotFound)
	}

	rcpt.TicketID = ticketID
	if err := insertReceipt(ctx, tx, rcpt); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transfer: commit: %w", err)
	}

	return nil
}

// AdvanceHeight moves the stored logical height forward by delta and
// returns the new height. The scalar only ever moves forward; there is no
// operation that rewinds it.
func (s *Store) AdvanceHeight(ctx context.Context, delta uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("advance height: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE counters SET current_height = current_height + ? WHERE id = 1`, delta,
	); err != nil {
		return 0, fmt.Errorf("advance height: update: %w", err)
	}

	var h uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT current_height FROM counters WHERE id = 1`,
	).Scan(&h); err != nil {
		return 0, fmt.Errorf("advance height: read: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("advance height: commit: %w", err)
	}

	return h, nil
}

// insertReceipt journals one receipt row inside the caller's transaction.
// The UNIQUE constraint on token rejects accidental double-journaling of
// the same operation.
func insertReceipt(ctx context.Context, tx *sql.Tx, r ledger.Receipt) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO receipts
		(token, kind, height, actor, event_id, ticket_id, quantity, amount, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.Token,
		string(r.Kind),
		r.Height,
		r.Actor,
		r.EventID,
		r.TicketID,
		r.Quantity,
		r.Amount,
		r.Fee,
	)
	if err != nil {
		return fmt.Errorf("journal receipt: %w", err)
	}
	return nil
}
