package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `id, name, description, venue, event_type, event_height,
	total_supply, available_supply, base_price, creator, active`

const ticketColumns = `id, event_id, owner, price_paid, purchase_height,
	used, transferable, seat_info`

const receiptColumns = `id, token, kind, height, actor, event_id, ticket_id,
	quantity, amount, fee`

// Event retrieves a single event by id.
// Returns ledger.ErrEventNotFound if absent.
func (s *Store) Event(ctx context.Context, id uint64) (ledger.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Event{}, fmt.Errorf("event %d: %w", id, ledger.ErrEventNotFound)
	}
	if err != nil {
		return ledger.Event{}, fmt.Errorf("read event %d: %w", id, err)
	}
	return ev, nil
}

// Events returns all events ordered by id.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) Events(ctx context.Context) ([]ledger.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []ledger.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Ticket retrieves a single ticket by id.
// Returns ledger.ErrTicketNotFound if absent.
func (s *Store) Ticket(ctx context.Context, id uint64) (ledger.Ticket, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id)

	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Ticket{}, fmt.Errorf("ticket %d: %w", id, ledger.ErrTicketNotFound)
	}
	if err != nil {
		return ledger.Ticket{}, fmt.Errorf("read ticket %d: %w", id, err)
	}
	return t, nil
}

// TicketsByOwner returns all tickets held by an account, ordered by id.
func (s *Store) TicketsByOwner(ctx context.Context, owner string) ([]ledger.Ticket, error) {
	return s.queryTickets(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE owner = ? ORDER BY id ASC`, owner)
}

// TicketsByEvent returns all tickets minted against an event, ordered by id.
func (s *Store) TicketsByEvent(ctx context.Context, eventID uint64) ([]ledger.Ticket, error) {
	return s.queryTickets(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE event_id = ? ORDER BY id ASC`, eventID)
}

func (s *Store) queryTickets(ctx context.Context, query string, args ...any) ([]ledger.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []ledger.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

// Counters returns the ledger-wide scalars.
func (s *Store) Counters(ctx context.Context) (ledger.Counters, error) {
	var c ledger.Counters
	err := s.db.QueryRowContext(ctx, `
		SELECT next_event_id, next_ticket_id, total_platform_revenue, current_height
		FROM counters WHERE id = 1
	`).Scan(&c.NextEventID, &c.NextTicketID, &c.TotalPlatformRevenue, &c.CurrentHeight)
	if err != nil {
		return ledger.Counters{}, fmt.Errorf("read counters: %w", err)
	}
	return c, nil
}

// Height returns the stored logical height.
func (s *Store) Height(ctx context.Context) (uint64, error) {
	var h uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT current_height FROM counters WHERE id = 1`,
	).Scan(&h)
	if err != nil {
		return 0, fmt.Errorf("read height: %w", err)
	}
	return h, nil
}

// ReceiptFilter narrows a journal query. Zero values mean "no constraint";
// Limit 0 returns everything.
type ReceiptFilter struct {
	Actor string
	Kind  ledger.ReceiptKind
	Limit int
}

// Receipts returns journal entries matching the filter, ordered by id.
func (s *Store) Receipts(ctx context.Context, f ReceiptFilter) ([]ledger.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts`
	var (
		where []string
		args  []any
	)
	if f.Actor != "" {
		where = append(where, "actor = ?")
		args = append(args, f.Actor)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	receipts := []ledger.Receipt{}
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}

	return receipts, nil
}

func scanEvent(sc rowScanner) (ledger.Event, error) {
	var ev ledger.Event
	err := sc.Scan(
		&ev.ID, &ev.Name, &ev.Description, &ev.Venue, &ev.EventType,
		&ev.EventHeight, &ev.TotalSupply, &ev.AvailableSupply,
		&ev.BasePrice, &ev.Creator, &ev.Active,
	)
	return ev, err
}

func scanTicket(sc rowScanner) (ledger.Ticket, error) {
	var t ledger.Ticket
	err := sc.Scan(
		&t.ID, &t.EventID, &t.Owner, &t.PricePaid, &t.PurchaseHeight,
		&t.Used, &t.Transferable, &t.SeatInfo,
	)
	return t, err
}

func scanReceipt(sc rowScanner) (ledger.Receipt, error) {
	var (
		r    ledger.Receipt
		kind string
	)
	err := sc.Scan(
		&r.ID, &r.Token, &kind, &r.Height, &r.Actor,
		&r.EventID, &r.TicketID, &r.Quantity, &r.Amount, &r.Fee,
	)
	r.Kind = ledger.ReceiptKind(kind)
	return r, err
}
