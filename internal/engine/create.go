package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// CreateEventParams carries the caller-supplied fields of a new event.
// Text fields are NFC-normalized before validation and storage.
type CreateEventParams struct {
	Creator     string
	Name        string
	Description string
	Venue       string
	EventType   string
	EventHeight uint64
	TotalSupply uint64
	BasePrice   uint64
}

// CreateEvent allocates a new event id and inserts the event with full
// availability. The event height must be strictly after the current
// height; supply and price must be positive and within the ledger caps.
//
// Returns the stored event, id filled in.
func (e *Engine) CreateEvent(ctx context.Context, p CreateEventParams) (ledger.Event, error) {
	p.Creator = ledger.Normalize(p.Creator)
	p.Name = ledger.Normalize(p.Name)
	p.Description = ledger.Normalize(p.Description)
	p.Venue = ledger.Normalize(p.Venue)
	p.EventType = ledger.Normalize(p.EventType)

	if err := validateCreateParams(p); err != nil {
		return ledger.Event{}, fmt.Errorf("create event: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Height()
	if p.EventHeight <= now {
		return ledger.Event{}, fmt.Errorf("create event: height %d not after current height %d: %w",
			p.EventHeight, now, ledger.ErrEventExpired)
	}

	ev := ledger.Event{
		Name:            p.Name,
		Description:     p.Description,
		Venue:           p.Venue,
		EventType:       p.EventType,
		EventHeight:     p.EventHeight,
		TotalSupply:     p.TotalSupply,
		AvailableSupply: p.TotalSupply,
		BasePrice:       p.BasePrice,
		Creator:         p.Creator,
		Active:          true,
	}

	rcpt := e.receipt(ledger.ReceiptEventCreated, p.Creator, now)
	id, err := e.store.ApplyCreateEvent(ctx, ev, rcpt)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("create event: %w", err)
	}
	ev.ID = id

	slog.Info("event created",
		"event_id", id,
		"creator", p.Creator,
		"name", p.Name,
		"event_height", p.EventHeight,
		"total_supply", p.TotalSupply,
		"base_price", p.BasePrice,
	)

	return ev, nil
}

// validateCreateParams checks input shape. Height is checked separately
// under the lock because it compares against the current height.
func validateCreateParams(p CreateEventParams) error {
	if p.Creator == "" {
		return fmt.Errorf("creator account required: %w", ledger.ErrInvalidParams)
	}
	if p.Name == "" {
		return fmt.Errorf("name required: %w", ledger.ErrInvalidParams)
	}
	if len(p.Name) > ledger.MaxNameLen {
		return fmt.Errorf("name exceeds %d bytes: %w", ledger.MaxNameLen, ledger.ErrInvalidParams)
	}
	if len(p.Description) > ledger.MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d bytes: %w", ledger.MaxDescriptionLen, ledger.ErrInvalidParams)
	}
	if len(p.Venue) > ledger.MaxVenueLen {
		return fmt.Errorf("venue exceeds %d bytes: %w", ledger.MaxVenueLen, ledger.ErrInvalidParams)
	}
	if len(p.EventType) > ledger.MaxEventTypeLen {
		return fmt.Errorf("event type exceeds %d bytes: %w", ledger.MaxEventTypeLen, ledger.ErrInvalidParams)
	}
	if p.TotalSupply == 0 {
		return fmt.Errorf("total supply must be positive: %w", ledger.ErrInvalidParams)
	}
	if p.TotalSupply > ledger.MaxTotalSupply {
		return fmt.Errorf("total supply exceeds %d: %w", ledger.MaxTotalSupply, ledger.ErrInvalidParams)
	}
	if p.BasePrice == 0 {
		return fmt.Errorf("base price must be positive: %w", ledger.ErrInvalidParams)
	}
	if p.BasePrice > ledger.MaxBasePrice {
		return fmt.Errorf("base price exceeds %d: %w", ledger.MaxBasePrice, ledger.ErrInvalidParams)
	}
	return nil
}
