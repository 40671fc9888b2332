package cli

import (
	"fmt"
	"io"

	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/pricing"
)

// EventView is the JSON shape of an event on the CLI surface. UnitPrice is
// the current demand-sensitive price, derived from supply at render time.
type EventView struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Venue           string `json:"venue,omitempty"`
	EventType       string `json:"event_type,omitempty"`
	EventHeight     uint64 `json:"event_height"`
	TotalSupply     uint64 `json:"total_supply"`
	AvailableSupply uint64 `json:"available_supply"`
	Sold            uint64 `json:"sold"`
	BasePrice       uint64 `json:"base_price"`
	UnitPrice       uint64 `json:"unit_price"`
	Creator         string `json:"creator"`
	Active          bool   `json:"active"`
}

func newEventView(ev ledger.Event) EventView {
	return EventView{
		ID:              ev.ID,
		Name:            ev.Name,
		Description:     ev.Description,
		Venue:           ev.Venue,
		EventType:       ev.EventType,
		EventHeight:     ev.EventHeight,
		TotalSupply:     ev.TotalSupply,
		AvailableSupply: ev.AvailableSupply,
		Sold:            ev.Sold(),
		BasePrice:       ev.BasePrice,
		UnitPrice:       pricing.Price(ev.TotalSupply, ev.AvailableSupply, ev.BasePrice),
		Creator:         ev.Creator,
		Active:          ev.Active,
	}
}

// TicketView is the JSON shape of a ticket on the CLI surface.
type TicketView struct {
	ID             uint64 `json:"id"`
	EventID        uint64 `json:"event_id"`
	Owner          string `json:"owner"`
	PricePaid      uint64 `json:"price_paid"`
	PurchaseHeight uint64 `json:"purchase_height"`
	Used           bool   `json:"used"`
	Transferable   bool   `json:"transferable"`
	SeatInfo       string `json:"seat_info,omitempty"`
}

func newTicketView(t ledger.Ticket) TicketView {
	return TicketView{
		ID:             t.ID,
		EventID:        t.EventID,
		Owner:          t.Owner,
		PricePaid:      t.PricePaid,
		PurchaseHeight: t.PurchaseHeight,
		Used:           t.Used,
		Transferable:   t.Transferable,
		SeatInfo:       t.SeatInfo,
	}
}

// ReceiptView is the JSON shape of a journal entry on the CLI surface.
// Numeric fields a kind never sets are omitted rather than rendered as zero.
type ReceiptView struct {
	ID       uint64 `json:"id"`
	Token    string `json:"token"`
	Kind     string `json:"kind"`
	Height   uint64 `json:"height"`
	Actor    string `json:"actor"`
	EventID  uint64 `json:"event_id,omitempty"`
	TicketID uint64 `json:"ticket_id,omitempty"`
	Quantity uint64 `json:"quantity,omitempty"`
	Amount   uint64 `json:"amount,omitempty"`
	Fee      uint64 `json:"fee,omitempty"`
}

func newReceiptView(r ledger.Receipt) ReceiptView {
	return ReceiptView{
		ID:       r.ID,
		Token:    r.Token,
		Kind:     string(r.Kind),
		Height:   r.Height,
		Actor:    r.Actor,
		EventID:  r.EventID,
		TicketID: r.TicketID,
		Quantity: r.Quantity,
		Amount:   r.Amount,
		Fee:      r.Fee,
	}
}

// writeEventDetail renders the full field block of one event. Shared by
// show and create-event so the two surfaces never drift.
func writeEventDetail(w io.Writer, v EventView) {
	if v.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", v.Description)
	}
	if v.Venue != "" {
		fmt.Fprintf(w, "  Venue:       %s\n", v.Venue)
	}
	if v.EventType != "" {
		fmt.Fprintf(w, "  Type:        %s\n", v.EventType)
	}
	fmt.Fprintf(w, "  Height:      %d\n", v.EventHeight)
	fmt.Fprintf(w, "  Supply:      %d/%d available (%d sold)\n", v.AvailableSupply, v.TotalSupply, v.Sold)
	fmt.Fprintf(w, "  Base price:  %d\n", v.BasePrice)
	fmt.Fprintf(w, "  Unit price:  %d\n", v.UnitPrice)
	fmt.Fprintf(w, "  Creator:     %s\n", v.Creator)
	fmt.Fprintf(w, "  Active:      %v\n", v.Active)
}

// writeTicketDetail renders the full field block of one ticket.
func writeTicketDetail(w io.Writer, v TicketView) {
	fmt.Fprintf(w, "  Owner:           %s\n", v.Owner)
	fmt.Fprintf(w, "  Price paid:      %d\n", v.PricePaid)
	fmt.Fprintf(w, "  Purchase height: %d\n", v.PurchaseHeight)
	if v.SeatInfo != "" {
		fmt.Fprintf(w, "  Seat:            %s\n", v.SeatInfo)
	}
	fmt.Fprintf(w, "  Transferable:    %v\n", v.Transferable)
	fmt.Fprintf(w, "  Used:            %v\n", v.Used)
}
