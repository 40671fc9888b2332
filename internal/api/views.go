package api

import (
	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/pricing"
)

// The view types mirror the CLI's JSON field names so the two surfaces
// stay interchangeable for clients.

// eventView is the JSON shape of an event. UnitPrice is the current
// demand-sensitive price, derived from supply at render time.
type eventView struct {
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

func newEventView(ev ledger.Event) eventView {
	return eventView{
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

// ticketView is the JSON shape of a ticket.
type ticketView struct {
	ID             uint64 `json:"id"`
	EventID        uint64 `json:"event_id"`
	Owner          string `json:"owner"`
	PricePaid      uint64 `json:"price_paid"`
	PurchaseHeight uint64 `json:"purchase_height"`
	Used           bool   `json:"used"`
	Transferable   bool   `json:"transferable"`
	SeatInfo       string `json:"seat_info,omitempty"`
}

func newTicketView(t ledger.Ticket) ticketView {
	return ticketView{
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

// receiptView is the JSON shape of a journal entry. Numeric fields a
// kind never sets are omitted rather than rendered as zero.
type receiptView struct {
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

func newReceiptView(r ledger.Receipt) receiptView {
	return receiptView{
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
