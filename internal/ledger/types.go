package ledger

// Numeric bounds enforced at event creation. They keep every pricing
// computation inside uint64 and every stored value inside SQLite's signed
// 64-bit INTEGER: the peak price is 1.5x the base price, a batch covers at
// most 10 units, and the 5% fee on the subtotal still fits.
const (
	MaxTotalSupply uint64 = 1_000_000_000_000     // tickets per event
	MaxBasePrice   uint64 = 1_000_000_000_000_000 // smallest currency units
)

// Text field limits. Presentation-level bounds, not correctness invariants;
// enforced at the mutation boundary so stored rows stay small.
const (
	MaxNameLen        = 256
	MaxDescriptionLen = 4096
	MaxVenueLen       = 256
	MaxEventTypeLen   = 64
	MaxSeatInfoLen    = 256
)

// Event is a sellable occasion with a fixed ticket supply and base price.
//
// TotalSupply and BasePrice are fixed at creation. AvailableSupply is the
// only mutable field and only ever decreases, by exactly the quantity of a
// committed purchase. Active is a read-only toggle in this core: no
// operation flips it in either direction.
type Event struct {
	ID              uint64
	Name            string
	Description     string
	Venue           string
	EventType       string
	EventHeight     uint64 // logical height at which the event occurs
	TotalSupply     uint64
	AvailableSupply uint64
	BasePrice       uint64
	Creator         string
	Active          bool
}

// Sold returns the number of tickets already minted against the event.
func (e Event) Sold() uint64 {
	return e.TotalSupply - e.AvailableSupply
}

// Purchasable reports whether tickets can be bought at the given height:
// the event is active, occurs strictly after now, and has supply left.
//
// Payer balance is deliberately not checked here. Balance is external state
// and is the mutation path's concern at execution time.
func (e Event) Purchasable(now uint64) bool {
	return e.Active && e.EventHeight > now && e.AvailableSupply > 0
}

// Ticket is a minted, individually owned record entitling its holder to one
// seat at an Event.
//
// PricePaid and PurchaseHeight are immutable once minted; Owner is
// overwritten by transfer. Used and Transferable are reserved for external
// redemption and lock collaborators and never change in this core.
type Ticket struct {
	ID             uint64
	EventID        uint64 // non-owning reference, never re-associated
	Owner          string
	PricePaid      uint64
	PurchaseHeight uint64
	Used           bool
	Transferable   bool
	SeatInfo       string
}

// CanTransfer reports whether the ticket is eligible to change owner.
// Ownership is checked separately so callers can report not-ticket-owner
// and transfer-not-allowed as distinct failures.
func (t Ticket) CanTransfer() bool {
	return t.Transferable && !t.Used
}

// Counters holds the ledger-wide scalars.
//
// NextEventID and NextTicketID start at 1 and are never reused, even across
// hypothetical deletion (deletion is not supported). TotalPlatformRevenue is
// monotonically non-decreasing. CurrentHeight is the operator-advanced
// logical clock consulted when no explicit height is supplied.
type Counters struct {
	NextEventID          uint64
	NextTicketID         uint64
	TotalPlatformRevenue uint64
	CurrentHeight        uint64
}

// ReceiptKind discriminates journal entries.
type ReceiptKind string

const (
	ReceiptEventCreated      ReceiptKind = "event_created"
	ReceiptTicketPurchased   ReceiptKind = "ticket_purchased"
	ReceiptBatchPurchased    ReceiptKind = "batch_purchased"
	ReceiptTicketTransferred ReceiptKind = "ticket_transferred"
)

// Receipt is one journal entry per committed mutation. Failed operations
// never journal. Token is a correlation token from the engine's generator.
// Numeric fields are zero where they do not apply to the kind; for batch
// purchases TicketID is the first minted id and Quantity the batch size.
type Receipt struct {
	ID       uint64
	Token    string
	Kind     ReceiptKind
	Height   uint64
	Actor    string
	EventID  uint64
	TicketID uint64
	Quantity uint64
	Amount   uint64
	Fee      uint64
}
