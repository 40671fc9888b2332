package ledger

import "errors"

// Every failed operation returns exactly one of these sentinels, possibly
// wrapped. Callers match with errors.Is; Code maps them to the stable
// strings used on the CLI and HTTP surfaces.
var (
	// ErrEventNotFound is returned when an event id has no record.
	ErrEventNotFound = errors.New("ledger: event not found")

	// ErrTicketNotFound is returned when a ticket id has no record.
	ErrTicketNotFound = errors.New("ledger: ticket not found")

	// ErrInvalidParams covers malformed input: zero supply or price at
	// creation, an out-of-range batch size, a mismatched seat list length,
	// oversized text fields, or an empty account identifier.
	ErrInvalidParams = errors.New("ledger: invalid parameters")

	// ErrEventExpired is returned at creation when the event height is not
	// strictly in the future.
	ErrEventExpired = errors.New("ledger: event height not in the future")

	// ErrEventNotActive is returned when a purchase hits an event that is
	// inactive or has already occurred.
	ErrEventNotActive = errors.New("ledger: event not active")

	// ErrSoldOut is returned when available supply cannot cover the
	// requested quantity.
	ErrSoldOut = errors.New("ledger: sold out")

	// ErrInsufficientPayment is returned when the payer's balance is below
	// the required total.
	ErrInsufficientPayment = errors.New("ledger: insufficient payment")

	// ErrNotTicketOwner is returned when the transfer caller does not own
	// the ticket.
	ErrNotTicketOwner = errors.New("ledger: not ticket owner")

	// ErrTransferNotAllowed is returned when a ticket is non-transferable
	// or already used.
	ErrTransferNotAllowed = errors.New("ledger: transfer not allowed")

	// ErrPaymentFailed is returned when the payment service rejects the
	// debit at execution time. Nothing is written to the ledger.
	ErrPaymentFailed = errors.New("ledger: payment failed")

	// ErrCorruptEvent is returned when a stored event violates a creation
	// invariant (zero total supply). Creation makes this unreachable; it is
	// reported as a fault instead of silently pricing at zero.
	ErrCorruptEvent = errors.New("ledger: corrupt event record")
)

// Stable machine-readable codes paired with the sentinels above. These
// strings are part of the CLI and HTTP contract and must not change meaning
// between releases.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidParameters   = "INVALID_PARAMETERS"
	CodeEventExpired        = "EVENT_EXPIRED"
	CodeEventNotActive      = "EVENT_NOT_ACTIVE"
	CodeSoldOut             = "SOLD_OUT"
	CodeInsufficientPayment = "INSUFFICIENT_PAYMENT"
	CodeNotTicketOwner      = "NOT_TICKET_OWNER"
	CodeTransferNotAllowed  = "TRANSFER_NOT_ALLOWED"
	CodePaymentFailed       = "PAYMENT_FAILED"
	CodeCorruptEvent        = "CORRUPT_EVENT"
	CodeInternal            = "INTERNAL"
)

// Code returns the stable machine-readable code for err.
// Unrecognized errors map to CodeInternal.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrTicketNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidParams):
		return CodeInvalidParameters
	case errors.Is(err, ErrEventExpired):
		return CodeEventExpired
	case errors.Is(err, ErrEventNotActive):
		return CodeEventNotActive
	case errors.Is(err, ErrSoldOut):
		return CodeSoldOut
	case errors.Is(err, ErrInsufficientPayment):
		return CodeInsufficientPayment
	case errors.Is(err, ErrNotTicketOwner):
		return CodeNotTicketOwner
	case errors.Is(err, ErrTransferNotAllowed):
		return CodeTransferNotAllowed
	case errors.Is(err, ErrPaymentFailed):
		return CodePaymentFailed
	case errors.Is(err, ErrCorruptEvent):
		return CodeCorruptEvent
	default:
		return CodeInternal
	}
}
