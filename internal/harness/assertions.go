package harness

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Log      []Outcome // Step log for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Log) > 0 {
		fmt.Fprintf(&buf, "\nStep log:\n")
		for _, out := range e.Log {
			if out.Error != "" {
				fmt.Fprintf(&buf, "  [%d] %s as %s -> %s\n", out.Step, out.Op, out.Actor, out.Error)
			} else {
				fmt.Fprintf(&buf, "  [%d] %s as %s -> ok\n", out.Step, out.Op, out.Actor)
			}
		}
	}

	return buf.String()
}

// AssertionContext provides state access for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Bank  bank.Service
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var msgs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEventState:
			err = assertEventState(actx, assertion, result.Log)
		case AssertTicketOwner:
			err = assertTicketOwner(actx, assertion, result.Log)
		case AssertBalance:
			err = assertBalance(actx, assertion, result.Log)
		case AssertCounters:
			err = assertCounters(actx, assertion, result.Log)
		case AssertReceiptCount:
			err = assertReceiptCount(actx, assertion, result.Log)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}

	return msgs
}

// assertEventState reads the event and subset-matches the expected fields.
func assertEventState(actx *AssertionContext, a Assertion, log []Outcome) error {
	ev, err := actx.Store.Event(actx.Ctx, a.Event)
	if err != nil {
		return &AssertionError{
			Type:     AssertEventState,
			Expected: fmt.Sprintf("event %d present", a.Event),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Log:      log,
		}
	}

	fields := map[string]interface{}{
		"name":             ev.Name,
		"description":      ev.Description,
		"venue":            ev.Venue,
		"event_type":       ev.EventType,
		"event_height":     ev.EventHeight,
		"total_supply":     ev.TotalSupply,
		"available_supply": ev.AvailableSupply,
		"base_price":       ev.BasePrice,
		"creator":          ev.Creator,
		"active":           ev.Active,
		"sold":             ev.Sold(),
	}
	return matchFields(AssertEventState, fmt.Sprintf("event %d", a.Event), fields, a.Expect, log)
}

// assertTicketOwner verifies who holds the ticket.
func assertTicketOwner(actx *AssertionContext, a Assertion, log []Outcome) error {
	tk, err := actx.Store.Ticket(actx.Ctx, a.Ticket)
	if err != nil {
		return &AssertionError{
			Type:     AssertTicketOwner,
			Expected: fmt.Sprintf("ticket %d present", a.Ticket),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Log:      log,
		}
	}

	if tk.Owner != a.Owner {
		return &AssertionError{
			Type:     AssertTicketOwner,
			Expected: fmt.Sprintf("ticket %d owned by %q", a.Ticket, a.Owner),
			Actual:   fmt.Sprintf("owned by %q", tk.Owner),
			Log:      log,
		}
	}
	return nil
}

// assertBalance verifies a vault account balance. An account the vault
// has never seen counts as balance zero, so treasuries can be asserted
// before the first sale.
func assertBalance(actx *AssertionContext, a Assertion, log []Outcome) error {
	balance, err := actx.Bank.Balance(actx.Ctx, a.Account)
	if errors.Is(err, bank.ErrUnknownAccount) {
		balance, err = 0, nil
	}
	if err != nil {
		return &AssertionError{
			Type:     AssertBalance,
			Expected: fmt.Sprintf("balance of %q readable", a.Account),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Log:      log,
		}
	}

	if balance != a.Amount {
		return &AssertionError{
			Type:     AssertBalance,
			Expected: fmt.Sprintf("account %q holds %d", a.Account, a.Amount),
			Actual:   fmt.Sprintf("holds %d", balance),
			Log:      log,
		}
	}
	return nil
}

// assertCounters subset-matches the ledger-wide counters row.
func assertCounters(actx *AssertionContext, a Assertion, log []Outcome) error {
	c, err := actx.Store.Counters(actx.Ctx)
	if err != nil {
		return &AssertionError{
			Type:     AssertCounters,
			Expected: "counters readable",
			Actual:   fmt.Sprintf("read failed: %v", err),
			Log:      log,
		}
	}

	fields := map[string]interface{}{
		"next_event_id":    c.NextEventID,
		"next_ticket_id":   c.NextTicketID,
		"platform_revenue": c.TotalPlatformRevenue,
		"height":           c.CurrentHeight,
	}
	return matchFields(AssertCounters, "counters", fields, a.Expect, log)
}

// assertReceiptCount counts journal receipts, optionally narrowed to one
// kind, and requires an exact match.
func assertReceiptCount(actx *AssertionContext, a Assertion, log []Outcome) error {
	receipts, err := actx.Store.Receipts(actx.Ctx, store.ReceiptFilter{
		Kind: ledger.ReceiptKind(a.Kind),
	})
	if err != nil {
		return &AssertionError{
			Type:     AssertReceiptCount,
			Expected: "receipts readable",
			Actual:   fmt.Sprintf("read failed: %v", err),
			Log:      log,
		}
	}

	what := "receipts"
	if a.Kind != "" {
		what = fmt.Sprintf("%s receipts", a.Kind)
	}
	if len(receipts) != a.Count {
		return &AssertionError{
			Type:     AssertReceiptCount,
			Expected: fmt.Sprintf("%d %s", a.Count, what),
			Actual:   fmt.Sprintf("%d %s", len(receipts), what),
			Log:      log,
		}
	}
	return nil
}

// matchFields subset-matches expected values against a field map, using
// the same scalar comparison as step expectations. Unknown expected keys
// fail with the list of known fields.
func matchFields(assertType, subject string, fields map[string]interface{}, expect map[string]interface{}, log []Outcome) error {
	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		actual, ok := fields[key]
		if !ok {
			return &AssertionError{
				Type:     assertType,
				Expected: fmt.Sprintf("%s field %q", subject, key),
				Actual:   fmt.Sprintf("no such field (known: %s)", fieldNames(fields)),
				Log:      log,
			}
		}
		if !scalarEqual(expect[key], actual) {
			return &AssertionError{
				Type:     assertType,
				Expected: fmt.Sprintf("%s %s = %v", subject, key, expect[key]),
				Actual:   fmt.Sprintf("%s = %v", key, actual),
				Log:      log,
			}
		}
	}
	return nil
}
