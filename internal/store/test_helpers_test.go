package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// createTestStore creates a fresh on-disk store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEvent builds a creation-ready event record (ID zero, full supply).
func testEvent(name string, total, basePrice uint64) ledger.Event {
	return ledger.Event{
		Name:            name,
		Description:     "test event",
		Venue:           "Main Hall",
		EventType:       "concert",
		EventHeight:     1000,
		TotalSupply:     total,
		AvailableSupply: total,
		BasePrice:       basePrice,
		Creator:         "organizer",
		Active:          true,
	}
}

// testTicket builds a mint-ready ticket record (ID zero).
func testTicket(owner string, price uint64, seat string) ledger.Ticket {
	return ledger.Ticket{
		Owner:          owner,
		PricePaid:      price,
		PurchaseHeight: 50,
		Used:           false,
		Transferable:   true,
		SeatInfo:       seat,
	}
}

var receiptSeq int

// testReceipt builds a receipt with a unique token.
func testReceipt(kind ledger.ReceiptKind, actor string) ledger.Receipt {
	receiptSeq++
	return ledger.Receipt{
		Token:  fmt.Sprintf("receipt-%04d", receiptSeq),
		Kind:   kind,
		Height: 50,
		Actor:  actor,
	}
}
