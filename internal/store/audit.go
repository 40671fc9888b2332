package store

import (
	"context"
	"fmt"
)

// AuditReport summarizes a consistency check of the ledger against its own
// receipts journal and creation invariants.
type AuditReport struct {
	Events     uint64   `json:"events"`
	Tickets    uint64   `json:"tickets"`
	Receipts   uint64   `json:"receipts"`
	Consistent bool     `json:"consistent"`
	Findings   []string `json:"findings"`
}

// Audit recomputes what the counters and per-event supply must be from
// first principles and compares against stored state:
//
//   - next_event_id equals the event count plus one (ids are dense, never
//     reused)
//   - next_ticket_id equals the ticket count plus one
//   - total_platform_revenue equals the sum of journaled fees
//   - every event satisfies 0 <= available_supply <= total_supply, and its
//     sold count matches the tickets minted against it
//   - journal coverage: one event_created receipt per event, and purchase
//     receipt quantities summing to the ticket count
//
// A failed operation writes nothing, so a clean ledger always audits
// consistent. Used by the verify command after restores or manual surgery.
func (s *Store) Audit(ctx context.Context) (AuditReport, error) {
	report := AuditReport{Findings: []string{}}

	counters, err := s.Counters(ctx)
	if err != nil {
		return report, fmt.Errorf("audit: %w", err)
	}

	var eventCount, maxEventID uint64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(id), 0) FROM events`,
	).Scan(&eventCount, &maxEventID); err != nil {
		return report, fmt.Errorf("audit: count events: %w", err)
	}
	report.Events = eventCount

	var ticketCount, maxTicketID uint64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(id), 0) FROM tickets`,
	).Scan(&ticketCount, &maxTicketID); err != nil {
		return report, fmt.Errorf("audit: count tickets: %w", err)
	}
	report.Tickets = ticketCount

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM receipts`,
	).Scan(&report.Receipts); err != nil {
		return report, fmt.Errorf("audit: count receipts: %w", err)
	}

	// Id allocation: dense, starting at 1, counter one past the max.
	if eventCount != maxEventID {
		report.Findings = append(report.Findings,
			fmt.Sprintf("event ids not dense: %d events but max id %d", eventCount, maxEventID))
	}
	if counters.NextEventID != eventCount+1 {
		report.Findings = append(report.Findings,
			fmt.Sprintf("next_event_id is %d, want %d", counters.NextEventID, eventCount+1))
	}
	if ticketCount != maxTicketID {
		report.Findings = append(report.Findings,
			fmt.Sprintf("ticket ids not dense: %d tickets but max id %d", ticketCount, maxTicketID))
	}
	if counters.NextTicketID != ticketCount+1 {
		report.Findings = append(report.Findings,
			fmt.Sprintf("next_ticket_id is %d, want %d", counters.NextTicketID, ticketCount+1))
	}

	// Revenue: the accumulator must equal the sum of journaled fees.
	var journaledFees uint64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(fee), 0) FROM receipts`,
	).Scan(&journaledFees); err != nil {
		return report, fmt.Errorf("audit: sum fees: %w", err)
	}
	if counters.TotalPlatformRevenue != journaledFees {
		report.Findings = append(report.Findings,
			fmt.Sprintf("total_platform_revenue is %d, journaled fees sum to %d",
				counters.TotalPlatformRevenue, journaledFees))
	}

	// Per-event supply: bounds hold and sold count matches minted tickets.
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.total_supply, e.available_supply, COUNT(t.id)
		FROM events e
		LEFT JOIN tickets t ON t.event_id = e.id
		GROUP BY e.id
		ORDER BY e.id ASC
	`)
	if err != nil {
		return report, fmt.Errorf("audit: per-event supply: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, total, available, minted uint64
		if err := rows.Scan(&id, &total, &available, &minted); err != nil {
			return report, fmt.Errorf("audit: scan event supply: %w", err)
		}
		if available > total {
			report.Findings = append(report.Findings,
				fmt.Sprintf("event %d: available_supply %d exceeds total_supply %d", id, available, total))
		}
		if total-available != minted {
			report.Findings = append(report.Findings,
				fmt.Sprintf("event %d: sold %d but %d tickets minted", id, total-available, minted))
		}
	}
	if err := rows.Err(); err != nil {
		return report, fmt.Errorf("audit: iterate event supply: %w", err)
	}

	// Journal coverage.
	var createdReceipts uint64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM receipts WHERE kind = 'event_created'`,
	).Scan(&createdReceipts); err != nil {
		return report, fmt.Errorf("audit: count creation receipts: %w", err)
	}
	if createdReceipts != eventCount {
		report.Findings = append(report.Findings,
			fmt.Sprintf("%d events but %d event_created receipts", eventCount, createdReceipts))
	}

	var purchasedQty uint64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM receipts
		WHERE kind IN ('ticket_purchased', 'batch_purchased')
	`).Scan(&purchasedQty); err != nil {
		return report, fmt.Errorf("audit: sum purchase quantities: %w", err)
	}
	if purchasedQty != ticketCount {
		report.Findings = append(report.Findings,
			fmt.Sprintf("%d tickets but purchase receipts cover %d", ticketCount, purchasedQty))
	}

	report.Consistent = len(report.Findings) == 0
	return report, nil
}
