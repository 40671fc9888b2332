// Package store provides SQLite-backed durable storage for the boxoffice
// ledger.
//
// The store holds four tables:
//   - events: sellable occasions; only available_supply ever changes
//   - tickets: minted records; only owner ever changes
//   - counters: one row of ledger-wide scalars (id allocators, revenue
//     accumulator, current logical height)
//   - receipts: append-only journal, one row per committed mutation
//
// # Write Discipline
//
// Every multi-write operation (ApplyCreateEvent, ApplyPurchase,
// ApplyTransfer) stages all of its writes in a single transaction. An
// operation either fully commits or leaves the database untouched; there is
// no partial mint, no counter advanced without its record, no receipt
// without its mutation.
//
// Id allocation happens inside the same transaction that consumes the id:
// read the counter, insert under that value, advance the counter. Ids start
// at 1, are strictly increasing, and are never reused.
//
// # Deterministic Query Results
//
// All list queries ORDER BY id ASC so identical ledgers render identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - MaxOpenConns(1): Single writer, no SQLITE_BUSY surprises
package store
