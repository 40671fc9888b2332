// Package engine implements the boxoffice mutation engine.
//
// The engine is the single entry point to the ledger. Every public
// operation (create event, purchase, batch purchase, transfer) reads
// current state, computes prices, validates every precondition, and only
// then applies the full set of writes in one store transaction.
//
// ARCHITECTURE:
//
// Globally-serialized mutations:
// A single mutex serializes all mutating operations, so each one gets an
// exclusive read-validate-write window over the ledger. This ensures:
// - No operation observes a partially-applied effect of another
// - Price quotes inside an operation cannot go stale before its writes
// - The same ordered inputs against the same starting state replay to
//   the same ledger
//
// Operation flow:
//  1. Normalize and bound-check inputs (no lock held)
//  2. Read event/ticket state at the current logical height
//  3. Compute price, fee and total (pure arithmetic, see pricing)
//  4. Check every precondition; any failure returns before any write
//  5. Debit the payer through the bank
//  6. Apply all ledger writes in one store transaction
//  7. If the ledger write fails after the debit, refund the payer
//
// The bank is external state and cannot share the ledger's transaction,
// which is why the debit is ordered first with a compensating refund
// rather than folded into step 6. A refund failure is logged and left to
// the operator; the ledger itself never holds a partial operation.
//
// Time is a logical height supplied by a clock source, never wall-clock
// time. The engine does not advance the clock on its own; Tick is the
// only operation that moves it.
package engine
