// Package ledger defines the domain model for the boxoffice ticket ledger.
//
// This package contains type definitions, validation predicates, and the
// error taxonomy. All other internal packages import ledger; ledger imports
// nothing internal. This keeps the domain model the foundational layer with
// no circular dependencies.
//
// Key design constraints:
//   - All money and supply values are uint64 (no floats anywhere)
//   - Time is a logical height (uint64), never a wall-clock timestamp
//   - Text fields are NFC-normalized and length-capped at the domain boundary
//   - Identifiers start at 1, are strictly increasing, and are never reused
package ledger
