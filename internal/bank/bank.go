// Package bank holds account balances and moves funds between accounts.
//
// The ledger engine only depends on the Service interface; the SQLite
// Vault is the production implementation. Keeping the bank in its own
// database file means a purchase spans two stores, which is why the
// engine treats the debit and the ledger write as separate steps with
// an explicit compensation path.
package bank

import (
	"context"
	"errors"
)

var (
	// ErrUnknownAccount is returned when the debited account has never
	// been funded. Credited accounts are created on first use.
	ErrUnknownAccount = errors.New("bank: unknown account")

	// ErrInsufficientFunds is returned when the debited account holds
	// less than the transfer amount.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
)

// Service is the payment surface the engine depends on.
type Service interface {
	// Balance returns the current balance of an account.
	Balance(ctx context.Context, account string) (uint64, error)

	// Transfer atomically moves amount from one account to another.
	// The destination account is created if it does not exist.
	Transfer(ctx context.Context, from, to string, amount uint64) error
}
