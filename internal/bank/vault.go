package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const vaultSchema = `
CREATE TABLE IF NOT EXISTS accounts (
    account TEXT PRIMARY KEY,
    balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
);
`

// Vault is a SQLite-backed bank. It lives in its own database file,
// never the ledger's: SQLite allows one writer per file, and a purchase
// holds a write transaction on each side.
type Vault struct {
	db *sql.DB
}

// Open creates or opens a vault database at the given path.
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Vault, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}

	// Same single-writer discipline as the ledger store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(vaultSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply vault schema: %w", err)
	}

	return &Vault{db: db}, nil
}

// Close closes the vault database connection.
func (v *Vault) Close() error {
	if v.db == nil {
		return nil
	}
	return v.db.Close()
}

// Balance returns the current balance of an account.
// Returns ErrUnknownAccount for accounts that were never funded.
func (v *Vault) Balance(ctx context.Context, account string) (uint64, error) {
	var balance uint64
	err := v.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account = ?`, account,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("account %q: %w", account, ErrUnknownAccount)
	}
	if err != nil {
		return 0, fmt.Errorf("read balance of %q: %w", account, err)
	}
	return balance, nil
}

// Deposit credits an account, creating it if necessary. This is the
// funding entry point; transfers alone cannot mint money.
func (v *Vault) Deposit(ctx context.Context, account string, amount uint64) error {
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO accounts (account, balance) VALUES (?, ?)
		ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance
	`, account, amount)
	if err != nil {
		return fmt.Errorf("deposit %d to %q: %w", amount, account, err)
	}
	return nil
}

// Transfer atomically moves amount between accounts in one transaction.
// The source account must exist and cover the amount; the destination is
// created on first credit.
func (v *Vault) Transfer(ctx context.Context, from, to string, amount uint64) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transfer: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var balance uint64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account = ?`, from,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transfer from %q: %w", from, ErrUnknownAccount)
	}
	if err != nil {
		return fmt.Errorf("transfer: read balance of %q: %w", from, err)
	}
	if balance < amount {
		return fmt.Errorf("transfer %d from %q (balance %d): %w",
			amount, from, balance, ErrInsufficientFunds)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ? WHERE account = ?`,
		amount, from,
	); err != nil {
		return fmt.Errorf("transfer: debit %q: %w", from, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (account, balance) VALUES (?, ?)
		ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance
	`, to, amount); err != nil {
		return fmt.Errorf("transfer: credit %q: %w", to, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transfer: commit: %w", err)
	}

	return nil
}
