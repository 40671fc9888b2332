package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/clock"
	"github.com/stagedoor/boxoffice/internal/store"
)

// fakeBank is an in-memory bank.Service with the vault's semantics:
// debits need a known, funded account; credits create accounts.
type fakeBank struct {
	balances    map[string]uint64
	transferErr error // when set, every Transfer fails with this error
	transfers   int   // successful transfers, debits and refunds alike
}

func newFakeBank() *fakeBank {
	return &fakeBank{balances: make(map[string]uint64)}
}

func (b *fakeBank) fund(account string, amount uint64) {
	b.balances[account] += amount
}

func (b *fakeBank) Balance(ctx context.Context, account string) (uint64, error) {
	bal, ok := b.balances[account]
	if !ok {
		return 0, bank.ErrUnknownAccount
	}
	return bal, nil
}

func (b *fakeBank) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if b.transferErr != nil {
		return b.transferErr
	}
	bal, ok := b.balances[from]
	if !ok {
		return bank.ErrUnknownAccount
	}
	if bal < amount {
		return bank.ErrInsufficientFunds
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	b.transfers++
	return nil
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type testEnv struct {
	engine *Engine
	store  *store.Store
	bank   *fakeBank
	clock  *clock.Manual
}

// setupTestEngine builds an engine over a fresh store and fake bank.
// The manual clock starts at zero, matching the fresh store's height,
// the same alignment the production wiring establishes at startup.
func setupTestEngine(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	s := setupTestStore(t)
	b := newFakeBank()
	clk := clock.NewManual(0)
	e, err := New(s, b, clk, "treasury", opts...)
	require.NoError(t, err)
	return &testEnv{engine: e, store: s, bank: b, clock: clk}
}

// futureEvent returns creation params for an event far in the future.
func futureEvent(name string, supply, basePrice uint64) CreateEventParams {
	return CreateEventParams{
		Creator:     "organizer",
		Name:        name,
		Description: "an event",
		Venue:       "Main Hall",
		EventType:   "concert",
		EventHeight: 1000,
		TotalSupply: supply,
		BasePrice:   basePrice,
	}
}

// seats returns n distinct seat labels for batch purchases.
func seats(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "seat-" + string(rune('A'+i))
	}
	return out
}
