package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/stagedoor/boxoffice/internal/bank"
	"github.com/stagedoor/boxoffice/internal/clock"
	"github.com/stagedoor/boxoffice/internal/ledger"
	"github.com/stagedoor/boxoffice/internal/store"
)

// ReceiptTokenGenerator generates unique receipt tokens for journal
// correlation. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests). See receipt.go for implementations.
type ReceiptTokenGenerator interface {
	Generate() string
}

// Engine orchestrates validation, pricing and store mutation for each
// public ledger operation.
//
// Thread-safety model:
//   - Mutating operations (CreateEvent, Purchase, PurchaseBatch,
//     Transfer, Tick) serialize on an internal mutex
//   - Read operations go straight to the store; the store's single
//     connection keeps each read internally consistent
//
// The treasury account receives every debit. It is fixed at
// construction, injected from configuration, never inferred from the
// caller.
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	bank     bank.Service
	clock    clock.Source
	treasury string
	tokens   ReceiptTokenGenerator
}

// Option configures optional engine parameters.
type Option func(*Engine)

// WithReceiptTokens overrides the receipt token generator.
//
// Default: UUIDv7Generator.
// Tests use FixedGenerator for deterministic journal output.
func WithReceiptTokens(gen ReceiptTokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = gen
	}
}

// New creates an Engine over a ledger store, a bank and a clock source.
//
// The treasury is the account credited with every purchase total. An
// empty treasury is a configuration error, not a default to invent.
func New(s *store.Store, b bank.Service, clk clock.Source, treasury string, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("engine: store is required")
	}
	if b == nil {
		return nil, fmt.Errorf("engine: bank is required")
	}
	if clk == nil {
		return nil, fmt.Errorf("engine: clock source is required")
	}
	treasury = ledger.Normalize(treasury)
	if treasury == "" {
		return nil, fmt.Errorf("engine: treasury account is required")
	}

	e := &Engine{
		store:    s,
		bank:     b,
		clock:    clk,
		treasury: treasury,
		tokens:   UUIDv7Generator{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Tick advances the stored logical height by delta and returns the new
// height. When the engine runs against a manual clock (the long-running
// server), the clock follows the store so subsequent operations see the
// new height without a restart.
func (e *Engine) Tick(ctx context.Context, delta uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, err := e.store.AdvanceHeight(ctx, delta)
	if err != nil {
		return 0, fmt.Errorf("tick: %w", err)
	}
	if m, ok := e.clock.(*clock.Manual); ok {
		m.Set(h)
	}
	return h, nil
}

// receipt builds the journal entry shared by all mutations. Operation
// handlers fill the kind-specific fields before handing it to the store.
func (e *Engine) receipt(kind ledger.ReceiptKind, actor string, height uint64) ledger.Receipt {
	return ledger.Receipt{
		Token:  e.tokens.Generate(),
		Kind:   kind,
		Height: height,
		Actor:  actor,
	}
}
