package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagedoor/boxoffice/internal/clock"
)

func TestNew_Basic(t *testing.T) {
	s := setupTestStore(t)

	e, err := New(s, newFakeBank(), clock.NewManual(0), "treasury")
	require.NoError(t, err)

	assert.NotNil(t, e)
	assert.Equal(t, "treasury", e.treasury)
	// Default token generator is the production UUIDv7 one.
	assert.IsType(t, UUIDv7Generator{}, e.tokens)
}

func TestNew_MissingCollaborators(t *testing.T) {
	s := setupTestStore(t)
	b := newFakeBank()
	clk := clock.NewManual(0)

	tests := []struct {
		name string
		fn   func() (*Engine, error)
	}{
		{"nil store", func() (*Engine, error) { return New(nil, b, clk, "treasury") }},
		{"nil bank", func() (*Engine, error) { return New(s, nil, clk, "treasury") }},
		{"nil clock", func() (*Engine, error) { return New(s, b, nil, "treasury") }},
		{"empty treasury", func() (*Engine, error) { return New(s, b, clk, "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			assert.Error(t, err)
		})
	}
}

func TestNew_WithReceiptTokens(t *testing.T) {
	s := setupTestStore(t)
	gen := NewFixedGenerator("rcpt-1")

	e, err := New(s, newFakeBank(), clock.NewManual(0), "treasury", WithReceiptTokens(gen))
	require.NoError(t, err)

	assert.Same(t, gen, e.tokens)
}

func TestTick_AdvancesStoreAndManualClock(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	h, err := env.engine.Tick(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), h)

	stored, err := env.store.Height(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), stored)

	// The manual clock follows the store, so later operations see the
	// new height without re-reading it.
	assert.Equal(t, uint64(7), env.clock.Height())

	h, err = env.engine.Tick(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), h)
	assert.Equal(t, uint64(10), env.clock.Height())
}

func TestTick_FixedClockStaysPut(t *testing.T) {
	s := setupTestStore(t)
	e, err := New(s, newFakeBank(), clock.Fixed(50), "treasury")
	require.NoError(t, err)
	ctx := context.Background()

	h, err := e.Tick(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), h)

	// A fixed per-invocation clock is a snapshot; Tick moves only the
	// stored height.
	assert.Equal(t, uint64(50), e.clock.Height())
}
