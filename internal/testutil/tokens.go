// Package testutil provides deterministic helpers shared by tests and the
// scenario harness.
package testutil

import (
	"fmt"
	"sync"
)

// TokenSequence generates receipt tokens "prefix-000001", "prefix-000002",
// and so on. Unlike the engine's fixed generator it never exhausts, so a
// scenario does not need to know its mutation count up front, and the same
// scenario always journals the same tokens.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type TokenSequence struct {
	mu     sync.Mutex
	prefix string
	n      uint64
}

// NewTokenSequence creates a sequence with the given prefix.
// An empty prefix defaults to "rcpt".
func NewTokenSequence(prefix string) *TokenSequence {
	if prefix == "" {
		prefix = "rcpt"
	}
	return &TokenSequence{prefix: prefix}
}

// Generate returns the next token in the sequence.
func (s *TokenSequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%06d", s.prefix, s.n)
}

// Count returns how many tokens have been generated so far.
func (s *TokenSequence) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset restarts the sequence. After Reset the next Generate returns
// "prefix-000001" again, so a re-run journals identical tokens.
func (s *TokenSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
