package vectorizer

import (
	"encoding/json"
	"sync"
)

// Basis maps between tokens and dense integer ids.
// Ids are assigned in first-seen order and never change. A Basis is safe for
// concurrent use; after Freeze it only resolves tokens it already knows.
type Basis struct {
	mu     sync.RWMutex
	index  map[string]int
	names  []string
	frozen bool
}

// NewBasis creates an empty Basis.
func NewBasis() *Basis {
	return &Basis{index: make(map[string]int)}
}

// NewBasisFrom creates a frozen Basis whose ids follow the order of tokens.
func NewBasisFrom(tokens []string) *Basis {
	b := NewBasis()
	for _, t := range tokens {
		b.Add(t)
	}
	b.Freeze()
	return b
}

// Add registers token if unseen and returns its id.
// A frozen Basis returns -1 for unseen tokens.
func (b *Basis) Add(token string) int {
	b.mu.RLock()
	id, ok := b.index[token]
	frozen := b.frozen
	b.mu.RUnlock()
	if ok {
		return id
	}
	if frozen {
		return -1
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Another writer may have won the race between the two locks.
	if id, ok := b.index[token]; ok {
		return id
	}
	if b.frozen {
		return -1
	}
	id = len(b.names)
	b.index[token] = id
	b.names = append(b.names, token)
	return id
}

// ID returns the id for token.
func (b *Basis) ID(token string) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.index[token]
	return id, ok
}

// Token returns the token registered under id.
func (b *Basis) Token(id int) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if id < 0 || id >= len(b.names) {
		return "", false
	}
	return b.names[id], true
}

// Len returns the number of registered tokens.
func (b *Basis) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.names)
}

// Tokens returns a copy of all tokens in id order.
func (b *Basis) Tokens() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Freeze stops registration of new tokens.
func (b *Basis) Freeze() {
	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (b *Basis) Frozen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frozen
}

// MarshalJSON encodes the basis as its token list.
func (b *Basis) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Tokens())
}

// UnmarshalJSON rebuilds a frozen basis from a token list.
func (b *Basis) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.index = make(map[string]int, len(tokens))
	b.names = make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := b.index[t]; ok {
			continue
		}
		b.index[t] = len(b.names)
		b.names = append(b.names, t)
	}
	b.frozen = true
	return nil
}
