package services

import "sync"

// TokenBlacklist holds tokens revoked by logout. Entries live until the
// process restarts, which outlasts every token's 24h expiry in practice.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]bool
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: make(map[string]bool)}
}

func (b *TokenBlacklist) Add(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = true
}

func (b *TokenBlacklist) Contains(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tokens[token]
}
