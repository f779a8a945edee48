package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBlacklist(t *testing.T) {
	b := NewTokenBlacklist()
	assert.False(t, b.Contains("tok"))

	b.Add("tok")
	assert.True(t, b.Contains("tok"))
	assert.False(t, b.Contains("other"))
}

func TestTokenBlacklistConcurrentAccess(t *testing.T) {
	b := NewTokenBlacklist()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Add("tok")
		}()
		go func() {
			defer wg.Done()
			b.Contains("tok")
		}()
	}
	wg.Wait()

	assert.True(t, b.Contains("tok"))
}
