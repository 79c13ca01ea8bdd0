// Package session provides the key/value storage the navigation guard reads
// the session token from, and the helpers that inject it per navigation.
package session

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// TokenKey is the storage key holding the session token.
const TokenKey = "token"

// Store is a read-only view of persistent client key/value storage.
type Store interface {
	Get(key string) (value string, ok bool)
}

// HasToken reports whether s holds a non-empty value under key.
// The value is an opaque token and is not validated.
func HasToken(s Store, key string) bool {
	if s == nil {
		return false
	}
	v, ok := s.Get(key)
	return ok && v != ""
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a store holding a copy of initial.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a value.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Fingerprint returns a short, non-reversible identifier for a token,
// suitable for logs.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// empty is the Store used when none was injected.
type empty struct{}

func (empty) Get(string) (string, bool) { return "", false }
