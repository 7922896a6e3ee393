// Package dedupe guards the notification endpoint against repeated
// deliveries of the same wizard session.
package dedupe

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a claimed key blocks repeats.
const DefaultTTL = 24 * time.Hour

// Guard claims idempotency keys.
type Guard interface {
	// Claim reserves key. It reports false when the key is already held.
	Claim(ctx context.Context, key string) (bool, error)

	// Release drops a claim so a later retry can proceed.
	Release(ctx context.Context, key string) error

	Close() error
}

// Memory is an in-process Guard for single-instance deployments and tests.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
	now  func() time.Time
}

var _ Guard = (*Memory)(nil)

// NewMemory creates an in-memory guard. A ttl <= 0 uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:  ttl,
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (m *Memory) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.keys[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)
	m.sweep(now)
	return true, nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of live claims.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
	return len(m.keys)
}

func (m *Memory) sweep(now time.Time) {
	for k, exp := range m.keys {
		if !now.Before(exp) {
			delete(m.keys, k)
		}
	}
}
