package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/samber/oops"
)

const sweepEvery = 256

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryBackend is a process-local [Backend] with the same key and TTL
// semantics as Redis. Expired entries are dropped on access and by a sweep
// that runs every few hundred writes.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	writes  int
	now     func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryBackend) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, expiresAt: m.deadline(ttl)}
	m.afterWriteLocked()
	return nil
}

func (m *MemoryBackend) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && !e.expired(m.now()) {
		return false, nil
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.deadline(ttl)}
	m.afterWriteLocked()
	return true, nil
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryBackend) Del(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if ok && e.expired(m.now()) {
		ok = false
	}
	if !ok {
		e = memoryEntry{value: "0", expiresAt: m.deadline(ttl)}
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, oops.In("session").With("key", key).Errorf("value is not an integer")
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.entries[key] = e
	m.afterWriteLocked()
	return n, nil
}

// Ping always succeeds.
func (m *MemoryBackend) Ping(context.Context) error { return nil }

// Len reports the number of live entries.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.entries)
}

func (m *MemoryBackend) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryBackend) afterWriteLocked() {
	m.writes++
	if m.writes%sweepEvery == 0 {
		m.sweepLocked()
	}
}

func (m *MemoryBackend) sweepLocked() {
	now := m.now()
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}
