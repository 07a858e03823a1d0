// Package cache provides the time-bounded store behind the product
// listing. Entries carry a TTL and are invalidated wholesale, by key
// prefix, whenever a writer touches the catalog.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Invalidate drops every entry whose key starts with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process Store: RWMutex map with per-entry expiry,
// reaped lazily on read and by a periodic sweep.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memEntry
	done  chan struct{}
}

func NewMemory(sweepEvery time.Duration) *Memory {
	m := &Memory{items: make(map[string]memEntry), done: make(chan struct{})}
	if sweepEvery > 0 {
		go m.sweep(sweepEvery)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		// a fresh Set may have landed between the two locks; only reap
		// the entry if it is still expired
		if cur, ok := m.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memEntry{value: val, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *Memory) Close() { close(m.done) }

func (m *Memory) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			now := time.Now()
			m.mu.Lock()
			for k, e := range m.items {
				if now.After(e.expiresAt) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}
