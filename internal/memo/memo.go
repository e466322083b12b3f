// Package memo provides time-windowed memoization of a function's result
// keyed by a canonical serialization of its arguments. Concurrent calls
// for the same key within a window share one underlying invocation.
package memo

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Memo caches values for a fixed TTL. Errors are never cached: a failed
// invocation leaves the window open for the next caller.
type Memo[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry[T]
	group   singleflight.Group
}

func New[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[T]),
	}
}

func (m *Memo[T]) get(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now().After(e.expires) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Do returns the cached value for key when its window is still open,
// otherwise invokes fn and caches the result for the TTL.
func (m *Memo[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := m.get(key); ok {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the entry while this
		// call waited on the flight group.
		if v, ok := m.get(key); ok {
			return v, nil
		}

		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.entries[key] = entry[T]{value: value, expires: m.now().Add(m.ttl)}
		m.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Flush drops every cached entry.
func (m *Memo[T]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry[T])
}

// CanonicalKey serializes params deterministically: equal maps produce
// equal keys regardless of construction order.
func CanonicalKey(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}
