// Package querycache provides a request-keyed cache for read queries with
// explicit policies for the two failure categories callers care about:
// unauthorized upstreams and unreachable backends. Entries never go stale
// on their own; they are invalidated explicitly after mutations.
package querycache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/devitsbeka/foodvault/internal/httpclient"
	"github.com/devitsbeka/foodvault/internal/log"
	"github.com/devitsbeka/foodvault/internal/memo"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every fetch. Expiry is treated identically to a
// network failure.
const DefaultTimeout = 3 * time.Second

// Policy selects how a failure category is surfaced.
type Policy int

const (
	// PolicyDefault resolves to the per-category default: propagate for
	// unauthorized, return-empty for network failures.
	PolicyDefault Policy = iota
	// PolicyPropagate returns the error to the caller.
	PolicyPropagate
	// PolicyReturnEmpty resolves the query to the zero value so callers
	// degrade gracefully.
	PolicyReturnEmpty
)

// Options configure failure handling for a single query.
type Options struct {
	OnUnauthorized Policy
	OnNetworkError Policy
}

func (o Options) resolved() Options {
	if o.OnUnauthorized == PolicyDefault {
		o.OnUnauthorized = PolicyPropagate
	}
	if o.OnNetworkError == PolicyDefault {
		o.OnNetworkError = PolicyReturnEmpty
	}
	return o
}

// Key addresses a cache entry: the endpoint plus its parameters. Equal
// parameter sets produce equal keys regardless of map construction order.
type Key struct {
	Endpoint string
	Params   map[string]string
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Endpoint
	}
	return k.Endpoint + "?" + memo.CanonicalKey(k.Params)
}

type entry struct {
	value any
	stale bool
}

// Client is a process-wide query cache. Construct one per process and
// tear it down with it; entries are owned exclusively by their key.
type Client struct {
	log     *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = log.NullLogger()
	}
	return &Client{
		log:     logger,
		timeout: DefaultTimeout,
		entries: make(map[string]*entry),
	}
}

func (c *Client) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

func (c *Client) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value}
}

// Invalidate marks the given keys stale so the next fetch goes to the
// source. There is no cross-key dependency tracking; mutations name the
// keys they affect.
func (c *Client) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if e, ok := c.entries[k.String()]; ok {
			e.stale = true
		}
	}
}

// InvalidateEndpoint marks every entry under endpoint stale, regardless
// of parameters.
func (c *Client) InvalidateEndpoint(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k == endpoint || strings.HasPrefix(k, endpoint+"?") {
			e.stale = true
		}
	}
}

// Fetch returns the cached value for key, or invokes fn under the client's
// timeout and caches the result. Concurrent fetches for one key coalesce
// to a single invocation. Failures are classified and surfaced per opts;
// a query resolved by policy returns the zero value and a nil error.
func Fetch[T any](ctx context.Context, c *Client, key Key, opts Options, fn func(context.Context) (T, error)) (T, error) {
	ks := key.String()

	if v, ok := c.lookup(ks); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := c.group.Do(ks, func() (any, error) {
		if v, ok := c.lookup(ks); ok {
			return v, nil
		}

		fctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		value, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		c.store(ks, value)
		return value, nil
	})

	var zero T
	if err != nil {
		resolved := opts.resolved()
		switch {
		case httpclient.IsUnauthorized(err):
			if resolved.OnUnauthorized == PolicyReturnEmpty {
				c.log.DebugContext(ctx, "unauthorized query resolved empty", slog.String("key", ks))
				return zero, nil
			}
		case httpclient.IsNetworkError(err):
			if resolved.OnNetworkError == PolicyReturnEmpty {
				c.log.WarnContext(ctx, "backend unreachable, query resolved empty",
					slog.String("key", ks), slog.Any("error", err))
				return zero, nil
			}
		}
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		// The key was cached under a different type. Treat as a miss
		// rather than poisoning the caller.
		c.log.ErrorContext(ctx, "query cache type mismatch", slog.String("key", ks))
		return zero, nil
	}
	return typed, nil
}

// Invalidation names cache state a successful mutation affects: a single
// Key or a whole Endpoint.
type Invalidation interface {
	invalidate(*Client)
}

func (k Key) invalidate(c *Client) { c.Invalidate(k) }

type Endpoint string

func (e Endpoint) invalidate(c *Client) { c.InvalidateEndpoint(string(e)) }

// Mutate runs a mutation exactly once and, only on success, applies the
// listed invalidations. The error is returned to the caller for explicit
// handling; nothing is retried.
func (c *Client) Mutate(ctx context.Context, fn func(context.Context) error, invalidations ...Invalidation) error {
	mctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := fn(mctx); err != nil {
		return err
	}
	for _, inv := range invalidations {
		inv.invalidate(c)
	}
	return nil
}
