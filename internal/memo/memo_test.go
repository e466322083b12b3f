package memo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDoCachesWithinWindow(t *testing.T) {
	m := New[int](time.Minute)

	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		got, err := m.Do(context.Background(), "k", fn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 invocation, got %d", calls)
	}
}

func TestDoRefetchesAfterExpiry(t *testing.T) {
	m := New[string](time.Minute)
	current := time.Now()
	m.now = func() time.Time { return current }

	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	if _, err := m.Do(context.Background(), "k", fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current = current.Add(time.Minute + time.Second)
	if _, err := m.Do(context.Background(), "k", fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected refetch after expiry, got %d invocations", calls)
	}
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	m := New[int](time.Minute)

	calls := 0
	boom := errors.New("boom")
	fn := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := m.Do(context.Background(), "k", fn); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := m.Do(context.Background(), "k", fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 invocations, got %d", calls)
	}
}

func TestDoCoalescesConcurrentCalls(t *testing.T) {
	m := New[int](time.Minute)

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	fn := func(context.Context) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return 1, nil
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Do(context.Background(), "k", fn); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected concurrent calls to share one invocation, got %d", calls)
	}
}

func TestDoKeysAreIndependent(t *testing.T) {
	m := New[int](time.Minute)

	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	a, _ := m.Do(context.Background(), "a", fn)
	b, _ := m.Do(context.Background(), "b", fn)
	if a == b {
		t.Errorf("expected distinct keys to invoke separately, got %d and %d", a, b)
	}
}

func TestFlush(t *testing.T) {
	m := New[int](time.Minute)

	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, _ = m.Do(context.Background(), "k", fn)
	m.Flush()
	_, _ = m.Do(context.Background(), "k", fn)
	if calls != 2 {
		t.Errorf("expected flush to drop the entry, got %d invocations", calls)
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"empty", nil, ""},
		{"single", map[string]string{"q": "pasta"}, "q=pasta"},
		{"sorted", map[string]string{"type": "dinner", "q": "pasta"}, "q=pasta&type=dinner"},
		{"escaped", map[string]string{"q": "chicken soup"}, "q=chicken+soup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.params); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCanonicalKeyOrderIndependent(t *testing.T) {
	a := map[string]string{"q": "soup", "diet": "vegan", "cuisine": "thai"}
	b := map[string]string{"cuisine": "thai", "q": "soup", "diet": "vegan"}
	if CanonicalKey(a) != CanonicalKey(b) {
		t.Errorf("expected equal keys, got %q and %q", CanonicalKey(a), CanonicalKey(b))
	}
}
