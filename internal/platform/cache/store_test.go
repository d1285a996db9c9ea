package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[int64](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (int64, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "team:galatasaray", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != 42 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	failing := func(context.Context) (string, error) {
		calls.Add(1)
		return "", errors.New("provider down")
	}
	if _, err := store.GetOrLoad(t.Context(), "k", failing); err == nil {
		t.Fatalf("expected loader error")
	}
	if _, err := store.GetOrLoad(t.Context(), "k", failing); err == nil {
		t.Fatalf("expected loader error")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(t.Context(), "a", "1")
	store.Set(t.Context(), "b", "2")
	if _, ok := store.Get(t.Context(), "a"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(t.Context(), "a"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
	if removed := store.PurgeExpired(); removed != 1 {
		t.Fatalf("unexpected purge count: got=%d want=1", removed)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
