package notify

import (
	"context"
	"sync"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
)

// MemoryBus fans out snapshots inside one process. A subscriber that falls
// behind only ever sees the most recent snapshot.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[chan account.Account]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[chan account.Account]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, snapshot account.Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[snapshot.UserID] {
		offerLatest(ch, snapshot)
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, userID string) (<-chan account.Account, error) {
	ch := make(chan account.Account, 1)

	b.mu.Lock()
	set, ok := b.subs[userID]
	if !ok {
		set = make(map[chan account.Account]struct{})
		b.subs[userID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[userID], ch)
		if len(b.subs[userID]) == 0 {
			delete(b.subs, userID)
		}
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

func (b *MemoryBus) subscriberCount(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// offerLatest replaces a pending unread snapshot instead of blocking.
func offerLatest(ch chan account.Account, snapshot account.Account) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}
