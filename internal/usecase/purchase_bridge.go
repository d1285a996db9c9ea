package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	idgen "github.com/riskibarqy/betslip-analyzer/internal/platform/id"
)

const defaultTicketTTL = 15 * time.Minute

// StartPurchase asks the client to open the store flow for one SKU.
type StartPurchase struct {
	UserID string
	SKU    string
}

// PurchaseCompleted reports how a started purchase ended.
type PurchaseCompleted struct {
	TicketID string `json:"ticketId"`
	UserID   string `json:"-"`
	SKU      string `json:"sku"`
	Success  bool   `json:"success"`
	Credits  int    `json:"credits"`
	Balance  int    `json:"balance"`
	Error    string `json:"error,omitempty"`
}

type PurchaseTicket struct {
	ID        string    `json:"ticketId"`
	UserID    string    `json:"-"`
	SKU       string    `json:"sku"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type pendingTicket struct {
	ticket   PurchaseTicket
	done     chan struct{}
	result   PurchaseCompleted
	resolved bool
}

// PurchaseBridge pairs purchase starts with their completions. Completion
// resolves the oldest pending ticket of the same user and SKU.
type PurchaseBridge struct {
	mu      sync.Mutex
	tickets map[string]*pendingTicket
	order   []string
	catalog *purchase.Catalog
	idGen   idgen.Generator
	ttl     time.Duration
	now     func() time.Time
}

func NewPurchaseBridge(catalog *purchase.Catalog, idGen idgen.Generator, ttl time.Duration) *PurchaseBridge {
	if ttl <= 0 {
		ttl = defaultTicketTTL
	}
	return &PurchaseBridge{
		tickets: make(map[string]*pendingTicket),
		catalog: catalog,
		idGen:   idGen,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (b *PurchaseBridge) Start(ctx context.Context, req StartPurchase) (PurchaseTicket, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PurchaseBridge.Start")
	defer span.End()

	req.UserID = strings.TrimSpace(req.UserID)
	req.SKU = strings.TrimSpace(req.SKU)
	if req.UserID == "" {
		return PurchaseTicket{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, ok := b.catalog.BySKU(req.SKU); !ok {
		return PurchaseTicket{}, fmt.Errorf("%w: %v: %s", ErrInvalidInput, purchase.ErrUnknownProduct, req.SKU)
	}

	id, err := b.idGen.NewID()
	if err != nil {
		return PurchaseTicket{}, fmt.Errorf("generate ticket id: %w", err)
	}
	now := b.now().UTC()
	ticket := PurchaseTicket{
		ID:        id,
		UserID:    req.UserID,
		SKU:       req.SKU,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.purgeLocked(now)
	b.tickets[id] = &pendingTicket{ticket: ticket, done: make(chan struct{})}
	b.order = append(b.order, id)
	return ticket, nil
}

// Complete resolves the oldest live ticket for the user and SKU. An empty
// SKU matches any SKU of that user. It reports whether a ticket was found.
func (b *PurchaseBridge) Complete(msg PurchaseCompleted) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for _, id := range b.order {
		p := b.tickets[id]
		if p == nil || p.resolved || !now.Before(p.ticket.ExpiresAt) {
			continue
		}
		if p.ticket.UserID != msg.UserID {
			continue
		}
		if msg.SKU != "" && p.ticket.SKU != msg.SKU {
			continue
		}
		msg.TicketID = id
		if msg.SKU == "" {
			msg.SKU = p.ticket.SKU
		}
		b.resolveLocked(p, msg)
		return true
	}
	return false
}

// Await blocks until the ticket resolves, expires or ctx ends. The bool is
// false when ctx ended first.
func (b *PurchaseBridge) Await(ctx context.Context, userID, ticketID string) (PurchaseCompleted, bool, error) {
	b.mu.Lock()
	p, ok := b.tickets[ticketID]
	if !ok || p.ticket.UserID != userID {
		b.mu.Unlock()
		return PurchaseCompleted{}, false, fmt.Errorf("%w: purchase ticket %s", ErrNotFound, ticketID)
	}
	if p.resolved {
		result := p.result
		b.mu.Unlock()
		return result, true, nil
	}
	remaining := p.ticket.ExpiresAt.Sub(b.now())
	b.mu.Unlock()

	if remaining <= 0 {
		return b.expire(p), true, nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-p.done:
		b.mu.Lock()
		defer b.mu.Unlock()
		return p.result, true, nil
	case <-timer.C:
		return b.expire(p), true, nil
	case <-ctx.Done():
		return PurchaseCompleted{}, false, nil
	}
}

func (b *PurchaseBridge) expire(p *pendingTicket) PurchaseCompleted {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !p.resolved {
		b.resolveLocked(p, PurchaseCompleted{
			TicketID: p.ticket.ID,
			UserID:   p.ticket.UserID,
			SKU:      p.ticket.SKU,
			Error:    "purchase ticket expired",
		})
	}
	return p.result
}

func (b *PurchaseBridge) resolveLocked(p *pendingTicket, result PurchaseCompleted) {
	p.result = result
	p.resolved = true
	close(p.done)
}

// purgeLocked drops tickets one ttl after they expired.
func (b *PurchaseBridge) purgeLocked(now time.Time) {
	kept := b.order[:0]
	for _, id := range b.order {
		p := b.tickets[id]
		if p == nil {
			continue
		}
		if now.After(p.ticket.ExpiresAt.Add(b.ttl)) {
			delete(b.tickets, id)
			continue
		}
		kept = append(kept, id)
	}
	b.order = kept
}
