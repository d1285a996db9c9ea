package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
)

// Store keeps accounts, history and purchase records in one mutex so that
// purchase records and the credit they grant are applied together.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]account.Account
	emails      map[string]string
	history     map[string][]analysis.HistoryEntry
	redemptions map[string]purchase.Redemption
	webOrders   map[string]purchase.WebOrder
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]account.Account),
		emails:      make(map[string]string),
		history:     make(map[string][]analysis.HistoryEntry),
		redemptions: make(map[string]purchase.Redemption),
		webOrders:   make(map[string]purchase.WebOrder),
		now:         time.Now,
	}
}

func (s *Store) Create(_ context.Context, acc account.Account) (account.Account, bool, error) {
	if err := acc.Validate(); err != nil {
		return account.Account{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.accounts[acc.UserID]; ok {
		return existing, false, nil
	}
	email := account.NormalizeEmail(acc.Email)
	if owner, taken := s.emails[email]; taken {
		return account.Account{}, false, fmt.Errorf("email already registered to %s", owner)
	}

	now := s.now().UTC()
	acc.Email = email
	acc.CreatedAt = now
	acc.UpdatedAt = now
	s.accounts[acc.UserID] = acc
	s.emails[email] = acc.UserID
	return acc, true, nil
}

func (s *Store) GetByUserID(_ context.Context, userID string) (account.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[userID]
	return acc, ok, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (account.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.emails[account.NormalizeEmail(email)]
	if !ok {
		return account.Account{}, false, nil
	}
	return s.accounts[userID], true, nil
}

func (s *Store) Deduct(_ context.Context, userID string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	if acc.Credits < 1 {
		return acc, account.ErrInsufficientCredit
	}
	acc.Credits--
	acc.UpdatedAt = s.now().UTC()
	s.accounts[userID] = acc
	return acc, nil
}

func (s *Store) Credit(_ context.Context, userID string, credits int, spentMinor int64) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.creditLocked(userID, credits, spentMinor)
}

func (s *Store) creditLocked(userID string, credits int, spentMinor int64) (account.Account, error) {
	if credits <= 0 {
		return account.Account{}, fmt.Errorf("credit amount must be > 0")
	}
	acc, ok := s.accounts[userID]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	acc.Credits += credits
	if spentMinor > 0 {
		acc.TotalSpentMinor += spentMinor
	}
	acc.UpdatedAt = s.now().UTC()
	s.accounts[userID] = acc
	return acc, nil
}

func (s *Store) Append(_ context.Context, entry analysis.HistoryEntry) error {
	if strings.TrimSpace(entry.UserID) == "" {
		return fmt.Errorf("history user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	entry.Results = append([]analysis.MatchAnalysis(nil), entry.Results...)
	s.history[entry.UserID] = append(s.history[entry.UserID], entry)
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string, limit int) ([]analysis.HistoryEntry, error) {
	s.mu.RLock()
	entries := append([]analysis.HistoryEntry(nil), s.history[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Results = append([]analysis.MatchAnalysis(nil), entries[i].Results...)
	}
	return entries, nil
}

func (s *Store) GetRedemption(_ context.Context, purchaseToken string) (purchase.Redemption, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.redemptions[purchaseToken]
	return r, ok, nil
}

func (s *Store) RedeemAndCredit(_ context.Context, redemption purchase.Redemption, spentMinor int64) (account.Account, error) {
	if err := redemption.Validate(); err != nil {
		return account.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.redemptions[redemption.PurchaseToken]; exists {
		return account.Account{}, purchase.ErrAlreadyRedeemed
	}
	acc, err := s.creditLocked(redemption.UserID, redemption.Credits, spentMinor)
	if err != nil {
		return account.Account{}, err
	}
	if redemption.RedeemedAt.IsZero() {
		redemption.RedeemedAt = s.now().UTC()
	}
	s.redemptions[redemption.PurchaseToken] = redemption
	return acc, nil
}

func (s *Store) SettleWebOrder(_ context.Context, order purchase.WebOrder, dedup bool) (account.Account, error) {
	if err := order.Validate(); err != nil {
		return account.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dedup {
		if _, exists := s.webOrders[order.OrderID]; exists {
			return account.Account{}, purchase.ErrAlreadySettled
		}
	}
	acc, err := s.creditLocked(order.UserID, order.Credits, order.AmountMinor)
	if err != nil {
		return account.Account{}, err
	}
	if dedup {
		if order.SettledAt.IsZero() {
			order.SettledAt = s.now().UTC()
		}
		s.webOrders[order.OrderID] = order
	}
	return acc, nil
}
