package account

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrAccountNotFound    = errors.New("account not found")
)

// Account is the per-user credit balance. Credits never go below zero.
type Account struct {
	UserID          string
	Email           string
	Credits         int
	TotalSpentMinor int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return fmt.Errorf("account user id is required")
	}
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("account email is required")
	}
	if a.Credits < 0 {
		return fmt.Errorf("account credits must be >= 0")
	}
	if a.TotalSpentMinor < 0 {
		return fmt.Errorf("account total spent must be >= 0")
	}

	return nil
}

// NormalizeEmail is the lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
