package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAlreadyRedeemed = errors.New("purchase token already redeemed")
	ErrAlreadySettled  = errors.New("web order already settled")
	ErrUnknownProduct  = errors.New("unknown product")
)

// Package is a purchasable credit bundle.
type Package struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Credits      int    `json:"credits"`
	PriceMinor   int64  `json:"priceMinor"`
	PriceDisplay string `json:"priceDisplay"`
	WebPrice     string `json:"webPrice"`
	Popular      bool   `json:"popular"`
}

// Redemption records a store purchase token that has been credited.
type Redemption struct {
	PurchaseToken string
	UserID        string
	SKU           string
	Credits       int
	OrderID       string
	RedeemedAt    time.Time
}

func (r Redemption) Validate() error {
	if strings.TrimSpace(r.PurchaseToken) == "" {
		return fmt.Errorf("redemption purchase token is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("redemption user id is required")
	}
	if r.Credits <= 0 {
		return fmt.Errorf("redemption credits must be > 0")
	}
	return nil
}

// WebOrder records a settled checkout callback by its platform order id.
type WebOrder struct {
	OrderID     string
	UserID      string
	BuyerEmail  string
	AmountMinor int64
	Credits     int
	SettledAt   time.Time
}

func (o WebOrder) Validate() error {
	if strings.TrimSpace(o.OrderID) == "" {
		return fmt.Errorf("web order id is required")
	}
	if strings.TrimSpace(o.UserID) == "" {
		return fmt.Errorf("web order user id is required")
	}
	if o.Credits <= 0 {
		return fmt.Errorf("web order credits must be > 0")
	}
	return nil
}

var ErrReceiptNotFound = errors.New("store receipt not found")

type ReceiptState int

const (
	ReceiptPurchased ReceiptState = iota
	ReceiptCanceled
	ReceiptPending
)

func (s ReceiptState) String() string {
	switch s {
	case ReceiptPurchased:
		return "purchased"
	case ReceiptCanceled:
		return "canceled"
	case ReceiptPending:
		return "pending"
	default:
		return "unknown"
	}
}

// StoreReceipt is the app store's view of a one-time product purchase.
type StoreReceipt struct {
	OrderID             string
	State               ReceiptState
	Acknowledged        bool
	Consumed            bool
	PurchasedAt         time.Time
	ObfuscatedAccountID string
}
