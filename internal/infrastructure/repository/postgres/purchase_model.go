package postgres

import (
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
)

const (
	redemptionsTable = "purchase_redemptions"
	webOrdersTable   = "web_orders"
)

type redemptionTableModel struct {
	PurchaseToken string    `db:"purchase_token"`
	UserID        string    `db:"user_id"`
	SKU           string    `db:"sku"`
	Credits       int       `db:"credits"`
	OrderID       string    `db:"order_id"`
	RedeemedAt    time.Time `db:"redeemed_at"`
}

type webOrderTableModel struct {
	OrderID     string    `db:"order_id"`
	UserID      string    `db:"user_id"`
	BuyerEmail  string    `db:"buyer_email"`
	AmountMinor int64     `db:"amount_minor"`
	Credits     int       `db:"credits"`
	SettledAt   time.Time `db:"settled_at"`
}

var redemptionColumns = []string{"purchase_token", "user_id", "sku", "credits", "order_id", "redeemed_at"}

func redemptionRowFromDomain(r purchase.Redemption) redemptionTableModel {
	return redemptionTableModel{
		PurchaseToken: r.PurchaseToken,
		UserID:        r.UserID,
		SKU:           r.SKU,
		Credits:       r.Credits,
		OrderID:       r.OrderID,
		RedeemedAt:    r.RedeemedAt,
	}
}

func (m redemptionTableModel) toDomain() purchase.Redemption {
	return purchase.Redemption{
		PurchaseToken: m.PurchaseToken,
		UserID:        m.UserID,
		SKU:           m.SKU,
		Credits:       m.Credits,
		OrderID:       m.OrderID,
		RedeemedAt:    m.RedeemedAt,
	}
}

func webOrderRowFromDomain(o purchase.WebOrder) webOrderTableModel {
	return webOrderTableModel{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		BuyerEmail:  o.BuyerEmail,
		AmountMinor: o.AmountMinor,
		Credits:     o.Credits,
		SettledAt:   o.SettledAt,
	}
}
