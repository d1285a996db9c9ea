package purchase

import (
	"context"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
)

// Repository persists purchase idempotency records. Both write methods apply
// the record and the ledger credit in one atomic unit.
type Repository interface {
	GetRedemption(ctx context.Context, purchaseToken string) (Redemption, bool, error)
	// RedeemAndCredit fails with ErrAlreadyRedeemed when the token exists.
	RedeemAndCredit(ctx context.Context, redemption Redemption, spentMinor int64) (account.Account, error)
	// SettleWebOrder credits the order's user. With dedup it first records the
	// order id and fails with ErrAlreadySettled when it exists.
	SettleWebOrder(ctx context.Context, order WebOrder, dedup bool) (account.Account, error)
}
