package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	qb "github.com/riskibarqy/betslip-analyzer/internal/platform/querybuilder"
)

// PurchaseRepository records redemptions and web orders in the same
// transaction as the matching ledger credit.
type PurchaseRepository struct {
	db *sqlx.DB
}

func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) GetRedemption(ctx context.Context, purchaseToken string) (purchase.Redemption, bool, error) {
	query, args, err := qb.Select(redemptionColumns...).
		From(redemptionsTable).
		Where(qb.Eq("purchase_token", purchaseToken)).
		Limit(1).
		ToSQL()
	if err != nil {
		return purchase.Redemption{}, false, fmt.Errorf("build select redemption query: %w", err)
	}

	var row redemptionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return purchase.Redemption{}, false, nil
		}
		return purchase.Redemption{}, false, fmt.Errorf("get redemption: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PurchaseRepository) RedeemAndCredit(ctx context.Context, redemption purchase.Redemption, spentMinor int64) (account.Account, error) {
	if err := redemption.Validate(); err != nil {
		return account.Account{}, err
	}

	var out account.Account
	err := inTx(ctx, r.db, "purchase redemption", func(tx *sqlx.Tx) error {
		builder, err := qb.InsertModel(redemptionsTable, redemptionRowFromDomain(redemption))
		if err != nil {
			return fmt.Errorf("build insert redemption query: %w", err)
		}
		query, args, err := builder.OnConflictDoNothing("(purchase_token)").Returning("purchase_token").ToSQL()
		if err != nil {
			return fmt.Errorf("build insert redemption query: %w", err)
		}

		var inserted string
		if err := tx.GetContext(ctx, &inserted, query, args...); err != nil {
			if isNotFound(err) || isUniqueViolation(err) {
				return purchase.ErrAlreadyRedeemed
			}
			return fmt.Errorf("insert redemption: %w", err)
		}

		acc, err := creditTx(ctx, tx, redemption.UserID, redemption.Credits, spentMinor)
		if err != nil {
			return err
		}
		out = acc
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}
	return out, nil
}

// SettleWebOrder credits the buyer. When dedup is on the order id is
// recorded first and a replay returns purchase.ErrAlreadySettled.
func (r *PurchaseRepository) SettleWebOrder(ctx context.Context, order purchase.WebOrder, dedup bool) (account.Account, error) {
	if err := order.Validate(); err != nil {
		return account.Account{}, err
	}

	var out account.Account
	err := inTx(ctx, r.db, "web order settle", func(tx *sqlx.Tx) error {
		if dedup {
			builder, err := qb.InsertModel(webOrdersTable, webOrderRowFromDomain(order))
			if err != nil {
				return fmt.Errorf("build insert web order query: %w", err)
			}
			query, args, err := builder.OnConflictDoNothing("(order_id)").Returning("order_id").ToSQL()
			if err != nil {
				return fmt.Errorf("build insert web order query: %w", err)
			}

			var inserted string
			if err := tx.GetContext(ctx, &inserted, query, args...); err != nil {
				if isNotFound(err) || isUniqueViolation(err) {
					return purchase.ErrAlreadySettled
				}
				return fmt.Errorf("insert web order: %w", err)
			}
		}

		acc, err := creditTx(ctx, tx, order.UserID, order.Credits, order.AmountMinor)
		if err != nil {
			return err
		}
		out = acc
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}
	return out, nil
}
