package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	qb "github.com/riskibarqy/betslip-analyzer/internal/platform/querybuilder"
)

// AccountRepository implements account.Repository and account.Ledger.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acc account.Account) (account.Account, bool, error) {
	if err := acc.Validate(); err != nil {
		return account.Account{}, false, err
	}

	builder, err := qb.InsertModel(accountsTable, accountInsertModel{
		UserID:          acc.UserID,
		Email:           account.NormalizeEmail(acc.Email),
		Credits:         acc.Credits,
		TotalSpentMinor: acc.TotalSpentMinor,
	})
	if err != nil {
		return account.Account{}, false, fmt.Errorf("build insert account query: %w", err)
	}
	query, args, err := builder.OnConflictDoNothing("(user_id)").Returning(accountColumns...).ToSQL()
	if err != nil {
		return account.Account{}, false, fmt.Errorf("build insert account query: %w", err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return account.Account{}, false, fmt.Errorf("insert account: %w", err)
		}
		existing, ok, getErr := r.GetByUserID(ctx, acc.UserID)
		if getErr != nil {
			return account.Account{}, false, getErr
		}
		if !ok {
			return account.Account{}, false, fmt.Errorf("insert account: conflicting row vanished for %s", acc.UserID)
		}
		return existing, false, nil
	}

	return row.toDomain(), true, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (account.Account, bool, error) {
	return r.getOne(ctx, qb.Eq("user_id", userID))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, bool, error) {
	return r.getOne(ctx, qb.Eq("email", account.NormalizeEmail(email)))
}

func (r *AccountRepository) getOne(ctx context.Context, cond qb.Condition) (account.Account, bool, error) {
	query, args, err := qb.Select(accountColumns...).From(accountsTable).Where(cond).Limit(1).ToSQL()
	if err != nil {
		return account.Account{}, false, fmt.Errorf("build select account query: %w", err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return account.Account{}, false, nil
		}
		return account.Account{}, false, fmt.Errorf("get account: %w", err)
	}
	return row.toDomain(), true, nil
}

// Deduct locks the row, checks the balance and decrements it in one transaction.
func (r *AccountRepository) Deduct(ctx context.Context, userID string) (account.Account, error) {
	var out account.Account
	err := inTx(ctx, r.db, "credit deduct", func(tx *sqlx.Tx) error {
		lockQuery, lockArgs, err := qb.Select(accountColumns...).
			From(accountsTable).
			Where(qb.Eq("user_id", userID)).
			ForUpdate().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build lock account query: %w", err)
		}

		var row accountTableModel
		if err := tx.GetContext(ctx, &row, lockQuery, lockArgs...); err != nil {
			if isNotFound(err) {
				return account.ErrAccountNotFound
			}
			return fmt.Errorf("lock account: %w", err)
		}
		if row.Credits < 1 {
			return account.ErrInsufficientCredit
		}

		updateQuery, updateArgs, err := qb.Update(accountsTable).
			SetExpr("credits", "credits - 1").
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("user_id", userID)).
			Returning(accountColumns...).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build deduct query: %w", err)
		}
		if err := tx.GetContext(ctx, &row, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("deduct credit: %w", err)
		}
		out = row.toDomain()
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}
	return out, nil
}

func (r *AccountRepository) Credit(ctx context.Context, userID string, credits int, spentMinor int64) (account.Account, error) {
	var out account.Account
	err := inTx(ctx, r.db, "credit grant", func(tx *sqlx.Tx) error {
		acc, err := creditTx(ctx, tx, userID, credits, spentMinor)
		out = acc
		return err
	})
	return out, err
}

func creditTx(ctx context.Context, tx *sqlx.Tx, userID string, credits int, spentMinor int64) (account.Account, error) {
	if credits <= 0 {
		return account.Account{}, fmt.Errorf("credit amount must be > 0")
	}
	if spentMinor < 0 {
		spentMinor = 0
	}

	query, args, err := qb.Update(accountsTable).
		SetExpr("credits", "credits + ?", credits).
		SetExpr("total_spent_minor", "total_spent_minor + ?", spentMinor).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID)).
		Returning(accountColumns...).
		ToSQL()
	if err != nil {
		return account.Account{}, fmt.Errorf("build credit query: %w", err)
	}

	var row accountTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("credit account: %w", err)
	}
	return row.toDomain(), nil
}
