package postgres

import (
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
)

const accountsTable = "accounts"

type accountTableModel struct {
	UserID          string    `db:"user_id"`
	Email           string    `db:"email"`
	Credits         int       `db:"credits"`
	TotalSpentMinor int64     `db:"total_spent_minor"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type accountInsertModel struct {
	UserID          string `db:"user_id"`
	Email           string `db:"email"`
	Credits         int    `db:"credits"`
	TotalSpentMinor int64  `db:"total_spent_minor"`
}

var accountColumns = []string{"user_id", "email", "credits", "total_spent_minor", "created_at", "updated_at"}

func (m accountTableModel) toDomain() account.Account {
	return account.Account{
		UserID:          m.UserID,
		Email:           m.Email,
		Credits:         m.Credits,
		TotalSpentMinor: m.TotalSpentMinor,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
