package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	qb "github.com/riskibarqy/betslip-analyzer/internal/platform/querybuilder"
)

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry analysis.HistoryEntry) error {
	row, err := historyRowFromDomain(entry)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto(historyTable).
		Columns(historyColumns...).
		Values(row.ID, row.UserID, row.BetType, string(row.Results), row.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert history query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]analysis.HistoryEntry, error) {
	query, args, err := qb.Select(historyColumns...).
		From(historyTable).
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list history query: %w", err)
	}

	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]analysis.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
