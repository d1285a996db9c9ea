package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
)

const historyTable = "analysis_history"

type historyTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BetType   string    `db:"bet_type"`
	Results   []byte    `db:"results"`
	CreatedAt time.Time `db:"created_at"`
}

var historyColumns = []string{"id", "user_id", "bet_type", "results", "created_at"}

func historyRowFromDomain(entry analysis.HistoryEntry) (historyTableModel, error) {
	results := entry.Results
	if results == nil {
		results = []analysis.MatchAnalysis{}
	}
	encoded, err := sonic.Marshal(results)
	if err != nil {
		return historyTableModel{}, fmt.Errorf("encode history results: %w", err)
	}
	return historyTableModel{
		ID:        entry.ID,
		UserID:    entry.UserID,
		BetType:   string(entry.BetType),
		Results:   encoded,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func (m historyTableModel) toDomain() (analysis.HistoryEntry, error) {
	var results []analysis.MatchAnalysis
	if len(m.Results) > 0 {
		if err := sonic.Unmarshal(m.Results, &results); err != nil {
			return analysis.HistoryEntry{}, fmt.Errorf("decode history results for %s: %w", m.ID, err)
		}
	}
	return analysis.HistoryEntry{
		ID:        m.ID,
		UserID:    m.UserID,
		BetType:   analysis.BetType(m.BetType),
		Results:   results,
		CreatedAt: m.CreatedAt,
	}, nil
}
