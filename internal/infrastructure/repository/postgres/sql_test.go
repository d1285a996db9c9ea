package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	t.Run("matches wrapped 23505", func(t *testing.T) {
		err := fmt.Errorf("insert redemption: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
		if isUniqueViolation(sql.ErrNoRows) {
			t.Fatalf("expected false for no rows")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("lock account: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone not to be not found")
	}
}

func TestHistoryRowCodec(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := analysis.HistoryEntry{
		ID:      "h-1",
		UserID:  "u-1",
		BetType: analysis.BetTypeBothScore,
		Results: []analysis.MatchAnalysis{
			{Match: "Galatasaray vs Fenerbahçe", Prediction: "KG Var", Confidence: analysis.ConfidenceHigh, Reasoning: "Son 5 maçta iki takım da gol attı."},
		},
		CreatedAt: createdAt,
	}

	row, err := historyRowFromDomain(entry)
	if err != nil {
		t.Fatalf("encode row: %v", err)
	}
	if row.BetType != "KG" {
		t.Fatalf("unexpected bet type column: %q", row.BetType)
	}

	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].Match != "Galatasaray vs Fenerbahçe" || got.Results[0].Confidence != analysis.ConfidenceHigh {
		t.Fatalf("unexpected decoded results: %+v", got.Results)
	}
	if !got.CreatedAt.Equal(createdAt) || got.BetType != analysis.BetTypeBothScore {
		t.Fatalf("unexpected decoded entry: %+v", got)
	}
}

func TestHistoryRowCodec_EmptyResultsEncodeAsArray(t *testing.T) {
	t.Parallel()

	row, err := historyRowFromDomain(analysis.HistoryEntry{ID: "h-2", UserID: "u-1", BetType: analysis.BetTypeFullTime})
	if err != nil {
		t.Fatalf("encode row: %v", err)
	}
	if string(row.Results) != "[]" {
		t.Fatalf("expected empty json array, got %s", row.Results)
	}

	if _, err := (historyTableModel{ID: "h-3", Results: []byte("{broken")}).toDomain(); err == nil {
		t.Fatalf("expected decode error for malformed results")
	}
}
