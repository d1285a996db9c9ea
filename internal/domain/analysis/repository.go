package analysis

import "context"

// HistoryRepository persists completed runs per user.
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	// ListByUser returns entries newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}
