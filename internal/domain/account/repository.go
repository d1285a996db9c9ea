package account

import "context"

// Repository describes account persistence needs from use cases.
type Repository interface {
	// Create inserts the account unless one already exists for the user id.
	// The returned bool reports whether a new row was written.
	Create(ctx context.Context, account Account) (Account, bool, error)
	GetByUserID(ctx context.Context, userID string) (Account, bool, error)
	GetByEmail(ctx context.Context, email string) (Account, bool, error)
}

// Ledger applies atomic balance mutations.
type Ledger interface {
	// Deduct removes exactly one credit. It returns ErrInsufficientCredit and
	// leaves the balance untouched when the balance is below one.
	Deduct(ctx context.Context, userID string) (Account, error)
	// Credit adds credits and records spentMinor into the cumulative spend.
	Credit(ctx context.Context, userID string, credits int, spentMinor int64) (Account, error)
}

// SnapshotBus fans out account snapshots to subscribers of a user id.
type SnapshotBus interface {
	Publish(ctx context.Context, snapshot Account) error
	// Subscribe returns a channel that is closed once ctx ends.
	Subscribe(ctx context.Context, userID string) (<-chan Account, error)
}
