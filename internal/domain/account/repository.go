package account

import "context"

// Repository defines the operations for persisting and retrieving accounts.
type Repository interface {
	// Ensure creates the account on first contact and returns it either way.
	Ensure(ctx context.Context, userID int64) (*Account, error)
	Get(ctx context.Context, userID int64) (*Account, error)
	SetRemindersEnabled(ctx context.Context, userID int64, enabled bool) error
	// ListRemindersEnabled returns the accounts the reminder scan covers.
	ListRemindersEnabled(ctx context.Context) ([]Account, error)
}
