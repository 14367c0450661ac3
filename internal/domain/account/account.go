package account

import "time"

// Account represents one bot user. UserID is the Telegram sender ID,
// the stable identifier everything else is scoped by.
type Account struct {
	UserID           int64
	RemindersEnabled bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
