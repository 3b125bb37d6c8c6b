package domain

import "time"

// Entry is a single immutable posting of a signed amount to an account.
// Reversal never edits an entry; it creates a new one with the negated
// amount.
type Entry struct {
	ID        string
	AccountID string
	EventID   string
	EntryType EntryType
	Amount    Money
	Date      time.Time
	CreatedAt time.Time
}
