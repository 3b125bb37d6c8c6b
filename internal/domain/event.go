package domain

import (
	"fmt"
	"time"
)

// EventKind identifies the shape of an accounting event. Like rule
// kinds, the set is closed.
type EventKind string

const (
	EventKindDeposit    EventKind = "deposit"
	EventKindWithdrawal EventKind = "withdrawal"
	EventKindTransfer   EventKind = "transfer"
	EventKindFee        EventKind = "fee"
	EventKindAdjustment EventKind = "adjustment"
)

// AccountingEvent is the unit of business activity. Processing resolves
// a posting rule through the customer's service agreement and turns the
// event into ledger entries; reversal posts compensating entries.
//
// Chained events are held as ID references, not object cycles: an event
// may point at the event it adjusts, and an adjustment carries the IDs
// of the batches it replaces and introduces.
type AccountingEvent struct {
	ID           string
	Kind         EventKind
	EventType    string
	CustomerID   string
	WhenOccurred time.Time
	WhenNoticed  time.Time

	// AccountID is set for deposit, withdrawal and fee events.
	AccountID string
	// FromAccountID and ToAccountID are set for transfer events.
	FromAccountID string
	ToAccountID   string
	Amount        Money

	// AdjustedEventID points at an event that must be reversed before
	// this one posts.
	AdjustedEventID *string
	// OldEventIDs and NewEventIDs are only set on adjustment events.
	OldEventIDs []string
	NewEventIDs []string

	ResultingEntryIDs []string
	Processed         bool
	Reversed          bool
	CreatedAt         time.Time
}

// Validate checks that the event carries the fields its kind requires.
func (e *AccountingEvent) Validate() error {
	switch e.Kind {
	case EventKindDeposit, EventKindWithdrawal, EventKindFee:
		if e.AccountID == "" {
			return fmt.Errorf("%w: %s event requires an account", ErrAccountNotFound, e.Kind)
		}

		if !e.Amount.IsPositive() {
			return ErrInvalidAmount
		}
	case EventKindTransfer:
		if e.FromAccountID == "" || e.ToAccountID == "" {
			return fmt.Errorf("%w: transfer requires source and destination accounts", ErrAccountNotFound)
		}

		if e.FromAccountID == e.ToAccountID {
			return ErrSameAccount
		}

		if !e.Amount.IsPositive() {
			return ErrInvalidAmount
		}
	case EventKindAdjustment:
		if len(e.OldEventIDs) == 0 && len(e.NewEventIDs) == 0 {
			return fmt.Errorf("%w: adjustment replaces nothing", ErrInvalidRuleConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidRuleConfiguration, e.Kind)
	}

	return nil
}

// MarkProcessed transitions Unprocessed -> Processed exactly once.
func (e *AccountingEvent) MarkProcessed() error {
	if e.Processed {
		return ErrAlreadyProcessed
	}

	e.Processed = true

	return nil
}

// MarkReversed records that compensating entries were posted. Reversing
// twice is an explicit error rather than a silent no-op.
func (e *AccountingEvent) MarkReversed() error {
	if e.Reversed {
		return ErrAlreadyReversed
	}

	e.Reversed = true

	return nil
}

// RegisterEntry adds an entry to the event's record. The set only ever
// grows; reversal entries are appended next to the originals.
func (e *AccountingEvent) RegisterEntry(entryID string) {
	e.ResultingEntryIDs = append(e.ResultingEntryIDs, entryID)
}
