package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleKind selects the amount-calculation strategy of a posting rule.
// The set is closed; new behaviors are added as new kinds.
type RuleKind string

const (
	RuleKindDeposit    RuleKind = "deposit"
	RuleKindWithdrawal RuleKind = "withdrawal"
	RuleKindTransfer   RuleKind = "transfer"
	RuleKindFee        RuleKind = "fee"
)

// PostingRule maps an event type to one or more entries, valid over a
// time window. A nil EndDate means the window is open-ended.
type PostingRule struct {
	ID          string
	AgreementID string
	Kind        RuleKind
	EventType   string
	EntryType   EntryType
	Multiplier  decimal.Decimal
	FixedFee    decimal.Decimal
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// AppliesAt reports whether the rule's validity window contains at.
// Both bounds are inclusive.
func (r *PostingRule) AppliesAt(at time.Time) bool {
	if at.Before(r.StartDate) {
		return false
	}

	if r.EndDate != nil && at.After(*r.EndDate) {
		return false
	}

	return true
}

func (r *PostingRule) overlaps(other *PostingRule) bool {
	if other.EndDate != nil && other.EndDate.Before(r.StartDate) {
		return false
	}

	if r.EndDate != nil && r.EndDate.Before(other.StartDate) {
		return false
	}

	return true
}
