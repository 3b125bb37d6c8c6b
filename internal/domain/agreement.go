package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceAgreement is the pricing context for a customer: a rate plus a
// collection of posting rules versioned by validity window. Rules are
// never mutated in place; changing pricing means closing a window and
// adding a new rule, so historical events keep resolving against the
// rule that was active when they occurred.
type ServiceAgreement struct {
	ID        string
	Rate      decimal.Decimal
	Rules     []*PostingRule
	CreatedAt time.Time
}

// PostingRuleFor resolves the rule applicable to an event type at a
// point in time. Candidates are scanned in insertion order and the
// first rule whose window contains the instant wins. The boolean is
// false when no rule matches; the caller decides whether that is an
// error.
func (sa *ServiceAgreement) PostingRuleFor(eventType string, at time.Time) (*PostingRule, bool) {
	for _, rule := range sa.Rules {
		if rule.EventType != eventType {
			continue
		}

		if rule.AppliesAt(at) {
			return rule, true
		}
	}

	return nil, false
}

// AddRule appends a rule after checking it does not overlap an existing
// window for the same event type.
func (sa *ServiceAgreement) AddRule(rule *PostingRule) error {
	for _, existing := range sa.Rules {
		if existing.EventType == rule.EventType && existing.overlaps(rule) {
			return fmt.Errorf("%w: overlapping windows for event type %q", ErrInvalidRuleConfiguration, rule.EventType)
		}
	}

	rule.AgreementID = sa.ID
	sa.Rules = append(sa.Rules, rule)

	return nil
}

// Validate checks the whole rule set for overlapping validity windows.
func (sa *ServiceAgreement) Validate() error {
	for i, a := range sa.Rules {
		for _, b := range sa.Rules[i+1:] {
			if a.EventType == b.EventType && a.overlaps(b) {
				return fmt.Errorf("%w: overlapping windows for event type %q", ErrInvalidRuleConfiguration, a.EventType)
			}
		}
	}

	return nil
}
