package domain

import "errors"

var (
	// Money errors
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInvalidAmountType = errors.New("amount is not a valid decimal")

	// Account and routing errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAmbiguousAccount  = errors.New("more than one account matches entry type")
	ErrEntryTypeMismatch = errors.New("entry type does not belong to account type")
	ErrSameAccount       = errors.New("cannot transfer to same account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Catalog errors
	ErrTypeNotFound = errors.New("catalog type not found")

	// Rule resolution errors
	ErrNoApplicableRule         = errors.New("no posting rule found for event")
	ErrInvalidRuleConfiguration = errors.New("invalid posting rule configuration")
	ErrAgreementNotFound        = errors.New("service agreement not found")
	ErrCustomerNotFound         = errors.New("customer not found")
	ErrEventNotFound            = errors.New("accounting event not found")

	// Event state machine errors
	ErrAlreadyProcessed = errors.New("event already processed")
	ErrAlreadyReversed  = errors.New("event already reversed")
	ErrNotProcessed     = errors.New("event has not been processed")
	ErrAdjustmentCycle  = errors.New("adjustment chain contains a cycle")
)
