package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:        r.Name,
		AccountType: r.AccountType,
		Currency:    r.Currency,
	}
}

// CreateCustomerRequest represents a request to create a customer.
type CreateCustomerRequest struct {
	Name        string   `json:"name"`
	AgreementID string   `json:"agreement_id,omitempty"`
	AccountIDs  []string `json:"account_ids"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:        r.Name,
		AgreementID: r.AgreementID,
		AccountIDs:  r.AccountIDs,
	}
}

// CreateAgreementRequest represents a request to create a service agreement.
type CreateAgreementRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAgreementRequest) ToUseCaseInput() usecase.CreateAgreementInput {
	return usecase.CreateAgreementInput{Rate: r.Rate}
}

// AddPostingRuleRequest represents a request to add a posting rule to an
// agreement.
type AddPostingRuleRequest struct {
	Kind       string          `json:"kind"`
	EventType  string          `json:"event_type"`
	EntryType  string          `json:"entry_type"`
	Multiplier decimal.Decimal `json:"multiplier"`
	FixedFee   decimal.Decimal `json:"fixed_fee"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddPostingRuleRequest) ToUseCaseInput(agreementID string) usecase.AddPostingRuleInput {
	return usecase.AddPostingRuleInput{
		AgreementID: agreementID,
		Kind:        domain.RuleKind(r.Kind),
		EventType:   r.EventType,
		EntryType:   r.EntryType,
		Multiplier:  r.Multiplier,
		FixedFee:    r.FixedFee,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// RecordEventRequest represents a request to record an accounting event.
// Amounts arrive as decimal strings to avoid float precision loss.
type RecordEventRequest struct {
	EventType       string     `json:"event_type"`
	Kind            string     `json:"kind"`
	CustomerID      string     `json:"customer_id"`
	AccountID       string     `json:"account_id,omitempty"`
	FromAccountID   string     `json:"from_account_id,omitempty"`
	ToAccountID     string     `json:"to_account_id,omitempty"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	WhenOccurred    *time.Time `json:"when_occurred,omitempty"`
	WhenNoticed     *time.Time `json:"when_noticed,omitempty"`
	AdjustedEventID *string    `json:"adjusted_event_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEventRequest) ToUseCaseInput() (usecase.RecordEventInput, error) {
	amount, err := domain.MoneyFromString(r.Amount, r.Currency)
	if err != nil {
		return usecase.RecordEventInput{}, err
	}

	return usecase.RecordEventInput{
		EventType:       r.EventType,
		Kind:            domain.EventKind(r.Kind),
		CustomerID:      r.CustomerID,
		AccountID:       r.AccountID,
		FromAccountID:   r.FromAccountID,
		ToAccountID:     r.ToAccountID,
		Amount:          amount,
		WhenOccurred:    r.WhenOccurred,
		WhenNoticed:     r.WhenNoticed,
		AdjustedEventID: r.AdjustedEventID,
	}, nil
}

// RecordAdjustmentRequest represents a request to replace a batch of
// events with a corrected batch.
type RecordAdjustmentRequest struct {
	EventType    string               `json:"event_type"`
	CustomerID   string               `json:"customer_id"`
	OldEventIDs  []string             `json:"old_event_ids"`
	NewEvents    []RecordEventRequest `json:"new_events"`
	WhenOccurred *time.Time           `json:"when_occurred,omitempty"`
	WhenNoticed  *time.Time           `json:"when_noticed,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordAdjustmentRequest) ToUseCaseInput() (usecase.RecordAdjustmentInput, error) {
	newEvents := make([]usecase.RecordEventInput, 0, len(r.NewEvents))

	for _, event := range r.NewEvents {
		input, err := event.ToUseCaseInput()
		if err != nil {
			return usecase.RecordAdjustmentInput{}, err
		}

		newEvents = append(newEvents, input)
	}

	return usecase.RecordAdjustmentInput{
		EventType:    r.EventType,
		CustomerID:   r.CustomerID,
		OldEventIDs:  r.OldEventIDs,
		NewEvents:    newEvents,
		WhenOccurred: r.WhenOccurred,
		WhenNoticed:  r.WhenNoticed,
	}, nil
}

// CreateCurrencyRequest represents a request to register a currency.
type CreateCurrencyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateTypeRequest represents a request to register an account type or
// event type.
type CreateTypeRequest struct {
	Name string `json:"name"`
}

// CreateEntryTypeRequest represents a request to register an entry type.
type CreateEntryTypeRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
}
