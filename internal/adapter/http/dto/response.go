package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		AccountType: a.AccountType,
		Currency:    a.Currency,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents a derived account balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	AsOf      *time.Time      `json:"as_of,omitempty"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	EventID   string          `json:"event_id"`
	EntryType string          `json:"entry_type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		AccountID: e.AccountID,
		EventID:   e.EventID,
		EntryType: e.EntryType.Name,
		Amount:    e.Amount.Amount(),
		Currency:  e.Amount.Currency(),
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	AgreementID string             `json:"agreement_id,omitempty"`
	Accounts    []*AccountResponse `json:"accounts"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		AgreementID: c.AgreementID,
		Accounts:    AccountsFromDomain(c.Accounts),
		CreatedAt:   c.CreatedAt,
	}
}

// PostingRuleResponse represents a posting rule in API responses.
type PostingRuleResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	EventType  string          `json:"event_type"`
	EntryType  string          `json:"entry_type"`
	Multiplier decimal.Decimal `json:"multiplier"`
	FixedFee   decimal.Decimal `json:"fixed_fee"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PostingRuleFromDomain converts domain posting rule to response.
func PostingRuleFromDomain(r *domain.PostingRule) *PostingRuleResponse {
	return &PostingRuleResponse{
		ID:         r.ID,
		Kind:       string(r.Kind),
		EventType:  r.EventType,
		EntryType:  r.EntryType.Name,
		Multiplier: r.Multiplier,
		FixedFee:   r.FixedFee,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		CreatedAt:  r.CreatedAt,
	}
}

// AgreementResponse represents a service agreement in API responses.
type AgreementResponse struct {
	ID        string                 `json:"id"`
	Rate      decimal.Decimal        `json:"rate"`
	Rules     []*PostingRuleResponse `json:"rules"`
	CreatedAt time.Time              `json:"created_at"`
}

// AgreementFromDomain converts domain agreement to response.
func AgreementFromDomain(a *domain.ServiceAgreement) *AgreementResponse {
	rules := make([]*PostingRuleResponse, len(a.Rules))
	for i, r := range a.Rules {
		rules[i] = PostingRuleFromDomain(r)
	}

	return &AgreementResponse{
		ID:        a.ID,
		Rate:      a.Rate,
		Rules:     rules,
		CreatedAt: a.CreatedAt,
	}
}

// EventResponse represents an accounting event in API responses.
type EventResponse struct {
	ID                string    `json:"id"`
	Kind              string    `json:"kind"`
	EventType         string    `json:"event_type"`
	CustomerID        string    `json:"customer_id"`
	AccountID         string    `json:"account_id,omitempty"`
	FromAccountID     string    `json:"from_account_id,omitempty"`
	ToAccountID       string    `json:"to_account_id,omitempty"`
	Amount            string    `json:"amount"`
	Currency          string    `json:"currency,omitempty"`
	WhenOccurred      time.Time `json:"when_occurred"`
	WhenNoticed       time.Time `json:"when_noticed"`
	AdjustedEventID   *string   `json:"adjusted_event_id,omitempty"`
	OldEventIDs       []string  `json:"old_event_ids,omitempty"`
	NewEventIDs       []string  `json:"new_event_ids,omitempty"`
	ResultingEntryIDs []string  `json:"resulting_entry_ids"`
	Processed         bool      `json:"processed"`
	Reversed          bool      `json:"reversed"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventFromDomain converts domain event to response.
func EventFromDomain(e *domain.AccountingEvent) *EventResponse {
	return &EventResponse{
		ID:                e.ID,
		Kind:              string(e.Kind),
		EventType:         e.EventType,
		CustomerID:        e.CustomerID,
		AccountID:         e.AccountID,
		FromAccountID:     e.FromAccountID,
		ToAccountID:       e.ToAccountID,
		Amount:            e.Amount.Amount().StringFixed(2),
		Currency:          e.Amount.Currency(),
		WhenOccurred:      e.WhenOccurred,
		WhenNoticed:       e.WhenNoticed,
		AdjustedEventID:   e.AdjustedEventID,
		OldEventIDs:       e.OldEventIDs,
		NewEventIDs:       e.NewEventIDs,
		ResultingEntryIDs: e.ResultingEntryIDs,
		Processed:         e.Processed,
		Reversed:          e.Reversed,
		CreatedAt:         e.CreatedAt,
	}
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	ReversedEvents   int64 `json:"reversed_events"`
	UnbalancedEvents int64 `json:"unbalanced_events"`
	Consistent       bool  `json:"consistent"`
}

// ConsistencyFromReport converts a use case report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		ReversedEvents:   r.ReversedEvents,
		UnbalancedEvents: r.UnbalancedEvents,
		Consistent:       r.Consistent,
	}
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CurrencyFromDomain converts domain currency to response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{Code: c.Code, Name: c.Name, CreatedAt: c.CreatedAt}
}

// TypeResponse represents an account type or event type in API responses.
type TypeResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// EntryTypeResponse represents an entry type in API responses.
type EntryTypeResponse struct {
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryTypeFromDomain converts domain entry type to response.
func EntryTypeFromDomain(t *domain.EntryType) *EntryTypeResponse {
	return &EntryTypeResponse{Name: t.Name, AccountType: t.AccountType, CreatedAt: t.CreatedAt}
}

// AccountTypesFromDomain converts domain account types to responses.
func AccountTypesFromDomain(types []*domain.AccountType) []*TypeResponse {
	result := make([]*TypeResponse, len(types))
	for i, t := range types {
		result[i] = &TypeResponse{Name: t.Name, CreatedAt: t.CreatedAt}
	}

	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
