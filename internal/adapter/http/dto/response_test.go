package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

func TestEventFromDomain(t *testing.T) {
	occurred := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	event := &domain.AccountingEvent{
		ID:                "ev-1",
		Kind:              domain.EventKindDeposit,
		EventType:         "DEPOSIT",
		CustomerID:        "cust-1",
		AccountID:         "acc-1",
		Amount:            domain.NewMoney(decimal.NewFromFloat(100.5), "BRL"),
		WhenOccurred:      occurred,
		WhenNoticed:       occurred.Add(time.Hour),
		ResultingEntryIDs: []string{"e1", "e2"},
		Processed:         true,
	}

	resp := EventFromDomain(event)

	assert.Equal(t, "ev-1", resp.ID)
	assert.Equal(t, "deposit", resp.Kind)
	assert.Equal(t, "100.50", resp.Amount)
	assert.Equal(t, "BRL", resp.Currency)
	assert.Equal(t, occurred, resp.WhenOccurred)
	assert.Len(t, resp.ResultingEntryIDs, 2)
	assert.True(t, resp.Processed)
	assert.False(t, resp.Reversed)
}

func TestEventFromDomain_PadsWholeAmounts(t *testing.T) {
	event := &domain.AccountingEvent{
		ID:     "ev-2",
		Kind:   domain.EventKindWithdrawal,
		Amount: domain.NewMoney(decimal.NewFromInt(40), "BRL"),
	}

	assert.Equal(t, "40.00", EventFromDomain(event).Amount)
}

func TestEntryFromDomain(t *testing.T) {
	date := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	entry := &domain.Entry{
		ID:        "e-1",
		AccountID: "acc-1",
		EventID:   "ev-1",
		EntryType: domain.EntryType{Name: "cash entry", AccountType: "checking"},
		Amount:    domain.NewMoney(decimal.NewFromInt(-30), "BRL"),
		Date:      date,
	}

	resp := EntryFromDomain(entry)

	assert.Equal(t, "cash entry", resp.EntryType)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(-30)))
	assert.Equal(t, "BRL", resp.Currency)
	assert.Equal(t, date, resp.Date)
}

func TestAgreementFromDomain(t *testing.T) {
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	agreement := &domain.ServiceAgreement{
		ID:   "agr-1",
		Rate: decimal.NewFromFloat(0.015),
		Rules: []*domain.PostingRule{
			{
				ID:        "rule-1",
				Kind:      domain.RuleKindDeposit,
				EventType: "DEPOSIT",
				EntryType: domain.EntryType{Name: "cash entry"},
				StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   &end,
			},
		},
	}

	resp := AgreementFromDomain(agreement)

	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "deposit", resp.Rules[0].Kind)
	assert.Equal(t, "cash entry", resp.Rules[0].EntryType)
	assert.Equal(t, &end, resp.Rules[0].EndDate)
	assert.True(t, resp.Rate.Equal(decimal.NewFromFloat(0.015)))
}

func TestConsistencyFromReport(t *testing.T) {
	report := &usecase.ConsistencyReport{
		ReversedEvents:   3,
		UnbalancedEvents: 1,
		Consistent:       false,
	}

	resp := ConsistencyFromReport(report)

	assert.Equal(t, int64(3), resp.ReversedEvents)
	assert.Equal(t, int64(1), resp.UnbalancedEvents)
	assert.False(t, resp.Consistent)
}

func TestCustomerFromDomain(t *testing.T) {
	customer := &domain.Customer{
		ID:          "cust-1",
		Name:        "Acme",
		AgreementID: "agr-1",
		Accounts: []*domain.Account{
			domain.NewAccount("acc-1", "Main", "checking", "BRL", time.Now().UTC()),
		},
	}

	resp := CustomerFromDomain(customer)

	assert.Equal(t, "agr-1", resp.AgreementID)
	require.Len(t, resp.Accounts, 1)
	assert.Equal(t, "checking", resp.Accounts[0].AccountType)
}
