package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		expectError bool
	}{
		{
			name:  "valid account",
			input: usecase.CreateAccountInput{Name: "main checking", AccountType: "checking", Currency: "BRL"},
		},
		{
			name:        "empty name",
			input:       usecase.CreateAccountInput{Name: "", AccountType: "checking", Currency: "BRL"},
			expectError: true,
		},
		{
			name:        "bad currency code",
			input:       usecase.CreateAccountInput{Name: "main checking", AccountType: "checking", Currency: "reais"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountRepo := mocks.NewMockAccountRepository()
			entryRepo := mocks.NewMockEntryRepository()

			uc := usecase.NewAccountUseCase(accountRepo, entryRepo, mocks.NewMockIDGenerator())

			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if account.ID == "" {
				t.Error("expected generated ID")
			}

			stored, err := accountRepo.GetByID(context.Background(), account.ID)
			if err != nil {
				t.Fatalf("account not persisted: %v", err)
			}

			if stored.Currency != tt.input.Currency {
				t.Errorf("expected currency %s, got %s", tt.input.Currency, stored.Currency)
			}
		})
	}
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	entryRepo := mocks.NewMockEntryRepository()
	uc := usecase.NewAccountUseCase(accountRepo, entryRepo, mocks.NewMockIDGenerator())

	ctx := context.Background()

	account := domain.NewAccount("acc-1", "main", "checking", "BRL", time.Now())
	if err := accountRepo.Create(ctx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty account: zero balance, not an error.
	balance, err := uc.GetBalance(ctx, "acc-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.IsZero() || balance.Currency() != "BRL" {
		t.Errorf("expected 0.00 BRL, got %s", balance)
	}

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	entryType := domain.EntryType{Name: "cash entry", AccountType: "checking"}

	amounts := []struct {
		amount int64
		date   time.Time
	}{
		{100, base},
		{-30, base.Add(24 * time.Hour)},
	}

	for i, e := range amounts {
		entry := &domain.Entry{
			ID:        fmt.Sprintf("e-%d", i),
			AccountID: "acc-1",
			EntryType: entryType,
			Amount:    domain.NewMoney(decimal.NewFromInt(e.amount), "BRL"),
			Date:      e.date,
		}
		if err := entryRepo.Create(ctx, nil, entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	balance, err = uc.GetBalance(ctx, "acc-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance.String() != "70.00 BRL" {
		t.Errorf("expected 70.00 BRL, got %s", balance)
	}

	asOf := base.Add(time.Hour)
	balance, err = uc.GetBalance(ctx, "acc-1", &asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance.String() != "100.00 BRL" {
		t.Errorf("expected 100.00 BRL as of %s, got %s", asOf, balance)
	}
}

func TestAccountUseCase_GetBalance_UnknownAccount(t *testing.T) {
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), mocks.NewMockEntryRepository(), mocks.NewMockIDGenerator())

	if _, err := uc.GetBalance(context.Background(), "missing", nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(accountRepo, mocks.NewMockEntryRepository(), mocks.NewMockIDGenerator())

	ctx := context.Background()

	for _, id := range []string{"acc-1", "acc-2"} {
		if err := accountRepo.Create(ctx, domain.NewAccount(id, id, "checking", "BRL", time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	accounts, err := uc.ListAccounts(ctx, usecase.ListAccountsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}
}
