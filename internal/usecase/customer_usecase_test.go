package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func TestCustomerUseCase_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	accountRepo := mocks.NewMockAccountRepository()
	for _, acc := range []struct{ id, accountType string }{
		{"acc-1", "checking"},
		{"acc-2", "savings"},
		{"acc-3", "checking"},
	} {
		if err := accountRepo.Create(ctx, domain.NewAccount(acc.id, acc.id, acc.accountType, "BRL", time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tests := []struct {
		name      string
		input     usecase.CreateCustomerInput
		errorType error
	}{
		{
			name:  "one account per type",
			input: usecase.CreateCustomerInput{Name: "Acme", AgreementID: "agr-1", AccountIDs: []string{"acc-1", "acc-2"}},
		},
		{
			name:      "two accounts of same type",
			input:     usecase.CreateCustomerInput{Name: "Acme", AgreementID: "agr-1", AccountIDs: []string{"acc-1", "acc-3"}},
			errorType: domain.ErrAmbiguousAccount,
		},
		{
			name:      "unknown account",
			input:     usecase.CreateCustomerInput{Name: "Acme", AgreementID: "agr-1", AccountIDs: []string{"missing"}},
			errorType: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customerRepo := mocks.NewMockCustomerRepository()
			uc := usecase.NewCustomerUseCase(customerRepo, accountRepo, mocks.NewMockIDGenerator())

			customer, err := uc.CreateCustomer(ctx, tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(customer.Accounts) != len(tt.input.AccountIDs) {
				t.Errorf("expected %d accounts, got %d", len(tt.input.AccountIDs), len(customer.Accounts))
			}

			stored, err := customerRepo.GetByID(ctx, customer.ID)
			if err != nil {
				t.Fatalf("customer not persisted: %v", err)
			}

			if stored.AgreementID != "agr-1" {
				t.Errorf("expected agreement agr-1, got %s", stored.AgreementID)
			}
		})
	}
}

func TestCustomerUseCase_GetCustomer_NotFound(t *testing.T) {
	uc := usecase.NewCustomerUseCase(mocks.NewMockCustomerRepository(), mocks.NewMockAccountRepository(), mocks.NewMockIDGenerator())

	if _, err := uc.GetCustomer(context.Background(), "missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}
