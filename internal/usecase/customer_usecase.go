package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// CustomerUseCase handles customer creation and lookup.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	accountRepo  AccountRepository
	idGen        IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository, accountRepo AccountRepository, idGen IDGenerator) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		idGen:        idGen,
	}
}

// CreateCustomerInput represents input for creating a customer.
type CreateCustomerInput struct {
	Name        string
	AgreementID string
	AccountIDs  []string
}

// CreateCustomer creates a customer linked to existing accounts. Entry
// routing assumes at most one account per account type, so two linked
// accounts of the same type are rejected up front.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		AgreementID: input.AgreementID,
		CreatedAt:   time.Now().UTC(),
	}

	seen := map[string]bool{}

	for _, accountID := range input.AccountIDs {
		account, err := uc.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return nil, err
		}

		if seen[account.AccountType] {
			return nil, fmt.Errorf("%w: account type %q linked twice", domain.ErrAmbiguousAccount, account.AccountType)
		}

		seen[account.AccountType] = true
		customer.Accounts = append(customer.Accounts, account)
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer with its accounts.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}
