package usecase

import (
	"context"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// AccountUseCase handles account creation and balance queries.
type AccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name        string
	AccountType string
	Currency    string
}

// CreateAccount creates a new empty account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrencyCode(input.Currency); err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), input.Name, input.AccountType, input.Currency, time.Now().UTC())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, limit, offset)
}

// GetBalance derives the account balance from its entries, optionally
// restricted to entries dated at or before asOf. An account with no
// entries has a zero balance, not an error.
func (uc *AccountUseCase) GetBalance(ctx context.Context, accountID string, asOf *time.Time) (domain.Money, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	sum, err := uc.entryRepo.SumByAccount(ctx, accountID, asOf)
	if err != nil {
		return domain.Money{}, err
	}

	return domain.NewMoney(sum, account.Currency), nil
}
