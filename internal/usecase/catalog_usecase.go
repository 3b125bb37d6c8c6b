package usecase

import (
	"context"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// CatalogUseCase manages static reference data: currencies, account
// types, event types and entry types.
type CatalogUseCase struct {
	catalogRepo CatalogRepository
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(catalogRepo CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{catalogRepo: catalogRepo}
}

// CreateCurrency registers a currency.
func (uc *CatalogUseCase) CreateCurrency(ctx context.Context, code, name string) (*domain.Currency, error) {
	if err := domain.ValidateCurrencyCode(code); err != nil {
		return nil, err
	}

	currency := &domain.Currency{Code: code, Name: name, CreatedAt: time.Now().UTC()}

	if err := uc.catalogRepo.CreateCurrency(ctx, currency); err != nil {
		return nil, err
	}

	return currency, nil
}

// CreateAccountType registers an account type.
func (uc *CatalogUseCase) CreateAccountType(ctx context.Context, name string) (*domain.AccountType, error) {
	if err := domain.ValidateTypeName(name); err != nil {
		return nil, err
	}

	accountType := &domain.AccountType{Name: name, CreatedAt: time.Now().UTC()}

	if err := uc.catalogRepo.CreateAccountType(ctx, accountType); err != nil {
		return nil, err
	}

	return accountType, nil
}

// CreateEventType registers an event type.
func (uc *CatalogUseCase) CreateEventType(ctx context.Context, name string) (*domain.EventType, error) {
	if err := domain.ValidateTypeName(name); err != nil {
		return nil, err
	}

	eventType := &domain.EventType{Name: name, CreatedAt: time.Now().UTC()}

	if err := uc.catalogRepo.CreateEventType(ctx, eventType); err != nil {
		return nil, err
	}

	return eventType, nil
}

// CreateEntryType registers an entry type scoped to an account type.
func (uc *CatalogUseCase) CreateEntryType(ctx context.Context, name, accountType string) (*domain.EntryType, error) {
	if err := domain.ValidateTypeName(name); err != nil {
		return nil, err
	}

	entryType := &domain.EntryType{Name: name, AccountType: accountType, CreatedAt: time.Now().UTC()}

	if err := uc.catalogRepo.CreateEntryType(ctx, entryType); err != nil {
		return nil, err
	}

	return entryType, nil
}

// ListAccountTypes lists all account types.
func (uc *CatalogUseCase) ListAccountTypes(ctx context.Context) ([]*domain.AccountType, error) {
	return uc.catalogRepo.ListAccountTypes(ctx)
}
