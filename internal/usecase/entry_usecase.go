package usecase

import (
	"context"

	"github.com/iho/bookledger/internal/domain"
)

// EntryUseCase handles read access to ledger entries.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists an account's entries.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// GetEntriesByEvent lists the entries an event produced, originals and
// reversals alike.
func (uc *EntryUseCase) GetEntriesByEvent(ctx context.Context, eventID string) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByEvent(ctx, eventID)
}
