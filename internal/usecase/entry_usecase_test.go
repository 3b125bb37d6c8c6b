package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func seedEntries(t *testing.T, repo *mocks.MockEntryRepository) {
	t.Helper()

	entryType := domain.EntryType{Name: "cash entry", AccountType: "checking"}

	entries := []*domain.Entry{
		{ID: "e1", AccountID: "acc-1", EventID: "ev-1", EntryType: entryType, Amount: domain.NewMoney(decimal.NewFromInt(100), "BRL"), Date: time.Now()},
		{ID: "e2", AccountID: "acc-1", EventID: "ev-2", EntryType: entryType, Amount: domain.NewMoney(decimal.NewFromInt(-50), "BRL"), Date: time.Now()},
		{ID: "e3", AccountID: "acc-2", EventID: "ev-1", EntryType: entryType, Amount: domain.NewMoney(decimal.NewFromInt(30), "BRL"), Date: time.Now()},
	}

	for _, entry := range entries {
		if err := repo.Create(context.Background(), nil, entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestEntryUseCase_GetEntriesByAccount(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	seedEntries(t, repo)

	uc := usecase.NewEntryUseCase(repo)

	entries, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{
		AccountID: "acc-1",
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestEntryUseCase_GetEntriesByEvent(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	seedEntries(t, repo)

	uc := usecase.NewEntryUseCase(repo)

	entries, err := uc.GetEntriesByEvent(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	for _, entry := range entries {
		if entry.EventID != "ev-1" {
			t.Errorf("entry %s belongs to %s", entry.ID, entry.EventID)
		}
	}
}

func TestEntryUseCase_GetEntriesByAccount_Pagination(t *testing.T) {
	repo := mocks.NewMockEntryRepository()

	entryType := domain.EntryType{Name: "cash entry", AccountType: "checking"}
	for i := 0; i < 5; i++ {
		entry := &domain.Entry{
			ID:        fmt.Sprintf("e-%d", i),
			AccountID: "acc-1",
			EntryType: entryType,
			Amount:    domain.NewMoney(decimal.NewFromInt(1), "BRL"),
			Date:      time.Now(),
		}
		if err := repo.Create(context.Background(), nil, entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	uc := usecase.NewEntryUseCase(repo)

	// A non-positive limit falls back to the default page size.
	entries, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{AccountID: "acc-1", Limit: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}
}
