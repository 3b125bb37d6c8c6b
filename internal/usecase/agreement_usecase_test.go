package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func newAgreementFixture(t *testing.T, cache usecase.Cache) (*usecase.AgreementUseCase, *mocks.MockAgreementRepository) {
	t.Helper()

	ctx := context.Background()

	catalog := mocks.NewMockCatalogRepository()
	if err := catalog.CreateEventType(ctx, &domain.EventType{Name: "DEPOSIT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := catalog.CreateEntryType(ctx, &domain.EntryType{Name: "cash entry", AccountType: "checking"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agreementRepo := mocks.NewMockAgreementRepository()

	return usecase.NewAgreementUseCase(agreementRepo, catalog, cache, mocks.NewMockIDGenerator()), agreementRepo
}

func TestAgreementUseCase_CreateAgreement(t *testing.T) {
	uc, repo := newAgreementFixture(t, nil)

	agreement, err := uc.CreateAgreement(context.Background(), usecase.CreateAgreementInput{Rate: decimal.NewFromFloat(0.05)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), agreement.ID)
	if err != nil {
		t.Fatalf("agreement not persisted: %v", err)
	}

	if !stored.Rate.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("expected rate 0.05, got %s", stored.Rate)
	}
}

func TestAgreementUseCase_AddPostingRule(t *testing.T) {
	uc, _ := newAgreementFixture(t, nil)

	ctx := context.Background()

	agreement, err := uc.CreateAgreement(ctx, usecase.CreateAgreementInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rule, err := uc.AddPostingRule(ctx, usecase.AddPostingRuleInput{
		AgreementID: agreement.ID,
		Kind:        domain.RuleKindDeposit,
		EventType:   "DEPOSIT",
		EntryType:   "cash entry",
		StartDate:   start,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rule.AgreementID != agreement.ID {
		t.Errorf("rule bound to %q, expected %q", rule.AgreementID, agreement.ID)
	}

	if rule.EntryType.AccountType != "checking" {
		t.Errorf("entry type not resolved from catalog: %+v", rule.EntryType)
	}

	// A second open-ended rule for the same event type overlaps.
	_, err = uc.AddPostingRule(ctx, usecase.AddPostingRuleInput{
		AgreementID: agreement.ID,
		Kind:        domain.RuleKindDeposit,
		EventType:   "DEPOSIT",
		EntryType:   "cash entry",
		StartDate:   start.Add(time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidRuleConfiguration) {
		t.Errorf("expected ErrInvalidRuleConfiguration, got %v", err)
	}
}

func TestAgreementUseCase_AddPostingRule_UnknownEntryType(t *testing.T) {
	uc, _ := newAgreementFixture(t, nil)

	ctx := context.Background()

	agreement, err := uc.CreateAgreement(ctx, usecase.CreateAgreementInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.AddPostingRule(ctx, usecase.AddPostingRuleInput{
		AgreementID: agreement.ID,
		Kind:        domain.RuleKindDeposit,
		EventType:   "DEPOSIT",
		EntryType:   "mystery entry",
		StartDate:   time.Now(),
	})
	if !errors.Is(err, domain.ErrTypeNotFound) {
		t.Errorf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestAgreementUseCase_GetAgreement_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cached, err := json.Marshal(&domain.ServiceAgreement{ID: "agr-1", Rate: decimal.NewFromFloat(0.05)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "agreement:agr-1").Return(cached, nil)

	uc, _ := newAgreementFixture(t, cache)

	// The repository has no such agreement; a hit must come from the cache.
	agreement, err := uc.GetAgreement(context.Background(), "agr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agreement.ID != "agr-1" {
		t.Errorf("expected agr-1, got %s", agreement.ID)
	}
}

func TestAgreementUseCase_GetAgreement_CacheMissThenSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	uc, repo := newAgreementFixture(t, cache)

	if err := repo.Create(context.Background(), &domain.ServiceAgreement{ID: "agr-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.GetAgreement(context.Background(), "agr-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAgreementUseCase_AddPostingRule_InvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	uc, _ := newAgreementFixture(t, cache)

	ctx := context.Background()

	agreement, err := uc.CreateAgreement(ctx, usecase.CreateAgreementInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.AddPostingRule(ctx, usecase.AddPostingRuleInput{
		AgreementID: agreement.ID,
		Kind:        domain.RuleKindDeposit,
		EventType:   "DEPOSIT",
		EntryType:   "cash entry",
		StartDate:   time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
