package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

const agreementCacheTTL = 5 * time.Minute

// AgreementUseCase handles service agreements and their posting rules.
// Agreements are read-mostly, so lookups go through a cache; the cache
// is dropped whenever a rule is added. The processing engine always
// reads the repository directly.
type AgreementUseCase struct {
	agreementRepo AgreementRepository
	catalogRepo   CatalogRepository
	cache         Cache
	idGen         IDGenerator
}

// NewAgreementUseCase creates a new AgreementUseCase. cache may be nil.
func NewAgreementUseCase(agreementRepo AgreementRepository, catalogRepo CatalogRepository, cache Cache, idGen IDGenerator) *AgreementUseCase {
	return &AgreementUseCase{
		agreementRepo: agreementRepo,
		catalogRepo:   catalogRepo,
		cache:         cache,
		idGen:         idGen,
	}
}

// CreateAgreementInput represents input for creating a service agreement.
type CreateAgreementInput struct {
	Rate decimal.Decimal
}

// CreateAgreement creates a new service agreement without rules.
func (uc *AgreementUseCase) CreateAgreement(ctx context.Context, input CreateAgreementInput) (*domain.ServiceAgreement, error) {
	agreement := &domain.ServiceAgreement{
		ID:        uc.idGen.Generate(),
		Rate:      input.Rate,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.agreementRepo.Create(ctx, agreement); err != nil {
		return nil, err
	}

	return agreement, nil
}

// GetAgreement retrieves an agreement with its rules.
func (uc *AgreementUseCase) GetAgreement(ctx context.Context, id string) (*domain.ServiceAgreement, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, agreementCacheKey(id)); err == nil && cached != nil {
			var agreement domain.ServiceAgreement
			if err := json.Unmarshal(cached, &agreement); err == nil {
				return &agreement, nil
			}
		}
	}

	agreement, err := uc.agreementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(agreement); err == nil {
			_ = uc.cache.Set(ctx, agreementCacheKey(id), encoded, agreementCacheTTL)
		}
	}

	return agreement, nil
}

// AddPostingRuleInput represents input for adding a posting rule.
type AddPostingRuleInput struct {
	AgreementID string
	Kind        domain.RuleKind
	EventType   string
	EntryType   string
	Multiplier  decimal.Decimal
	FixedFee    decimal.Decimal
	StartDate   time.Time
	EndDate     *time.Time
}

// AddPostingRule appends a rule to an agreement. Overlapping validity
// windows for the same event type are a configuration error.
func (uc *AgreementUseCase) AddPostingRule(ctx context.Context, input AddPostingRuleInput) (*domain.PostingRule, error) {
	agreement, err := uc.agreementRepo.GetByID(ctx, input.AgreementID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.catalogRepo.GetEventType(ctx, input.EventType); err != nil {
		return nil, err
	}

	entryType, err := uc.catalogRepo.GetEntryType(ctx, input.EntryType)
	if err != nil {
		return nil, err
	}

	rule := &domain.PostingRule{
		ID:          uc.idGen.Generate(),
		AgreementID: input.AgreementID,
		Kind:        input.Kind,
		EventType:   input.EventType,
		EntryType:   *entryType,
		Multiplier:  input.Multiplier,
		FixedFee:    input.FixedFee,
		StartDate:   input.StartDate.UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	if input.EndDate != nil {
		end := input.EndDate.UTC()
		rule.EndDate = &end
	}

	if err := agreement.AddRule(rule); err != nil {
		return nil, err
	}

	if err := uc.agreementRepo.AddRule(ctx, rule); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, agreementCacheKey(input.AgreementID))
	}

	return rule, nil
}

func agreementCacheKey(id string) string {
	return "agreement:" + id
}
