package usecase

import "context"

// LedgerUseCase handles ledger-wide consistency checks.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport summarizes the reversal audit: every reversed event
// must net to zero across its resulting entries.
type ConsistencyReport struct {
	ReversedEvents   int64
	UnbalancedEvents int64
	Consistent       bool
}

// CheckConsistency audits reversed events.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	reversed, unbalanced, err := uc.ledgerRepo.CheckReversals(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		ReversedEvents:   reversed,
		UnbalancedEvents: unbalanced,
		Consistent:       unbalanced == 0,
	}, nil
}
