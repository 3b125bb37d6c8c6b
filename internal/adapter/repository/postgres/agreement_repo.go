package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
)

// AgreementRepository implements usecase.AgreementRepository.
type AgreementRepository struct {
	pool *pgxpool.Pool
}

// NewAgreementRepository creates a new AgreementRepository.
func NewAgreementRepository(pool *pgxpool.Pool) *AgreementRepository {
	return &AgreementRepository{pool: pool}
}

// Create creates a service agreement.
func (r *AgreementRepository) Create(ctx context.Context, agreement *domain.ServiceAgreement) error {
	const query = `
		INSERT INTO service_agreements (id, rate, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query,
		agreement.ID, decimalToNumeric(agreement.Rate), timeToPg(agreement.CreatedAt))

	return err
}

// GetByID retrieves an agreement with its rules in insertion order, so
// rule resolution stays deterministic.
func (r *AgreementRepository) GetByID(ctx context.Context, id string) (*domain.ServiceAgreement, error) {
	const query = `
		SELECT id, rate, created_at
		FROM service_agreements
		WHERE id = $1`

	var (
		agreement domain.ServiceAgreement
		rate      pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(&agreement.ID, &rate, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgreementNotFound
		}

		return nil, err
	}

	agreement.Rate = numericToDecimal(rate)
	agreement.CreatedAt = createdAt.Time

	const rulesQuery = `
		SELECT r.id, r.kind, r.event_type, r.entry_type, et.account_type,
		       r.multiplier, r.fixed_fee, r.start_date, r.end_date, r.created_at
		FROM posting_rules r
		JOIN entry_types et ON et.name = r.entry_type
		WHERE r.agreement_id = $1
		ORDER BY r.created_at, r.id`

	rows, err := r.pool.Query(ctx, rulesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rule                  domain.PostingRule
			kind                  string
			entryType, accType    string
			multiplier, fixedFee  pgtype.Numeric
			startDate, ruleCreate pgtype.Timestamptz
			endDate               pgtype.Timestamptz
		)

		if err := rows.Scan(&rule.ID, &kind, &rule.EventType, &entryType, &accType,
			&multiplier, &fixedFee, &startDate, &endDate, &ruleCreate); err != nil {
			return nil, err
		}

		rule.AgreementID = agreement.ID
		rule.Kind = domain.RuleKind(kind)
		rule.EntryType = domain.EntryType{Name: entryType, AccountType: accType}
		rule.Multiplier = numericToDecimal(multiplier)
		rule.FixedFee = numericToDecimal(fixedFee)
		rule.StartDate = startDate.Time
		rule.EndDate = pgToTimePtr(endDate)
		rule.CreatedAt = ruleCreate.Time

		agreement.Rules = append(agreement.Rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &agreement, nil
}

// AddRule appends a posting rule to an agreement.
func (r *AgreementRepository) AddRule(ctx context.Context, rule *domain.PostingRule) error {
	const query = `
		INSERT INTO posting_rules
			(id, agreement_id, kind, event_type, entry_type, multiplier, fixed_fee, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.AgreementID,
		string(rule.Kind),
		rule.EventType,
		rule.EntryType.Name,
		decimalToNumeric(rule.Multiplier),
		decimalToNumeric(rule.FixedFee),
		timeToPg(rule.StartDate),
		timePtrToPg(rule.EndDate),
		timeToPg(rule.CreatedAt),
	)

	return err
}
