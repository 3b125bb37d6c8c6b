package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
)

// CatalogRepository implements usecase.CatalogRepository. Reference data
// is keyed by name; rows are never updated after creation.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// CreateCurrency registers a currency.
func (r *CatalogRepository) CreateCurrency(ctx context.Context, currency *domain.Currency) error {
	const query = `
		INSERT INTO currencies (code, name, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, currency.Code, currency.Name, timeToPg(currency.CreatedAt))

	return err
}

// CreateAccountType registers an account type.
func (r *CatalogRepository) CreateAccountType(ctx context.Context, accountType *domain.AccountType) error {
	const query = `
		INSERT INTO account_types (name, created_at)
		VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, accountType.Name, timeToPg(accountType.CreatedAt))

	return err
}

// CreateEventType registers an event type.
func (r *CatalogRepository) CreateEventType(ctx context.Context, eventType *domain.EventType) error {
	const query = `
		INSERT INTO event_types (name, created_at)
		VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, eventType.Name, timeToPg(eventType.CreatedAt))

	return err
}

// CreateEntryType registers an entry type bound to its account type.
func (r *CatalogRepository) CreateEntryType(ctx context.Context, entryType *domain.EntryType) error {
	const query = `
		INSERT INTO entry_types (name, account_type, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, entryType.Name, entryType.AccountType, timeToPg(entryType.CreatedAt))

	return err
}

// GetCurrency retrieves a currency by code.
func (r *CatalogRepository) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	const query = `SELECT code, name, created_at FROM currencies WHERE code = $1`

	var (
		currency  domain.Currency
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, code).Scan(&currency.Code, &currency.Name, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("currency %q: %w", code, domain.ErrTypeNotFound)
		}

		return nil, err
	}

	currency.CreatedAt = createdAt.Time

	return &currency, nil
}

// GetEventType retrieves an event type by name.
func (r *CatalogRepository) GetEventType(ctx context.Context, name string) (*domain.EventType, error) {
	const query = `SELECT name, created_at FROM event_types WHERE name = $1`

	var (
		eventType domain.EventType
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, name).Scan(&eventType.Name, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event type %q: %w", name, domain.ErrTypeNotFound)
		}

		return nil, err
	}

	eventType.CreatedAt = createdAt.Time

	return &eventType, nil
}

// GetEntryType retrieves an entry type by name.
func (r *CatalogRepository) GetEntryType(ctx context.Context, name string) (*domain.EntryType, error) {
	const query = `SELECT name, account_type, created_at FROM entry_types WHERE name = $1`

	var (
		entryType domain.EntryType
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, name).Scan(&entryType.Name, &entryType.AccountType, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("entry type %q: %w", name, domain.ErrTypeNotFound)
		}

		return nil, err
	}

	entryType.CreatedAt = createdAt.Time

	return &entryType, nil
}

// ListAccountTypes lists all registered account types.
func (r *CatalogRepository) ListAccountTypes(ctx context.Context) ([]*domain.AccountType, error) {
	const query = `SELECT name, created_at FROM account_types ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.AccountType

	for rows.Next() {
		var (
			accountType domain.AccountType
			createdAt   pgtype.Timestamptz
		)

		if err := rows.Scan(&accountType.Name, &createdAt); err != nil {
			return nil, err
		}

		accountType.CreatedAt = createdAt.Time
		types = append(types, &accountType)
	}

	return types, rows.Err()
}
