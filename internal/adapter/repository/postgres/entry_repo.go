package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

const entryColumns = `
	e.id, e.account_id, e.event_id, e.entry_type, et.account_type,
	e.amount, e.currency, e.date, e.created_at`

// EntryRepository implements usecase.EntryRepository. The entries table
// is insert-only; there are no update or delete statements here.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry within the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	const query = `
		INSERT INTO entries (id, account_id, event_id, entry_type, amount, currency, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.EventID,
		entry.EntryType.Name,
		decimalToNumeric(entry.Amount.Amount()),
		entry.Amount.Currency(),
		timeToPg(entry.Date),
		timeToPg(entry.CreatedAt),
	)

	return err
}

// ListByAccount retrieves entries of an account in posting order.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN entry_types et ON et.name = e.entry_type
		WHERE e.account_id = $1
		ORDER BY e.date, e.id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByEvent retrieves the entries an event produced.
func (r *EntryRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN entry_types et ON et.name = e.entry_type
		WHERE e.event_id = $1
		ORDER BY e.created_at, e.id`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByAccountsTx retrieves all entries of the given accounts inside
// the transaction, so the caller sees writes from the same unit of work.
func (r *EntryRepository) ListByAccountsTx(ctx context.Context, tx usecase.Transaction, accountIDs []string) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		JOIN entry_types et ON et.name = e.entry_type
		WHERE e.account_id = ANY($1)
		ORDER BY e.date, e.id`

	rows, err := tx.(*Tx).PgxTx().Query(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByAccount sums entry amounts for an account, optionally restricted
// to entries dated at or before asOf. Accounts without entries sum to
// zero.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE account_id = $1 AND ($2::timestamptz IS NULL OR date <= $2)`

	var sum pgtype.Numeric

	if err := r.pool.QueryRow(ctx, query, accountID, timePtrToPg(asOf)).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		var (
			id, accountID, eventID      string
			entryType, entryAccountType string
			amount                      pgtype.Numeric
			currency                    string
			date, createdAt             pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &accountID, &eventID, &entryType, &entryAccountType, &amount, &currency, &date, &createdAt); err != nil {
			return nil, err
		}

		entries = append(entries, &domain.Entry{
			ID:        id,
			AccountID: accountID,
			EventID:   eventID,
			EntryType: domain.EntryType{Name: entryType, AccountType: entryAccountType},
			Amount:    domain.NewMoney(numericToDecimal(amount), currency),
			Date:      date.Time,
			CreatedAt: createdAt.Time,
		})
	}

	return entries, rows.Err()
}
