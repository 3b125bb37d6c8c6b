package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

const eventColumns = `
	id, kind, event_type, customer_id,
	COALESCE(account_id, ''), COALESCE(from_account_id, ''), COALESCE(to_account_id, ''),
	amount, COALESCE(currency, ''),
	when_occurred, when_noticed, adjusted_event_id, processed, reversed, created_at`

// EventRepository implements usecase.EventRepository. The event row is
// the serialization point for processing: FOR UPDATE locks make the
// processed/reversed checks race-free.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create inserts an event and its adjustment links within the transaction.
func (r *EventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.AccountingEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO accounting_events
			(id, kind, event_type, customer_id, account_id, from_account_id, to_account_id,
			 amount, currency, when_occurred, when_noticed, adjusted_event_id, processed, reversed, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			$8, NULLIF($9, ''), $10, $11, $12, $13, $14, $15)`

	_, err := pgxTx.Exec(ctx, query,
		event.ID,
		string(event.Kind),
		event.EventType,
		event.CustomerID,
		event.AccountID,
		event.FromAccountID,
		event.ToAccountID,
		decimalToNumeric(event.Amount.Amount()),
		event.Amount.Currency(),
		timeToPg(event.WhenOccurred),
		timeToPg(event.WhenNoticed),
		event.AdjustedEventID,
		event.Processed,
		event.Reversed,
		timeToPg(event.CreatedAt),
	)
	if err != nil {
		return err
	}

	const linkQuery = `
		INSERT INTO adjustment_events (adjustment_id, event_id, relation, position)
		VALUES ($1, $2, $3, $4)`

	for i, oldID := range event.OldEventIDs {
		if _, err := pgxTx.Exec(ctx, linkQuery, event.ID, oldID, "old", i); err != nil {
			return err
		}
	}

	for i, newID := range event.NewEventIDs {
		if _, err := pgxTx.Exec(ctx, linkQuery, event.ID, newID, "new", i); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.AccountingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM accounting_events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}

		return nil, err
	}

	if err := r.loadRelations(ctx, r.pool, event); err != nil {
		return nil, err
	}

	return event, nil
}

// GetByIDForUpdate retrieves an event with a FOR UPDATE row lock.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.AccountingEvent, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + eventColumns + ` FROM accounting_events WHERE id = $1 FOR UPDATE`

	event, err := scanEvent(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}

		return nil, err
	}

	if err := r.loadRelations(ctx, pgxTx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// MarkProcessed flips the processed flag.
func (r *EventRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	const query = `
		UPDATE accounting_events
		SET processed = TRUE, processed_at = $2
		WHERE id = $1`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, timeToPg(at))

	return err
}

// MarkReversed flips the reversed flag.
func (r *EventRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	const query = `
		UPDATE accounting_events
		SET reversed = TRUE, reversed_at = $2
		WHERE id = $1`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, timeToPg(at))

	return err
}

// AddResultingEntries appends entries to the event's additive record.
func (r *EventRepository) AddResultingEntries(ctx context.Context, tx usecase.Transaction, eventID string, entryIDs []string) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO event_entries (event_id, entry_id, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM event_entries WHERE event_id = $1))`

	for _, entryID := range entryIDs {
		if _, err := pgxTx.Exec(ctx, query, eventID, entryID); err != nil {
			return err
		}
	}

	return nil
}

// ListAdjustedBy returns IDs of events whose adjusted_event_id is eventID.
func (r *EventRepository) ListAdjustedBy(ctx context.Context, eventID string) ([]string, error) {
	const query = `
		SELECT id FROM accounting_events
		WHERE adjusted_event_id = $1
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *EventRepository) loadRelations(ctx context.Context, q querier, event *domain.AccountingEvent) error {
	const linksQuery = `
		SELECT event_id, relation FROM adjustment_events
		WHERE adjustment_id = $1
		ORDER BY relation, position`

	rows, err := q.Query(ctx, linksQuery, event.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, relation string
		if err := rows.Scan(&id, &relation); err != nil {
			return err
		}

		switch relation {
		case "old":
			event.OldEventIDs = append(event.OldEventIDs, id)
		case "new":
			event.NewEventIDs = append(event.NewEventIDs, id)
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	const entriesQuery = `
		SELECT entry_id FROM event_entries
		WHERE event_id = $1
		ORDER BY position`

	entryRows, err := q.Query(ctx, entriesQuery, event.ID)
	if err != nil {
		return err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var id string
		if err := entryRows.Scan(&id); err != nil {
			return err
		}

		event.ResultingEntryIDs = append(event.ResultingEntryIDs, id)
	}

	return entryRows.Err()
}

func scanEvent(row pgx.Row) (*domain.AccountingEvent, error) {
	var (
		event                  domain.AccountingEvent
		kind                   string
		amount                 pgtype.Numeric
		currency               string
		occurred, noticed, cAt pgtype.Timestamptz
	)

	err := row.Scan(
		&event.ID, &kind, &event.EventType, &event.CustomerID,
		&event.AccountID, &event.FromAccountID, &event.ToAccountID,
		&amount, &currency,
		&occurred, &noticed, &event.AdjustedEventID,
		&event.Processed, &event.Reversed, &cAt,
	)
	if err != nil {
		return nil, err
	}

	event.Kind = domain.EventKind(kind)
	event.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	event.WhenOccurred = occurred.Time
	event.WhenNoticed = noticed.Time
	event.CreatedAt = cAt.Time

	return &event, nil
}
