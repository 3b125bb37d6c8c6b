package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository. Records are
// written in the same transaction as the ledger change they describe.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create inserts an outbox record within the transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.OutboxRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO outbox_records (id, aggregate_id, aggregate_type, record_type, payload, published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		record.ID,
		record.AggregateID,
		record.AggregateType,
		record.RecordType,
		payload,
		record.Published,
		timeToPg(record.CreatedAt),
	)

	return err
}

// GetUnpublished retrieves unpublished records oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRecord, error) {
	const query = `
		SELECT id, aggregate_id, aggregate_type, record_type, payload, published, created_at, published_at
		FROM outbox_records
		WHERE published = FALSE
		ORDER BY created_at
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OutboxRecord

	for rows.Next() {
		var (
			record      domain.OutboxRecord
			payload     []byte
			createdAt   pgtype.Timestamptz
			publishedAt pgtype.Timestamptz
		)

		err := rows.Scan(&record.ID, &record.AggregateID, &record.AggregateType,
			&record.RecordType, &payload, &record.Published, &createdAt, &publishedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return nil, err
		}

		record.CreatedAt = createdAt.Time
		record.PublishedAt = pgToTimePtr(publishedAt)

		records = append(records, &record)
	}

	return records, rows.Err()
}

// MarkPublished marks a record as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	const query = `
		UPDATE outbox_records
		SET published = TRUE, published_at = $2
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, timeToPg(publishedAt))

	return err
}
