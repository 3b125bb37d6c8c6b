package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository with SQL-side
// aggregation over the whole ledger.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckReversals counts reversed events and how many of them do not net
// to zero across their resulting entries. A reversed event whose entries
// sum to anything but zero indicates a broken reversal.
func (r *LedgerRepository) CheckReversals(ctx context.Context) (int64, int64, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE net <> 0)
		FROM (
			SELECT ev.id, COALESCE(SUM(e.amount), 0) AS net
			FROM accounting_events ev
			LEFT JOIN entries e ON e.event_id = ev.id
			WHERE ev.reversed = TRUE
			GROUP BY ev.id
		) reversed_events`

	var reversed, unbalanced int64

	if err := r.pool.QueryRow(ctx, query).Scan(&reversed, &unbalanced); err != nil {
		return 0, 0, err
	}

	return reversed, unbalanced, nil
}
