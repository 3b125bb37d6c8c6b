package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
)

// AccountRepository implements usecase.AccountRepository. Accounts carry
// no balance column; balances are always derived from entries.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
		INSERT INTO accounts (id, name, account_type, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Name, account.AccountType, account.Currency, timeToPg(account.CreatedAt))

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
		SELECT id, name, account_type, currency, created_at
		FROM accounts
		WHERE id = $1`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	const query = `
		SELECT id, name, account_type, currency, created_at
		FROM accounts
		ORDER BY created_at
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		id, name, accountType, currency string
		createdAt                       pgtype.Timestamptz
	)

	if err := row.Scan(&id, &name, &accountType, &currency, &createdAt); err != nil {
		return nil, err
	}

	return domain.NewAccount(id, name, accountType, currency, createdAt.Time), nil
}
