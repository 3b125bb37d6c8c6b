package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookledger/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create creates a customer and its account links.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertCustomer = `
		INSERT INTO customers (id, name, agreement_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)`

	if _, err := tx.Exec(ctx, insertCustomer,
		customer.ID, customer.Name, customer.AgreementID, timeToPg(customer.CreatedAt)); err != nil {
		return err
	}

	const insertLink = `
		INSERT INTO customer_accounts (customer_id, account_id)
		VALUES ($1, $2)`

	for _, account := range customer.Accounts {
		if _, err := tx.Exec(ctx, insertLink, customer.ID, account.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a customer with its accounts attached. Entries are
// hydrated separately by the caller.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
		SELECT id, name, COALESCE(agreement_id, ''), created_at
		FROM customers
		WHERE id = $1`

	var (
		customer  domain.Customer
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.AgreementID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	customer.CreatedAt = createdAt.Time

	const accountsQuery = `
		SELECT a.id, a.name, a.account_type, a.currency, a.created_at
		FROM accounts a
		JOIN customer_accounts ca ON ca.account_id = a.id
		WHERE ca.customer_id = $1
		ORDER BY a.created_at`

	rows, err := r.pool.Query(ctx, accountsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		customer.Accounts = append(customer.Accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &customer, nil
}
