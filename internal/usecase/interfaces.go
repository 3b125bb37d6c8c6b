package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
)

// CatalogRepository defines data access for static reference data.
type CatalogRepository interface {
	CreateCurrency(ctx context.Context, currency *domain.Currency) error
	CreateAccountType(ctx context.Context, accountType *domain.AccountType) error
	CreateEventType(ctx context.Context, eventType *domain.EventType) error
	CreateEntryType(ctx context.Context, entryType *domain.EntryType) error
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)
	GetEventType(ctx context.Context, name string) (*domain.EventType, error)
	GetEntryType(ctx context.Context, name string) (*domain.EntryType, error)
	ListAccountTypes(ctx context.Context) ([]*domain.AccountType, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for entries. Entries are
// insert-only; there is no update or delete.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Entry, error)
	// ListByAccountsTx reads inside the given transaction so balance
	// checks observe entries written earlier in the same unit of work.
	ListByAccountsTx(ctx context.Context, tx Transaction, accountIDs []string) ([]*domain.Entry, error)
	SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	// GetByID returns the customer with accounts attached (entries are
	// hydrated separately).
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

// AgreementRepository defines data access for service agreements and
// their posting rules.
type AgreementRepository interface {
	Create(ctx context.Context, agreement *domain.ServiceAgreement) error
	// GetByID returns the agreement with its rules in insertion order.
	GetByID(ctx context.Context, id string) (*domain.ServiceAgreement, error)
	AddRule(ctx context.Context, rule *domain.PostingRule) error
}

// EventRepository defines data access for accounting events.
type EventRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.AccountingEvent) error
	GetByID(ctx context.Context, id string) (*domain.AccountingEvent, error)
	// GetByIDForUpdate locks the event row so concurrent processing of
	// the same event serializes on the processed/reversed flags.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.AccountingEvent, error)
	MarkProcessed(ctx context.Context, tx Transaction, id string, at time.Time) error
	MarkReversed(ctx context.Context, tx Transaction, id string, at time.Time) error
	AddResultingEntries(ctx context.Context, tx Transaction, eventID string, entryIDs []string) error
	// ListAdjustedBy returns IDs of events that carry eventID as their
	// adjusted event (the secondary events of a reversal cascade).
	ListAdjustedBy(ctx context.Context, eventID string) ([]string, error)
}

// OutboxRepository defines data access for outbox records.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.OutboxRecord) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRecord, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// LedgerRepository defines ledger-wide consistency checks.
type LedgerRepository interface {
	// CheckReversals counts reversed events and how many of them do not
	// net to zero across their resulting entries.
	CheckReversals(ctx context.Context) (reversed, unbalanced int64, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a unit of work on transient storage failures. The
// engine itself never retries business errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-mostly data. Balances are
// never cached; they are always derived from entries.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
