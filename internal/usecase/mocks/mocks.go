package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTxManager is a mock implementation of TransactionManager.
type MockTxManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator generates deterministic sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mu           sync.RWMutex
	currencies   map[string]*domain.Currency
	accountTypes map[string]*domain.AccountType
	eventTypes   map[string]*domain.EventType
	entryTypes   map[string]*domain.EntryType
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		currencies:   make(map[string]*domain.Currency),
		accountTypes: make(map[string]*domain.AccountType),
		eventTypes:   make(map[string]*domain.EventType),
		entryTypes:   make(map[string]*domain.EntryType),
	}
}

func (m *MockCatalogRepository) CreateCurrency(ctx context.Context, currency *domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency.Code] = currency
	return nil
}

func (m *MockCatalogRepository) CreateAccountType(ctx context.Context, accountType *domain.AccountType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountTypes[accountType.Name] = accountType
	return nil
}

func (m *MockCatalogRepository) CreateEventType(ctx context.Context, eventType *domain.EventType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventTypes[eventType.Name] = eventType
	return nil
}

func (m *MockCatalogRepository) CreateEntryType(ctx context.Context, entryType *domain.EntryType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entryTypes[entryType.Name] = entryType
	return nil
}

func (m *MockCatalogRepository) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.currencies[code]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("currency %q: %w", code, domain.ErrTypeNotFound)
}

func (m *MockCatalogRepository) GetEventType(ctx context.Context, name string) (*domain.EventType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.eventTypes[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("event type %q: %w", name, domain.ErrTypeNotFound)
}

func (m *MockCatalogRepository) GetEntryType(ctx context.Context, name string) (*domain.EntryType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.entryTypes[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("entry type %q: %w", name, domain.ErrTypeNotFound)
}

func (m *MockCatalogRepository) ListAccountTypes(ctx context.Context) ([]*domain.AccountType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var types []*domain.AccountType
	for _, t := range m.accountTypes {
		types = append(types, t)
	}
	return types, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		// Fresh aggregate per read, like a repository rebuilding from rows.
		return domain.NewAccount(acc.ID, acc.Name, acc.AccountType, acc.Currency, acc.CreatedAt), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, domain.NewAccount(acc.ID, acc.Name, acc.AccountType, acc.Currency, acc.CreatedAt))
	}
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *entry
	m.entries = append(m.entries, &stored)
	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockEntryRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Entry
	for _, e := range m.entries {
		if e.EventID == eventID {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockEntryRepository) ListByAccountsTx(ctx context.Context, tx usecase.Transaction, accountIDs []string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var result []*domain.Entry
	for _, e := range m.entries {
		if wanted[e.AccountID] {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID != accountID {
			continue
		}
		if asOf != nil && e.Date.After(*asOf) {
			continue
		}
		sum = sum.Add(e.Amount.Amount())
	}
	return sum, nil
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
// GetByID rebuilds the aggregate from stored metadata on every call, so
// hydration never accumulates entries across reads.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	GetByIDFunc func(ctx context.Context, id string) (*domain.Customer, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	customer := &domain.Customer{
		ID:          stored.ID,
		Name:        stored.Name,
		AgreementID: stored.AgreementID,
		CreatedAt:   stored.CreatedAt,
	}
	for _, acc := range stored.Accounts {
		customer.Accounts = append(customer.Accounts,
			domain.NewAccount(acc.ID, acc.Name, acc.AccountType, acc.Currency, acc.CreatedAt))
	}
	return customer, nil
}

// MockAgreementRepository is a mock implementation of AgreementRepository.
type MockAgreementRepository struct {
	mu         sync.RWMutex
	agreements map[string]*domain.ServiceAgreement

	GetByIDFunc func(ctx context.Context, id string) (*domain.ServiceAgreement, error)
}

func NewMockAgreementRepository() *MockAgreementRepository {
	return &MockAgreementRepository{
		agreements: make(map[string]*domain.ServiceAgreement),
	}
}

func (m *MockAgreementRepository) Create(ctx context.Context, agreement *domain.ServiceAgreement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agreements[agreement.ID] = agreement
	return nil
}

func (m *MockAgreementRepository) GetByID(ctx context.Context, id string) (*domain.ServiceAgreement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.agreements[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAgreementNotFound
}

func (m *MockAgreementRepository) AddRule(ctx context.Context, rule *domain.PostingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	agreement, ok := m.agreements[rule.AgreementID]
	if !ok {
		return domain.ErrAgreementNotFound
	}
	for _, existing := range agreement.Rules {
		if existing.ID == rule.ID {
			return nil
		}
	}
	agreement.Rules = append(agreement.Rules, rule)
	return nil
}

// MockEventRepository is a mock implementation of EventRepository. Reads
// hand out copies so state only changes through the Mark and Add calls,
// like rows behind a real store.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.AccountingEvent

	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.AccountingEvent, error)
	MarkProcessedFunc    func(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[string]*domain.AccountingEvent),
	}
}

func copyEvent(e *domain.AccountingEvent) *domain.AccountingEvent {
	copied := *e
	copied.OldEventIDs = append([]string(nil), e.OldEventIDs...)
	copied.NewEventIDs = append([]string(nil), e.NewEventIDs...)
	copied.ResultingEntryIDs = append([]string(nil), e.ResultingEntryIDs...)
	return &copied
}

func (m *MockEventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.AccountingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = copyEvent(event)
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.AccountingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.events[id]; ok {
		return copyEvent(e), nil
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.AccountingEvent, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEventRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, tx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Processed = true
	}
	return nil
}

func (m *MockEventRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Reversed = true
	}
	return nil
}

func (m *MockEventRepository) AddResultingEntries(ctx context.Context, tx usecase.Transaction, eventID string, entryIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[eventID]; ok {
		e.ResultingEntryIDs = append(e.ResultingEntryIDs, entryIDs...)
	}
	return nil
}

func (m *MockEventRepository) ListAdjustedBy(ctx context.Context, eventID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, e := range m.events {
		if e.AdjustedEventID != nil && *e.AdjustedEventID == eventID {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu      sync.RWMutex
	Records []*domain.OutboxRecord
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.OutboxRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxRecord
	for _, r := range m.Records {
		if !r.Published {
			result = append(result, r)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == id {
			r.Published = true
			r.PublishedAt = &publishedAt
		}
	}
	return nil
}

// RecordsOfType returns stored records with the given record type.
func (m *MockOutboxRepository) RecordsOfType(recordType string) []*domain.OutboxRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxRecord
	for _, r := range m.Records {
		if r.RecordType == recordType {
			result = append(result, r)
		}
	}
	return result
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	Reversed   int64
	Unbalanced int64
	Err        error
}

func (m *MockLedgerRepository) CheckReversals(ctx context.Context) (int64, int64, error) {
	return m.Reversed, m.Unbalanced, m.Err
}
