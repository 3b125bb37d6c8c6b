package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/bookledger/internal/domain"
)

// EventUseCase drives the accounting event state machine: ingestion,
// processing, reversal and adjustment. Every public operation runs as a
// single transaction against the store; either all resulting entries
// and flag updates commit, or none do.
type EventUseCase struct {
	txManager     TransactionManager
	eventRepo     EventRepository
	entryRepo     EntryRepository
	customerRepo  CustomerRepository
	agreementRepo AgreementRepository
	catalogRepo   CatalogRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	retrier       Retrier
}

// NewEventUseCase creates a new EventUseCase. retrier may be nil, in
// which case transient storage failures are not retried.
func NewEventUseCase(
	txManager TransactionManager,
	eventRepo EventRepository,
	entryRepo EntryRepository,
	customerRepo CustomerRepository,
	agreementRepo AgreementRepository,
	catalogRepo CatalogRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
) *EventUseCase {
	return &EventUseCase{
		txManager:     txManager,
		eventRepo:     eventRepo,
		entryRepo:     entryRepo,
		customerRepo:  customerRepo,
		agreementRepo: agreementRepo,
		catalogRepo:   catalogRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		retrier:       retrier,
	}
}

// RecordEventInput represents input for recording an accounting event.
type RecordEventInput struct {
	EventType     string
	Kind          domain.EventKind
	CustomerID    string
	AccountID     string
	FromAccountID string
	ToAccountID   string
	Amount        domain.Money
	WhenOccurred  *time.Time
	WhenNoticed   *time.Time
	// AdjustedEventID, when set, is reversed before this event posts.
	AdjustedEventID *string
}

// RecordEvent persists a new event and immediately processes it. This is
// the ingestion entry point: the caller supplies an event-type code and
// the event's shape, and gets back the processed event.
func (uc *EventUseCase) RecordEvent(ctx context.Context, input RecordEventInput) (*domain.AccountingEvent, error) {
	if input.Kind == domain.EventKindAdjustment {
		return nil, fmt.Errorf("%w: adjustments are recorded through RecordAdjustment", domain.ErrInvalidRuleConfiguration)
	}

	event, err := uc.buildEvent(ctx, input)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := uc.ProcessEvent(ctx, event.ID); err != nil {
		return nil, err
	}

	return uc.eventRepo.GetByID(ctx, event.ID)
}

// RecordAdjustmentInput represents input for recording an adjustment.
type RecordAdjustmentInput struct {
	EventType    string
	CustomerID   string
	OldEventIDs  []string
	NewEvents    []RecordEventInput
	WhenOccurred *time.Time
	WhenNoticed  *time.Time
}

// RecordAdjustment persists an adjustment with its replacement events
// (unprocessed) and processes it: old events are reversed, new events
// posted, and the affected account-type positions restated.
func (uc *EventUseCase) RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*domain.AccountingEvent, error) {
	now := time.Now().UTC()

	adjustment := &domain.AccountingEvent{
		ID:           uc.idGen.Generate(),
		Kind:         domain.EventKindAdjustment,
		EventType:    input.EventType,
		CustomerID:   input.CustomerID,
		WhenOccurred: timeOrDefault(input.WhenOccurred, now),
		WhenNoticed:  timeOrDefault(input.WhenNoticed, now),
		OldEventIDs:  input.OldEventIDs,
		CreatedAt:    now,
	}

	newEvents := make([]*domain.AccountingEvent, 0, len(input.NewEvents))

	for _, ni := range input.NewEvents {
		if ni.Kind == domain.EventKindAdjustment {
			return nil, fmt.Errorf("%w: an adjustment cannot replace events with another adjustment", domain.ErrInvalidRuleConfiguration)
		}

		event, err := uc.buildEvent(ctx, ni)
		if err != nil {
			return nil, err
		}

		adjustment.NewEventIDs = append(adjustment.NewEventIDs, event.ID)
		newEvents = append(newEvents, event)
	}

	if err := adjustment.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, event := range newEvents {
		if err := uc.eventRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := uc.eventRepo.Create(ctx, tx, adjustment); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := uc.ProcessEvent(ctx, adjustment.ID); err != nil {
		return nil, err
	}

	return uc.eventRepo.GetByID(ctx, adjustment.ID)
}

// ProcessEvent processes a persisted event in one atomic unit of work.
func (uc *EventUseCase) ProcessEvent(ctx context.Context, eventID string) error {
	return uc.inTransaction(ctx, func(tx Transaction) error {
		return uc.processLocked(ctx, tx, eventID, map[string]bool{})
	})
}

// ReverseEvent posts compensating entries for a processed event and
// cascades into chained events.
func (uc *EventUseCase) ReverseEvent(ctx context.Context, eventID string) error {
	return uc.inTransaction(ctx, func(tx Transaction) error {
		return uc.reverseLocked(ctx, tx, eventID, map[string]bool{})
	})
}

// GetEvent retrieves an event by ID.
func (uc *EventUseCase) GetEvent(ctx context.Context, id string) (*domain.AccountingEvent, error) {
	return uc.eventRepo.GetByID(ctx, id)
}

func (uc *EventUseCase) inTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	op := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *EventUseCase) buildEvent(ctx context.Context, input RecordEventInput) (*domain.AccountingEvent, error) {
	if _, err := uc.catalogRepo.GetEventType(ctx, input.EventType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	occurred := timeOrDefault(input.WhenOccurred, now)

	event := &domain.AccountingEvent{
		ID:              uc.idGen.Generate(),
		Kind:            input.Kind,
		EventType:       input.EventType,
		CustomerID:      input.CustomerID,
		AccountID:       input.AccountID,
		FromAccountID:   input.FromAccountID,
		ToAccountID:     input.ToAccountID,
		Amount:          input.Amount,
		WhenOccurred:    occurred,
		WhenNoticed:     timeOrDefault(input.WhenNoticed, occurred),
		AdjustedEventID: input.AdjustedEventID,
		CreatedAt:       now,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// processLocked runs the process state machine with the event row
// locked. The visited set guards against adjustment cycles: an event
// must never transitively adjust itself.
func (uc *EventUseCase) processLocked(ctx context.Context, tx Transaction, eventID string, visited map[string]bool) error {
	if visited[eventID] {
		return fmt.Errorf("%w: event %s", domain.ErrAdjustmentCycle, eventID)
	}

	visited[eventID] = true

	event, err := uc.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return err
	}

	if event.Processed {
		return fmt.Errorf("%w: event %s", domain.ErrAlreadyProcessed, event.ID)
	}

	if event.Kind == domain.EventKindAdjustment {
		return uc.adjustLocked(ctx, tx, event, visited)
	}

	if event.AdjustedEventID != nil {
		if err := uc.reverseLocked(ctx, tx, *event.AdjustedEventID, visited); err != nil {
			return err
		}
	}

	customer, err := uc.loadCustomer(ctx, tx, event.CustomerID)
	if err != nil {
		return err
	}

	if customer.AgreementID == "" {
		return fmt.Errorf("%w: customer %s has no service agreement", domain.ErrNoApplicableRule, customer.ID)
	}

	agreement, err := uc.agreementRepo.GetByID(ctx, customer.AgreementID)
	if err != nil {
		return err
	}

	// Rules may have been written around AddRule's overlap check, for
	// example by a migration. First-match resolution on an overlapping
	// set would pick silently, so the hydrated set is rechecked here.
	if err := agreement.Validate(); err != nil {
		return err
	}

	// Rule lookup uses occurrence time so historical events resolve
	// against the rule that was active when they happened.
	rule, ok := agreement.PostingRuleFor(event.EventType, event.WhenOccurred)
	if !ok {
		return fmt.Errorf("%w: event type %q at %s", domain.ErrNoApplicableRule, event.EventType, event.WhenOccurred.Format(time.RFC3339))
	}

	entries, err := rule.Post(event, customer, uc.idGen)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	entryIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry.CreatedAt = now

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		entryIDs = append(entryIDs, entry.ID)
	}

	if err := uc.eventRepo.AddResultingEntries(ctx, tx, event.ID, entryIDs); err != nil {
		return err
	}

	if err := event.MarkProcessed(); err != nil {
		return err
	}

	if err := uc.eventRepo.MarkProcessed(ctx, tx, event.ID, now); err != nil {
		return err
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxRecord{
		ID:            uc.idGen.Generate(),
		AggregateID:   event.ID,
		AggregateType: domain.AggregateTypeEvent,
		RecordType:    domain.RecordTypeEventProcessed,
		Payload: map[string]any{
			"event_id":    event.ID,
			"event_type":  event.EventType,
			"customer_id": event.CustomerID,
			"entries":     len(entryIDs),
		},
		CreatedAt: now,
	})
}

// reverseLocked negates every resulting entry of the event, dates the
// compensating entries at reversal time, and recurses into events that
// adjust this one. History is additive: reversal entries join the
// event's record, nothing is deleted.
func (uc *EventUseCase) reverseLocked(ctx context.Context, tx Transaction, eventID string, visited map[string]bool) error {
	if visited[eventID] {
		return fmt.Errorf("%w: event %s", domain.ErrAdjustmentCycle, eventID)
	}

	visited[eventID] = true

	event, err := uc.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return err
	}

	if !event.Processed {
		return fmt.Errorf("%w: event %s", domain.ErrNotProcessed, event.ID)
	}

	if event.Reversed {
		return fmt.Errorf("%w: event %s", domain.ErrAlreadyReversed, event.ID)
	}

	customer, err := uc.loadCustomer(ctx, tx, event.CustomerID)
	if err != nil {
		return err
	}

	originals, err := uc.entryRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	entryIDs := make([]string, 0, len(originals))

	for _, original := range originals {
		// The compensating entry lands on the same account as the
		// original, so transfer legs reverse on both sides.
		account, ok := customer.Account(original.AccountID)
		if !ok {
			return fmt.Errorf("%w: account %s", domain.ErrAccountNotFound, original.AccountID)
		}

		reversing := &domain.Entry{
			ID:        uc.idGen.Generate(),
			EventID:   event.ID,
			EntryType: original.EntryType,
			Amount:    original.Amount.Negate(),
			Date:      now,
			CreatedAt: now,
		}

		if err := account.AddEntry(reversing); err != nil {
			return err
		}

		if err := uc.entryRepo.Create(ctx, tx, reversing); err != nil {
			return err
		}

		event.RegisterEntry(reversing.ID)
		entryIDs = append(entryIDs, reversing.ID)
	}

	if err := uc.eventRepo.AddResultingEntries(ctx, tx, event.ID, entryIDs); err != nil {
		return err
	}

	if err := event.MarkReversed(); err != nil {
		return err
	}

	if err := uc.eventRepo.MarkReversed(ctx, tx, event.ID, now); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxRecord{
		ID:            uc.idGen.Generate(),
		AggregateID:   event.ID,
		AggregateType: domain.AggregateTypeEvent,
		RecordType:    domain.RecordTypeEventReversed,
		Payload: map[string]any{
			"event_id":    event.ID,
			"customer_id": event.CustomerID,
			"entries":     len(entryIDs),
		},
		CreatedAt: now,
	}); err != nil {
		return err
	}

	// Cascade into chained events.
	secondaries, err := uc.eventRepo.ListAdjustedBy(ctx, event.ID)
	if err != nil {
		return err
	}

	for _, secondaryID := range secondaries {
		if visited[secondaryID] {
			continue
		}

		if err := uc.reverseLocked(ctx, tx, secondaryID, visited); err != nil {
			return err
		}
	}

	return nil
}

// adjustLocked replaces a batch of events with a corrected batch:
// reverse the old set, process the new set, then restate the
// consolidated position of every affected account type. The affected
// set is computed from the events being adjusted, never from a global
// scan.
func (uc *EventUseCase) adjustLocked(ctx context.Context, tx Transaction, adjustment *domain.AccountingEvent, visited map[string]bool) error {
	for _, oldID := range adjustment.OldEventIDs {
		if err := uc.reverseLocked(ctx, tx, oldID, visited); err != nil {
			return err
		}
	}

	for _, newID := range adjustment.NewEventIDs {
		if err := uc.processLocked(ctx, tx, newID, visited); err != nil {
			return err
		}
	}

	now := time.Now().UTC()

	if err := uc.restatePositions(ctx, tx, adjustment, now); err != nil {
		return err
	}

	if err := adjustment.MarkProcessed(); err != nil {
		return err
	}

	return uc.eventRepo.MarkProcessed(ctx, tx, adjustment.ID, now)
}

// restatePositions recomputes the consolidated balance per affected
// account type and records the restated totals.
func (uc *EventUseCase) restatePositions(ctx context.Context, tx Transaction, adjustment *domain.AccountingEvent, now time.Time) error {
	customer, err := uc.loadCustomer(ctx, tx, adjustment.CustomerID)
	if err != nil {
		return err
	}

	touched := map[string]bool{adjustment.ID: true}
	for _, id := range adjustment.OldEventIDs {
		touched[id] = true
	}
	for _, id := range adjustment.NewEventIDs {
		touched[id] = true
	}

	affected := map[string]bool{}

	for _, account := range customer.Accounts {
		for _, entry := range account.Entries() {
			if touched[entry.EventID] {
				affected[account.AccountType] = true

				break
			}
		}
	}

	for accountType := range affected {
		// One consolidated total per (account type, currency).
		totals := map[string]domain.Money{}

		for _, account := range customer.Accounts {
			if account.AccountType != accountType {
				continue
			}

			balance := account.Balance()

			total, ok := totals[account.Currency]
			if !ok {
				total = domain.ZeroMoney(account.Currency)
			}

			total, err := total.Add(balance)
			if err != nil {
				return err
			}

			totals[account.Currency] = total
		}

		for currency, total := range totals {
			if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxRecord{
				ID:            uc.idGen.Generate(),
				AggregateID:   adjustment.ID,
				AggregateType: domain.AggregateTypeEvent,
				RecordType:    domain.RecordTypePositionRestated,
				Payload: map[string]any{
					"adjustment_id": adjustment.ID,
					"account_type":  accountType,
					"total":         total.Amount().StringFixed(2),
					"currency":      currency,
				},
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// loadCustomer hydrates the customer aggregate: accounts plus their
// entries, read inside the current transaction.
func (uc *EventUseCase) loadCustomer(ctx context.Context, tx Transaction, customerID string) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if len(customer.Accounts) == 0 {
		return customer, nil
	}

	accountIDs := make([]string, 0, len(customer.Accounts))
	for _, account := range customer.Accounts {
		accountIDs = append(accountIDs, account.ID)
	}

	entries, err := uc.entryRepo.ListByAccountsTx(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		account, ok := customer.Account(entry.AccountID)
		if !ok {
			continue
		}

		if err := account.AddEntry(entry); err != nil {
			return nil, err
		}
	}

	return customer, nil
}

func timeOrDefault(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}

	return fallback
}
