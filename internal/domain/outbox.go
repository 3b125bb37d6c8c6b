package domain

import "time"

// Outbox record types
const (
	RecordTypeEventProcessed   = "event.processed"
	RecordTypeEventReversed    = "event.reversed"
	RecordTypePositionRestated = "position.restated"
)

// Aggregate types
const (
	AggregateTypeEvent   = "accounting_event"
	AggregateTypeAccount = "account"
)

// OutboxRecord is written in the same transaction as the ledger change
// it describes and published to downstream consumers afterwards.
type OutboxRecord struct {
	ID            string
	AggregateID   string
	AggregateType string
	RecordType    string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EventProcessedRecord payload
type EventProcessedRecord struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Customer  string `json:"customer_id"`
	Entries   int    `json:"entries"`
}

// EventReversedRecord payload
type EventReversedRecord struct {
	EventID  string `json:"event_id"`
	Customer string `json:"customer_id"`
	Entries  int    `json:"entries"`
}

// PositionRestatedRecord payload
type PositionRestatedRecord struct {
	AdjustmentID string `json:"adjustment_id"`
	AccountType  string `json:"account_type"`
	Total        string `json:"total"`
	Currency     string `json:"currency"`
}
