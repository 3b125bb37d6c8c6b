package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase/mocks"
)

func TestPublishBatchMarksRecordsPublished(t *testing.T) {
	repo := mocks.NewMockOutboxRepository()
	repo.Records = []*domain.OutboxRecord{
		{
			ID:            "rec-1",
			AggregateID:   "ev-1",
			AggregateType: "accounting_event",
			RecordType:    domain.RecordTypeEventProcessed,
			Payload:       map[string]any{"event_id": "ev-1"},
			CreatedAt:     time.Now().UTC(),
		},
		{
			ID:            "rec-2",
			AggregateID:   "ev-2",
			AggregateType: "accounting_event",
			RecordType:    domain.RecordTypeEventReversed,
			CreatedAt:     time.Now().UTC(),
		},
	}

	p := NewPublisher(repo, zerolog.Nop(), nil)

	if err := p.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, record := range repo.Records {
		if !record.Published {
			t.Fatalf("expected record %s to be published", record.ID)
		}
		if record.PublishedAt == nil {
			t.Fatalf("expected record %s to carry a published timestamp", record.ID)
		}
	}
}

func TestPublishBatchSkipsPublishedRecords(t *testing.T) {
	published := time.Now().UTC().Add(-time.Minute)

	repo := mocks.NewMockOutboxRepository()
	repo.Records = []*domain.OutboxRecord{
		{
			ID:          "rec-old",
			RecordType:  domain.RecordTypeEventProcessed,
			Published:   true,
			PublishedAt: &published,
		},
	}

	p := NewPublisher(repo, zerolog.Nop(), nil)

	if err := p.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !repo.Records[0].PublishedAt.Equal(published) {
		t.Fatal("expected already-published record to be left untouched")
	}
}
