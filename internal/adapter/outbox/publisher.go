package outbox

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/usecase"
)

const (
	pollInterval = 2 * time.Second
	batchSize    = 100
)

// Publisher drains the outbox: records committed alongside ledger
// changes are emitted to the log stream and marked published. Consumers
// tail the stream instead of polling the ledger tables.
type Publisher struct {
	repo    usecase.OutboxRepository
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewPublisher creates a new Publisher. metrics may be nil.
func NewPublisher(repo usecase.OutboxRepository, logger zerolog.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// Run polls until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.publishBatch(ctx); err != nil {
				p.logger.Error().Err(err).Msg("outbox publish failed")
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) error {
	records, err := p.repo.GetUnpublished(ctx, batchSize)
	if err != nil {
		return err
	}

	if p.metrics != nil {
		p.metrics.OutboxPending.Set(float64(len(records)))
	}

	for _, record := range records {
		p.logger.Info().
			Str("record_id", record.ID).
			Str("record_type", record.RecordType).
			Str("aggregate_id", record.AggregateID).
			Str("aggregate_type", record.AggregateType).
			Interface("payload", record.Payload).
			Msg("outbox record published")

		if err := p.repo.MarkPublished(ctx, record.ID, time.Now().UTC()); err != nil {
			return err
		}

		if p.metrics != nil {
			p.metrics.OutboxPublished.Inc()
		}
	}

	return nil
}
