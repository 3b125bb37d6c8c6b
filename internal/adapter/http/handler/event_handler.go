package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	RecordEvent(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error)
	RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.AccountingEvent, error)
	ReverseEvent(ctx context.Context, eventID string) error
	GetEvent(ctx context.Context, id string) (*domain.AccountingEvent, error)
}

// EventHandler handles accounting event HTTP requests.
type EventHandler struct {
	eventUC EventService
	metrics *metrics.Metrics
}

// NewEventHandler creates a new EventHandler. m may be nil.
func NewEventHandler(eventUC EventService, m *metrics.Metrics) *EventHandler {
	return &EventHandler{eventUC: eventUC, metrics: m}
}

// Record records and processes a new accounting event.
func (h *EventHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid event", err.Error())
		return
	}

	start := time.Now()

	event, err := h.eventUC.RecordEvent(r.Context(), input)
	if err != nil {
		h.recordFailure(err)
		writeError(w, mapDomainError(err), "failed to record event", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.ProcessDuration.Observe(time.Since(start).Seconds())
		h.metrics.EventsRecorded.WithLabelValues(string(event.Kind)).Inc()
		h.metrics.EntriesPosted.Add(float64(len(event.ResultingEntryIDs)))
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// RecordAdjustment replaces a batch of events with a corrected batch.
func (h *EventHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid adjustment", err.Error())
		return
	}

	event, err := h.eventUC.RecordAdjustment(r.Context(), input)
	if err != nil {
		h.recordFailure(err)
		writeError(w, mapDomainError(err), "failed to record adjustment", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.Adjustments.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves an event by ID.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	event, err := h.eventUC.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get event", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// Reverse posts compensating entries for a processed event.
func (h *EventHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	if err := h.eventUC.ReverseEvent(r.Context(), id); err != nil {
		h.recordFailure(err)
		writeError(w, mapDomainError(err), "failed to reverse event", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.EventsReversed.Inc()
	}

	event, err := h.eventUC.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get event", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

func (h *EventHandler) recordFailure(err error) {
	if h.metrics == nil {
		return
	}

	h.metrics.ProcessErrors.WithLabelValues(errorLabel(err)).Inc()

	if errors.Is(err, domain.ErrNoApplicableRule) {
		h.metrics.RuleMisses.Inc()
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoApplicableRule):
		return "no_applicable_rule"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, domain.ErrAlreadyReversed):
		return "already_reversed"
	case errors.Is(err, domain.ErrAdjustmentCycle):
		return "adjustment_cycle"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	default:
		return "other"
	}
}
