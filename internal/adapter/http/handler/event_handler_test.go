package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

type eventServiceStub struct {
	recordFn     func(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error)
	adjustmentFn func(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.AccountingEvent, error)
	reverseFn    func(ctx context.Context, eventID string) error
	getFn        func(ctx context.Context, id string) (*domain.AccountingEvent, error)
}

func (s *eventServiceStub) RecordEvent(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error) {
	return s.recordFn(ctx, input)
}

func (s *eventServiceStub) RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.AccountingEvent, error) {
	return s.adjustmentFn(ctx, input)
}

func (s *eventServiceStub) ReverseEvent(ctx context.Context, eventID string) error {
	return s.reverseFn(ctx, eventID)
}

func (s *eventServiceStub) GetEvent(ctx context.Context, id string) (*domain.AccountingEvent, error) {
	return s.getFn(ctx, id)
}

func processedEvent() *domain.AccountingEvent {
	return &domain.AccountingEvent{
		ID:                "ev-1",
		Kind:              domain.EventKindDeposit,
		EventType:         "DEPOSIT",
		CustomerID:        "cust-1",
		AccountID:         "acc-1",
		Amount:            domain.NewMoney(decimal.NewFromInt(100), "BRL"),
		WhenOccurred:      time.Now().UTC(),
		WhenNoticed:       time.Now().UTC(),
		ResultingEntryIDs: []string{"e1"},
		Processed:         true,
	}
}

func TestEventHandler_Record_Success(t *testing.T) {
	var captured usecase.RecordEventInput

	handler := NewEventHandler(&eventServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error) {
			captured = input
			return processedEvent(), nil
		},
	}, nil)

	body, _ := json.Marshal(dto.RecordEventRequest{
		EventType:  "DEPOSIT",
		Kind:       "deposit",
		CustomerID: "cust-1",
		AccountID:  "acc-1",
		Amount:     "100.00",
		Currency:   "BRL",
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Amount.String() != "100.00 BRL" {
		t.Fatalf("expected amount 100.00 BRL, got %s", captured.Amount)
	}

	var resp dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Processed || resp.Amount != "100.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEventHandler_Record_BadAmount(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error) {
			t.Fatal("RecordEvent should not be called for a bad amount")
			return nil, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.RecordEventRequest{
		EventType:  "DEPOSIT",
		Kind:       "deposit",
		CustomerID: "cust-1",
		AccountID:  "acc-1",
		Amount:     "one hundred",
		Currency:   "BRL",
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestEventHandler_Record_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"no applicable rule", domain.ErrNoApplicableRule, http.StatusUnprocessableEntity},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusConflict},
		{"unknown customer", domain.ErrCustomerNotFound, http.StatusNotFound},
		{"unknown event type", domain.ErrTypeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(&eventServiceStub{
				recordFn: func(ctx context.Context, input usecase.RecordEventInput) (*domain.AccountingEvent, error) {
					return nil, tt.err
				},
			}, nil)

			body, _ := json.Marshal(dto.RecordEventRequest{
				EventType:  "DEPOSIT",
				Kind:       "deposit",
				CustomerID: "cust-1",
				AccountID:  "acc-1",
				Amount:     "100.00",
				Currency:   "BRL",
			})

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Record(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestEventHandler_Reverse(t *testing.T) {
	reversed := processedEvent()
	reversed.Reversed = true

	handler := NewEventHandler(&eventServiceStub{
		reverseFn: func(ctx context.Context, eventID string) error {
			if eventID != "ev-1" {
				t.Fatalf("expected ev-1, got %s", eventID)
			}
			return nil
		},
		getFn: func(ctx context.Context, id string) (*domain.AccountingEvent, error) {
			return reversed, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/reverse", nil)
	req = setChiURLParam(req, "id", "ev-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Reversed {
		t.Fatal("expected reversed event in response")
	}
}

func TestEventHandler_Reverse_AlreadyReversed(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		reverseFn: func(ctx context.Context, eventID string) error {
			return domain.ErrAlreadyReversed
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/reverse", nil)
	req = setChiURLParam(req, "id", "ev-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEventHandler_RecordAdjustment(t *testing.T) {
	adjustment := &domain.AccountingEvent{
		ID:          "adj-1",
		Kind:        domain.EventKindAdjustment,
		EventType:   "DEPOSIT",
		CustomerID:  "cust-1",
		OldEventIDs: []string{"ev-1"},
		NewEventIDs: []string{"ev-2"},
		Processed:   true,
	}

	handler := NewEventHandler(&eventServiceStub{
		adjustmentFn: func(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.AccountingEvent, error) {
			if len(input.OldEventIDs) != 1 || len(input.NewEvents) != 1 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return adjustment, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.RecordAdjustmentRequest{
		EventType:   "DEPOSIT",
		CustomerID:  "cust-1",
		OldEventIDs: []string{"ev-1"},
		NewEvents: []dto.RecordEventRequest{{
			EventType:  "DEPOSIT",
			Kind:       "deposit",
			CustomerID: "cust-1",
			AccountID:  "acc-1",
			Amount:     "80.00",
			Currency:   "BRL",
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/events/adjustments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RecordAdjustment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
