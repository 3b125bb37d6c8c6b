package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error)
	GetEntriesByEvent(ctx context.Context, eventID string) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists entries for an account.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByEvent lists the entries an event produced.
func (h *EntryHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	entries, err := h.entryUC.GetEntriesByEvent(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
