package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
)

// CatalogService defines the behavior needed by CatalogHandler.
type CatalogService interface {
	CreateCurrency(ctx context.Context, code, name string) (*domain.Currency, error)
	CreateAccountType(ctx context.Context, name string) (*domain.AccountType, error)
	CreateEventType(ctx context.Context, name string) (*domain.EventType, error)
	CreateEntryType(ctx context.Context, name, accountType string) (*domain.EntryType, error)
	ListAccountTypes(ctx context.Context) ([]*domain.AccountType, error)
}

// CatalogHandler handles reference data HTTP requests.
type CatalogHandler struct {
	catalogUC CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogUC CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// CreateCurrency registers a currency.
func (h *CatalogHandler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.catalogUC.CreateCurrency(r.Context(), req.Code, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create currency", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// CreateAccountType registers an account type.
func (h *CatalogHandler) CreateAccountType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	accountType, err := h.catalogUC.CreateAccountType(r.Context(), req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account type", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TypeResponse{Name: accountType.Name, CreatedAt: accountType.CreatedAt})
}

// CreateEventType registers an event type.
func (h *CatalogHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	eventType, err := h.catalogUC.CreateEventType(r.Context(), req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create event type", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TypeResponse{Name: eventType.Name, CreatedAt: eventType.CreatedAt})
}

// CreateEntryType registers an entry type scoped to an account type.
func (h *CatalogHandler) CreateEntryType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entryType, err := h.catalogUC.CreateEntryType(r.Context(), req.Name, req.AccountType)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entry type", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryTypeFromDomain(entryType))
}

// ListAccountTypes lists registered account types.
func (h *CatalogHandler) ListAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogUC.ListAccountTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list account types", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountTypesFromDomain(types))
}
