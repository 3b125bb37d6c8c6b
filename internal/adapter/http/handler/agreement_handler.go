package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/usecase"
)

// AgreementService defines the behavior needed by AgreementHandler.
type AgreementService interface {
	CreateAgreement(ctx context.Context, input usecase.CreateAgreementInput) (*domain.ServiceAgreement, error)
	GetAgreement(ctx context.Context, id string) (*domain.ServiceAgreement, error)
	AddPostingRule(ctx context.Context, input usecase.AddPostingRuleInput) (*domain.PostingRule, error)
}

// AgreementHandler handles service agreement HTTP requests.
type AgreementHandler struct {
	agreementUC AgreementService
	metrics     *metrics.Metrics
}

// NewAgreementHandler creates a new AgreementHandler. m may be nil.
func NewAgreementHandler(agreementUC AgreementService, m *metrics.Metrics) *AgreementHandler {
	return &AgreementHandler{agreementUC: agreementUC, metrics: m}
}

// Create creates a new service agreement.
func (h *AgreementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	agreement, err := h.agreementUC.CreateAgreement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create agreement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AgreementFromDomain(agreement))
}

// Get retrieves an agreement with its rules.
func (h *AgreementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing agreement ID", "")
		return
	}

	agreement, err := h.agreementUC.GetAgreement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get agreement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AgreementFromDomain(agreement))
}

// AddRule appends a posting rule to an agreement.
func (h *AgreementHandler) AddRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing agreement ID", "")
		return
	}

	var req dto.AddPostingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := h.agreementUC.AddPostingRule(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add posting rule", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RulesAdded.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.PostingRuleFromDomain(rule))
}
