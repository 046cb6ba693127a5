package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

// FeatureService defines the behavior needed by FeatureHandler.
type FeatureService interface {
	GetByLoan(ctx context.Context, loanID string) (*domain.FeatureRow, error)
	ListByUser(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error)
}

// FeatureHandler serves assembled feature rows.
type FeatureHandler struct {
	featureUC FeatureService
}

// NewFeatureHandler creates a new FeatureHandler.
func NewFeatureHandler(featureUC FeatureService) *FeatureHandler {
	return &FeatureHandler{featureUC: featureUC}
}

// GetByLoan returns the feature row of one loan.
func (h *FeatureHandler) GetByLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	row, err := h.featureUC.GetByLoan(r.Context(), loanID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get feature row", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// ListByUser returns a page of a user's feature rows.
func (h *FeatureHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	req := dto.ListUserFeaturesRequest{
		UserID: chi.URLParam(r, "userID"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	rows, err := h.featureUC.ListByUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list feature rows", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FeatureListFromDomain(req.UserID, req.Limit, req.Offset, rows))
}
