package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

type featureServiceStub struct {
	getFn  func(ctx context.Context, loanID string) (*domain.FeatureRow, error)
	listFn func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error)
}

func (s *featureServiceStub) GetByLoan(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
	return s.getFn(ctx, loanID)
}

func (s *featureServiceStub) ListByUser(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error) {
	return s.listFn(ctx, input)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestFeatureHandler_GetByLoan_Success(t *testing.T) {
	anchor := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	handler := NewFeatureHandler(&featureServiceStub{
		getFn: func(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
			return &domain.FeatureRow{LoanID: loanID, UserID: "u1", AnchorAt: anchor, Default30d: 1}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/features/L1", nil), "loanID", "L1")
	rec := httptest.NewRecorder()

	handler.GetByLoan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var row domain.FeatureRow
	if err := json.Unmarshal(rec.Body.Bytes(), &row); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if row.LoanID != "L1" || row.Default30d != 1 || !row.AnchorAt.Equal(anchor) {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestFeatureHandler_GetByLoan_NotFound(t *testing.T) {
	handler := NewFeatureHandler(&featureServiceStub{
		getFn: func(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
			return nil, domain.ErrFeatureRowNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/features/L9", nil), "loanID", "L9")
	rec := httptest.NewRecorder()

	handler.GetByLoan(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFeatureHandler_GetByLoan_MissingID(t *testing.T) {
	handler := NewFeatureHandler(&featureServiceStub{
		getFn: func(ctx context.Context, loanID string) (*domain.FeatureRow, error) {
			t.Fatal("GetByLoan should not be called without an ID")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.GetByLoan(rec, httptest.NewRequest(http.MethodGet, "/api/v1/features/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFeatureHandler_ListByUser(t *testing.T) {
	var captured usecase.ListByUserInput
	handler := NewFeatureHandler(&featureServiceStub{
		listFn: func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error) {
			captured = input
			return []*domain.FeatureRow{{LoanID: "L1", UserID: input.UserID}, {LoanID: "L2", UserID: input.UserID}}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/features?limit=10&offset=5", nil), "userID", "u1")
	rec := httptest.NewRecorder()

	handler.ListByUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "u1" || captured.Limit != 10 || captured.Offset != 5 {
		t.Fatalf("unexpected use case input: %+v", captured)
	}

	var resp dto.FeatureListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || resp.Rows[1].LoanID != "L2" {
		t.Fatalf("unexpected list response: %+v", resp)
	}
}

func TestFeatureHandler_ListByUser_InvalidID(t *testing.T) {
	handler := NewFeatureHandler(&featureServiceStub{
		listFn: func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error) {
			return nil, domain.ValidateID(input.UserID)
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/x/features", nil), "userID", "bad id!")
	rec := httptest.NewRecorder()

	handler.ListByUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFeatureHandler_ListByUser_StoreError(t *testing.T) {
	handler := NewFeatureHandler(&featureServiceStub{
		listFn: func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.FeatureRow, error) {
			return nil, errors.New("db error")
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/features", nil), "userID", "u1")
	rec := httptest.NewRecorder()

	handler.ListByUser(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
