package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

type runServiceStub struct {
	runFn func(ctx context.Context) (*usecase.AssemblyOutput, error)
}

func (s *runServiceStub) Run(ctx context.Context) (*usecase.AssemblyOutput, error) {
	return s.runFn(ctx)
}

type runLookupStub struct {
	getFn    func(ctx context.Context, id string) (*domain.AssemblyRun, error)
	latestFn func(ctx context.Context) (*domain.AssemblyRun, error)
}

func (s *runLookupStub) GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error) {
	return s.getFn(ctx, id)
}

func (s *runLookupStub) LatestRun(ctx context.Context) (*domain.AssemblyRun, error) {
	return s.latestFn(ctx)
}

type evaluatorStub struct {
	called bool
	report *quality.Report
}

func (s *evaluatorStub) Evaluate(out *usecase.AssemblyOutput) *quality.Report {
	s.called = true
	return s.report
}

func sampleRun() *domain.AssemblyRun {
	started := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &domain.AssemblyRun{
		ID:                 "01hzrun",
		Fingerprint:        "f00d",
		Source:             domain.SourceCSV,
		StartedAt:          started,
		FinishedAt:         started.Add(2 * time.Second),
		RowsEmitted:        10,
		DefaultedLoanCount: 2,
	}
}

func TestRunHandler_Create_EmptyBody(t *testing.T) {
	evaluator := &evaluatorStub{}
	handler := NewRunHandler(&runServiceStub{
		runFn: func(ctx context.Context) (*usecase.AssemblyOutput, error) {
			return &usecase.AssemblyOutput{Run: sampleRun()}, nil
		},
	}, nil, evaluator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if evaluator.called {
		t.Fatal("quality should not be evaluated unless requested")
	}

	var resp dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "01hzrun" || resp.DurationMS != 2000 || resp.Quality != nil {
		t.Fatalf("unexpected run response: %+v", resp)
	}
}

func TestRunHandler_Create_WithQuality(t *testing.T) {
	evaluator := &evaluatorStub{report: &quality.Report{OverallStatus: quality.StatusPass}}
	handler := NewRunHandler(&runServiceStub{
		runFn: func(ctx context.Context) (*usecase.AssemblyOutput, error) {
			return &usecase.AssemblyOutput{Run: sampleRun()}, nil
		},
	}, nil, evaluator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString(`{"evaluate_quality":true}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !evaluator.called {
		t.Fatal("expected quality evaluation")
	}

	var resp dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Quality == nil || resp.Quality.OverallStatus != quality.StatusPass {
		t.Fatalf("expected quality summary, got %+v", resp.Quality)
	}
}

func TestRunHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewRunHandler(&runServiceStub{
		runFn: func(ctx context.Context) (*usecase.AssemblyOutput, error) {
			t.Fatal("Run should not be called for invalid payload")
			return nil, nil
		},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRunHandler_Create_ServiceError(t *testing.T) {
	handler := NewRunHandler(&runServiceStub{
		runFn: func(ctx context.Context) (*usecase.AssemblyOutput, error) {
			return nil, errors.New("load events from csv: open users.csv: no such file")
		},
	}, nil, nil)

	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRunHandler_Create_RejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	handler := NewRunHandler(&runServiceStub{
		runFn: func(ctx context.Context) (*usecase.AssemblyOutput, error) {
			close(started)
			<-release
			return &usecase.AssemblyOutput{Run: sampleRun()}, nil
		},
	}, nil, nil)

	done := make(chan int)
	go func() {
		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))
		done <- rec.Code
	}()

	<-started
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a run is in progress, got %d", rec.Code)
	}

	close(release)
	if code := <-done; code != http.StatusCreated {
		t.Fatalf("expected first run to succeed, got %d", code)
	}
}

func TestRunHandler_Get(t *testing.T) {
	handler := NewRunHandler(nil, &runLookupStub{
		getFn: func(ctx context.Context, id string) (*domain.AssemblyRun, error) {
			if id != "01hzrun" {
				return nil, domain.ErrRunNotFound
			}
			return sampleRun(), nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/runs/01hzrun", nil), "id", "01hzrun"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/runs/other", nil), "id", "other"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRunHandler_Latest_NoRuns(t *testing.T) {
	handler := NewRunHandler(nil, &runLookupStub{
		latestFn: func(ctx context.Context) (*domain.AssemblyRun, error) {
			return nil, domain.ErrRunNotFound
		},
	}, nil)

	rec := httptest.NewRecorder()
	handler.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
