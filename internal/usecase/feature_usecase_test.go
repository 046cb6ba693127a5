package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase/mocks"
)

func TestFeatureUseCase_GetByLoan_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockFeatureStore(ctrl)
	cache := mocks.NewMockFeatureCache(ctrl)
	observer := mocks.NewMockObserver(ctrl)

	cache.EXPECT().CurrentFingerprint(gomock.Any()).Return("abc", nil)
	cache.EXPECT().Get(gomock.Any(), "abc", "loan-1").Return(&domain.FeatureRow{LoanID: "loan-1"}, nil)
	observer.EXPECT().CacheLookup(true)

	uc := usecase.NewFeatureUseCase(store, cache, observer, zerolog.Nop())

	row, err := uc.GetByLoan(context.Background(), "loan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.LoanID != "loan-1" {
		t.Errorf("expected loan-1, got %s", row.LoanID)
	}
}

func TestFeatureUseCase_GetByLoan_FallsBackToStore(t *testing.T) {
	tests := []struct {
		name  string
		cache func(c *mocks.MockFeatureCache)
	}{
		{
			name: "miss",
			cache: func(c *mocks.MockFeatureCache) {
				c.EXPECT().CurrentFingerprint(gomock.Any()).Return("abc", nil)
				c.EXPECT().Get(gomock.Any(), "abc", "loan-1").Return(nil, nil)
			},
		},
		{
			name: "no cached run",
			cache: func(c *mocks.MockFeatureCache) {
				c.EXPECT().CurrentFingerprint(gomock.Any()).Return("", nil)
			},
		},
		{
			name: "cache unavailable",
			cache: func(c *mocks.MockFeatureCache) {
				c.EXPECT().CurrentFingerprint(gomock.Any()).Return("", errors.New("dial tcp: refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockFeatureStore(ctrl)
			cache := mocks.NewMockFeatureCache(ctrl)
			observer := mocks.NewMockObserver(ctrl)

			tt.cache(cache)
			observer.EXPECT().CacheLookup(false)
			store.EXPECT().GetRow(gomock.Any(), "loan-1").Return(&domain.FeatureRow{LoanID: "loan-1"}, nil)

			uc := usecase.NewFeatureUseCase(store, cache, observer, zerolog.Nop())

			if _, err := uc.GetByLoan(context.Background(), "loan-1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFeatureUseCase_GetByLoan_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := usecase.NewFeatureUseCase(mocks.NewMockFeatureStore(ctrl), mocks.NewMockFeatureCache(ctrl), usecase.NopObserver{}, zerolog.Nop())

	_, err := uc.GetByLoan(context.Background(), "loan 1")
	if !errors.Is(err, domain.ErrInvalidIDFormat) {
		t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
	}
}

func TestFeatureUseCase_ListByUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockFeatureStore(ctrl)
	store.EXPECT().ListByUser(gomock.Any(), "u1", 50, 0).Return([]*domain.FeatureRow{
		{LoanID: "l1", UserID: "u1"},
		{LoanID: "l2", UserID: "u1"},
	}, nil)

	uc := usecase.NewFeatureUseCase(store, mocks.NewMockFeatureCache(ctrl), usecase.NopObserver{}, zerolog.Nop())

	rows, err := uc.ListByUser(context.Background(), usecase.ListByUserInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestFeatureUseCase_LatestRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockFeatureStore(ctrl)
	store.EXPECT().LatestRun(gomock.Any()).Return(nil, domain.ErrRunNotFound)

	uc := usecase.NewFeatureUseCase(store, mocks.NewMockFeatureCache(ctrl), usecase.NopObserver{}, zerolog.Nop())

	if _, err := uc.LatestRun(context.Background()); !errors.Is(err, domain.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
