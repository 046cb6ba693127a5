package usecase

import (
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) RunCompleted(*domain.AssemblyRun, []domain.ViolationCount, time.Duration) {}
func (NopObserver) CacheLookup(bool) {}
func (NopObserver) QualityChecked(string, string) {}
