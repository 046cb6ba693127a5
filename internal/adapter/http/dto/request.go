package dto

import "github.com/sh2nam/bree-takehome-nam/internal/usecase"

// CreateRunRequest represents a request to start an assembly run.
// The body is optional; an empty body runs without the quality suite.
type CreateRunRequest struct {
	EvaluateQuality bool `json:"evaluate_quality"`
}

// ListUserFeaturesRequest carries the path and query parameters of a
// user feature listing.
type ListUserFeaturesRequest struct {
	UserID string
	Limit  int
	Offset int
}

// ToUseCaseInput converts to use case input.
func (r *ListUserFeaturesRequest) ToUseCaseInput() usecase.ListByUserInput {
	return usecase.ListByUserInput{
		UserID: r.UserID,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
}
