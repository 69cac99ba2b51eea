package repository

import (
	"context"
	"errors"

	"adaptkit/internal/domain"
)

// ErrRunNotFound is returned when a run ID has no stored report
var ErrRunNotFound = errors.New("run not found")

// Repository defines the interface for extraction run persistence
type Repository interface {
	// SaveRun stores a report and assigns its ID
	SaveRun(ctx context.Context, report *domain.Report) (int64, error)

	// GetRun loads a full report, including every unit and element
	GetRun(ctx context.Context, id int64) (*domain.Report, error)

	// ListRuns returns the most recent runs first; limit <= 0 means all
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Close releases resources
	Close() error
}
