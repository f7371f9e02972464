package repository

import (
	"context"
	"time"

	"github.com/neurobloom/screener/internal/models"
)

// AttemptRepository handles attempt data access
type AttemptRepository interface {
	Get(ctx context.Context, id int64) (*models.Attempt, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Attempt, error)
	Insert(ctx context.Context, attempt models.Attempt) (int64, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	Count(ctx context.Context, filter models.AttemptFilter) (int, error)
	HasInProgress(ctx context.Context, studentID, assessmentID int64) (bool, error)
	ResultsFor(ctx context.Context, attemptID int64) ([]models.AttemptResult, error)
	AbandonOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
