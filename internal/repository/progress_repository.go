package repository

import (
	"context"

	"github.com/neurobloom/screener/internal/models"
)

// ProgressRepository handles the per-student progress snapshots derived from
// scored attempts.
type ProgressRepository interface {
	// Refresh recomputes the snapshot for one student and assessment from the
	// scored attempts on record.
	Refresh(ctx context.Context, studentID, assessmentID int64) error
	Get(ctx context.Context, studentID, assessmentID int64) (*models.ProgressSnapshot, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.ProgressSnapshot, error)
	TrendPoints(ctx context.Context, studentID, assessmentID int64) ([]models.TrendPoint, error)
}
