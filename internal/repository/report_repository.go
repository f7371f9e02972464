package repository

import (
	"context"
	"time"

	"github.com/neurobloom/screener/internal/models"
)

// ReportRepository handles risk report data access. Reports are write-once:
// SaveScoredAttempt is the only write path, and it refuses attempts that
// already carry a report.
type ReportRepository interface {
	// SaveScoredAttempt persists the attempt's per-game results and its risk
	// report, and marks the attempt scored, all in one transaction.
	SaveScoredAttempt(ctx context.Context, attemptID int64, completedAt time.Time, results []models.AttemptResult, report models.Report) (int64, error)
	GetByAttempt(ctx context.Context, attemptID int64) (*models.Report, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.Report, error)
}
