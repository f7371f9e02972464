package repository

import (
	"context"

	"github.com/neurobloom/screener/internal/models"
)

// AssessmentRepository handles assessment catalog data access
type AssessmentRepository interface {
	Get(ctx context.Context, id int64) (*models.Assessment, error)
	GetBySlug(ctx context.Context, slug string) (*models.Assessment, error)
	List(ctx context.Context) ([]models.Assessment, error)
	GamesFor(ctx context.Context, assessmentID int64) ([]models.AssessmentGame, error)
}
