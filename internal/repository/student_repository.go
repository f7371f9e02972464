package repository

import (
	"context"

	"github.com/neurobloom/screener/internal/models"
)

// StudentRepository handles student data access
type StudentRepository interface {
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Count(ctx context.Context, filter models.StudentFilter) (int, error)
	Insert(ctx context.Context, student models.Student) (int64, error)
	Update(ctx context.Context, student models.Student) error
	Delete(ctx context.Context, id int64) error
}
