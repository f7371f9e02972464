package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/neurobloom/screener/internal/models"
)

// MockAssessmentRepository is a mock implementation of repository.AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Get(ctx context.Context, id int64) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetBySlug(ctx context.Context, slug string) (*models.Assessment, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context) ([]models.Assessment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GamesFor(ctx context.Context, assessmentID int64) ([]models.AssessmentGame, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentGame), args.Error(1)
}
