package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/neurobloom/screener/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Refresh(ctx context.Context, studentID, assessmentID int64) error {
	args := m.Called(ctx, studentID, assessmentID)
	return args.Error(0)
}

func (m *MockProgressRepository) Get(ctx context.Context, studentID, assessmentID int64) (*models.ProgressSnapshot, error) {
	args := m.Called(ctx, studentID, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressSnapshot), args.Error(1)
}

func (m *MockProgressRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.ProgressSnapshot, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressSnapshot), args.Error(1)
}

func (m *MockProgressRepository) TrendPoints(ctx context.Context, studentID, assessmentID int64) ([]models.TrendPoint, error) {
	args := m.Called(ctx, studentID, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrendPoint), args.Error(1)
}
