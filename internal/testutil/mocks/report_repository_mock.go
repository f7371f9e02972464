package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/neurobloom/screener/internal/models"
)

// MockReportRepository is a mock implementation of repository.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SaveScoredAttempt(ctx context.Context, attemptID int64, completedAt time.Time, results []models.AttemptResult, report models.Report) (int64, error) {
	args := m.Called(ctx, attemptID, completedAt, results, report)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) GetByAttempt(ctx context.Context, attemptID int64) (*models.Report, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}
