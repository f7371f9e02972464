package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/screening"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CohortScores(ctx context.Context, filter models.CohortFilter) ([]float64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockStatsRepository) RiskLevelCounts(ctx context.Context, filter models.CohortFilter) (map[screening.RiskLevel]int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[screening.RiskLevel]int), args.Error(1)
}

func (m *MockStatsRepository) GameComponentMeans(ctx context.Context, filter models.CohortFilter) ([]models.GameSkill, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameSkill), args.Error(1)
}

func (m *MockStatsRepository) Roster(ctx context.Context, filter models.StudentFilter) ([]models.RosterEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RosterEntry), args.Error(1)
}

func (m *MockStatsRepository) CountStudents(ctx context.Context, filter models.CohortFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) CountScoredAttempts(ctx context.Context, filter models.CohortFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}
