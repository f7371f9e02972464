package repository

import (
	"context"

	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/screening"
)

// StatsRepository handles the cohort-wide aggregates behind the faculty views
type StatsRepository interface {
	CohortScores(ctx context.Context, filter models.CohortFilter) ([]float64, error)
	RiskLevelCounts(ctx context.Context, filter models.CohortFilter) (map[screening.RiskLevel]int, error)
	GameComponentMeans(ctx context.Context, filter models.CohortFilter) ([]models.GameSkill, error)
	Roster(ctx context.Context, filter models.StudentFilter) ([]models.RosterEntry, error)
	CountStudents(ctx context.Context, filter models.CohortFilter) (int, error)
	CountScoredAttempts(ctx context.Context, filter models.CohortFilter) (int, error)
}
