package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/screening"
	"github.com/neurobloom/screener/internal/services"
	"github.com/neurobloom/screener/internal/testutil/mocks"
)

type progressMocks struct {
	progress    *mocks.MockProgressRepository
	students    *mocks.MockStudentRepository
	assessments *mocks.MockAssessmentRepository
}

func newProgressService() (services.ProgressService, *progressMocks) {
	m := &progressMocks{
		progress:    &mocks.MockProgressRepository{},
		students:    &mocks.MockStudentRepository{},
		assessments: &mocks.MockAssessmentRepository{},
	}
	return services.NewProgressService(m.progress, m.students, m.assessments), m
}

func TestRefreshProgress(t *testing.T) {
	svc, m := newProgressService()

	m.progress.On("Refresh", mock.Anything, int64(4), int64(2)).Return(nil)

	require.NoError(t, svc.RefreshProgress(context.Background(), 4, 2))
	m.progress.AssertExpectations(t)
}

func TestStudentProgress(t *testing.T) {
	svc, m := newProgressService()

	m.students.On("Get", mock.Anything, int64(4)).Return(&models.Student{ID: 4}, nil)
	m.progress.On("ListForStudent", mock.Anything, int64(4)).Return([]models.ProgressSnapshot{
		{StudentID: 4, AssessmentID: 2, AttemptsCount: 3, BestScore: 55, LatestScore: 55, MeanScore: 45, LatestRiskLevel: screening.RiskNone},
	}, nil)
	m.assessments.On("Get", mock.Anything, int64(2)).Return(&models.Assessment{ID: 2, Title: "Dyslexia Screener"}, nil)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.progress.On("TrendPoints", mock.Anything, int64(4), int64(2)).Return([]models.TrendPoint{
		{AttemptID: 10, Score: 35, CompletedAt: base},
		{AttemptID: 11, Score: 45, CompletedAt: base.Add(24 * time.Hour)},
		{AttemptID: 12, Score: 55, CompletedAt: base.Add(48 * time.Hour)},
	}, nil)

	progress, err := svc.StudentProgress(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "Dyslexia Screener", progress[0].AssessmentTitle)
	assert.Equal(t, 3, progress[0].Snapshot.AttemptsCount)
	require.Len(t, progress[0].Trend, 3)
	assert.InDelta(t, 10.0, progress[0].TrendSlope, 1e-9, "scores rising by 10 per attempt should fit a slope of 10")
}

func TestStudentProgress_UnknownStudent(t *testing.T) {
	svc, m := newProgressService()

	m.students.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.StudentProgress(context.Background(), 99)

	assertAppErrorCode(t, err, apperrors.ErrCodeNotFound)
	m.progress.AssertNotCalled(t, "ListForStudent", mock.Anything, mock.Anything)
}

func TestStudentProgress_NoScoredAttempts(t *testing.T) {
	svc, m := newProgressService()

	m.students.On("Get", mock.Anything, int64(4)).Return(&models.Student{ID: 4}, nil)
	m.progress.On("ListForStudent", mock.Anything, int64(4)).Return([]models.ProgressSnapshot{}, nil)

	progress, err := svc.StudentProgress(context.Background(), 4)

	require.NoError(t, err)
	assert.Empty(t, progress)
}
