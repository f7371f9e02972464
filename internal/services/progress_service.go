package services

import (
	"context"

	"github.com/neurobloom/screener/internal/analytics"
	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

// ProgressService handles per-student progress tracking across attempts
type ProgressService interface {
	RefreshProgress(ctx context.Context, studentID, assessmentID int64) error
	StudentProgress(ctx context.Context, studentID int64) ([]models.AssessmentProgress, error)
}

type progressService struct {
	progressRepo   repository.ProgressRepository
	studentRepo    repository.StudentRepository
	assessmentRepo repository.AssessmentRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(progressRepo repository.ProgressRepository, studentRepo repository.StudentRepository, assessmentRepo repository.AssessmentRepository) ProgressService {
	return &progressService{
		progressRepo:   progressRepo,
		studentRepo:    studentRepo,
		assessmentRepo: assessmentRepo,
	}
}

func (s *progressService) RefreshProgress(ctx context.Context, studentID, assessmentID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("refreshing progress: student_id=%d, assessment_id=%d", studentID, assessmentID)

	if err := s.progressRepo.Refresh(ctx, studentID, assessmentID); err != nil {
		log.Error("failed to refresh progress: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// StudentProgress returns one entry per assessment the student has scored
// attempts on, each with its snapshot and score trend.
func (s *progressService) StudentProgress(ctx context.Context, studentID int64) ([]models.AssessmentProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("building student progress: student_id=%d", studentID)

	student, err := s.studentRepo.Get(ctx, studentID)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", studentID)
	}

	snapshots, err := s.progressRepo.ListForStudent(ctx, studentID)
	if err != nil {
		log.Error("failed to list progress snapshots: %v", err)
		return nil, errors.NewInternalError(err)
	}

	progress := make([]models.AssessmentProgress, 0, len(snapshots))
	for _, snap := range snapshots {
		assessment, err := s.assessmentRepo.Get(ctx, snap.AssessmentID)
		if err != nil {
			log.Error("failed to get assessment %d: %v", snap.AssessmentID, err)
			return nil, errors.NewInternalError(err)
		}
		title := ""
		if assessment != nil {
			title = assessment.Title
		}

		trend, err := s.progressRepo.TrendPoints(ctx, studentID, snap.AssessmentID)
		if err != nil {
			log.Error("failed to load trend points: %v", err)
			return nil, errors.NewInternalError(err)
		}

		progress = append(progress, models.AssessmentProgress{
			AssessmentID:    snap.AssessmentID,
			AssessmentTitle: title,
			Snapshot:        snap,
			Trend:           trend,
			TrendSlope:      analytics.TrendSlope(trend),
		})
	}
	return progress, nil
}
