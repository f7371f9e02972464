package services

import (
	"context"
	"strconv"

	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

// AssessmentService handles assessment catalog business logic
type AssessmentService interface {
	ListAssessments(ctx context.Context) ([]models.Assessment, error)
	GetAssessment(ctx context.Context, key string) (*models.Assessment, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(assessmentRepo repository.AssessmentRepository) AssessmentService {
	return &assessmentService{assessmentRepo: assessmentRepo}
}

func (s *assessmentService) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing assessments")

	assessments, err := s.assessmentRepo.List(ctx)
	if err != nil {
		log.Error("failed to list assessments: %v", err)
		return nil, errors.NewInternalError(err)
	}

	for i := range assessments {
		games, err := s.assessmentRepo.GamesFor(ctx, assessments[i].ID)
		if err != nil {
			log.Error("failed to load games for assessment %d: %v", assessments[i].ID, err)
			return nil, errors.NewInternalError(err)
		}
		assessments[i].Games = games
	}

	return assessments, nil
}

// GetAssessment looks an assessment up by numeric id or by slug.
func (s *assessmentService) GetAssessment(ctx context.Context, key string) (*models.Assessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting assessment: key=%s", key)

	var assessment *models.Assessment
	var err error
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		assessment, err = s.assessmentRepo.Get(ctx, id)
	} else {
		assessment, err = s.assessmentRepo.GetBySlug(ctx, key)
	}
	if err != nil {
		log.Error("failed to get assessment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if assessment == nil {
		return nil, errors.NewNotFoundError("assessment", key)
	}

	games, err := s.assessmentRepo.GamesFor(ctx, assessment.ID)
	if err != nil {
		log.Error("failed to load games for assessment %d: %v", assessment.ID, err)
		return nil, errors.NewInternalError(err)
	}
	assessment.Games = games

	return assessment, nil
}
