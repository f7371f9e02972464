package services

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/jobs"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
	"github.com/neurobloom/screener/internal/screening"
)

// AttemptService handles the attempt lifecycle: starting an attempt,
// scoring a submission, and reading attempts back.
type AttemptService interface {
	StartAttempt(ctx context.Context, studentID int64, assessmentKey string) (*models.Attempt, error)
	SubmitResults(ctx context.Context, publicID string, results []screening.GameResult) (*models.Report, error)
	GetAttempt(ctx context.Context, publicID string) (*models.AttemptDetail, error)
	ListStudentAttempts(ctx context.Context, studentID int64, filter models.AttemptFilter) ([]models.AttemptSummary, int, error)
}

type attemptService struct {
	attemptRepo    repository.AttemptRepository
	studentRepo    repository.StudentRepository
	assessmentRepo repository.AssessmentRepository
	reportRepo     repository.ReportRepository
	queue          jobs.JobQueue
	cfg            screening.ScoringConfig
}

// NewAttemptService creates a new AttemptService
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	studentRepo repository.StudentRepository,
	assessmentRepo repository.AssessmentRepository,
	reportRepo repository.ReportRepository,
	queue jobs.JobQueue,
	cfg screening.ScoringConfig,
) AttemptService {
	return &attemptService{
		attemptRepo:    attemptRepo,
		studentRepo:    studentRepo,
		assessmentRepo: assessmentRepo,
		reportRepo:     reportRepo,
		queue:          queue,
		cfg:            cfg,
	}
}

// StartAttempt opens a new attempt for the student. The assessment is
// referenced by numeric id or by slug, matching the catalog endpoints.
func (s *attemptService) StartAttempt(ctx context.Context, studentID int64, assessmentKey string) (*models.Attempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting attempt: student_id=%d, assessment=%s", studentID, assessmentKey)

	if assessmentKey == "" {
		return nil, errors.NewValidationError("assessment", "cannot be empty")
	}

	student, err := s.studentRepo.Get(ctx, studentID)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", studentID)
	}

	var assessment *models.Assessment
	if id, convErr := strconv.ParseInt(assessmentKey, 10, 64); convErr == nil {
		assessment, err = s.assessmentRepo.Get(ctx, id)
	} else {
		assessment, err = s.assessmentRepo.GetBySlug(ctx, assessmentKey)
	}
	if err != nil {
		log.Error("failed to get assessment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if assessment == nil {
		return nil, errors.NewNotFoundError("assessment", assessmentKey)
	}

	open, err := s.attemptRepo.HasInProgress(ctx, studentID, assessment.ID)
	if err != nil {
		log.Error("failed to check open attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if open {
		return nil, errors.NewConflictError("student already has an attempt in progress for this assessment")
	}

	id, err := s.attemptRepo.Insert(ctx, models.Attempt{
		PublicID:     uuid.NewString(),
		StudentID:    studentID,
		AssessmentID: assessment.ID,
		Status:       models.AttemptStatusInProgress,
	})
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	attempt, err := s.attemptRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load created attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("attempt started: id=%d, public_id=%s", attempt.ID, attempt.PublicID)
	return attempt, nil
}

func (s *attemptService) SubmitResults(ctx context.Context, publicID string, results []screening.GameResult) (*models.Report, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting results: public_id=%s, games=%d", publicID, len(results))

	attempt, err := s.attemptRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if attempt == nil {
		return nil, errors.NewNotFoundError("attempt", publicID)
	}
	switch attempt.Status {
	case models.AttemptStatusScored:
		return nil, errors.NewConflictError("attempt has already been scored")
	case models.AttemptStatusAbandoned:
		return nil, errors.NewConflictError("attempt was abandoned; start a new one")
	}

	for _, r := range results {
		if r.ItemsAttempted < 0 {
			return nil, errors.NewValidationError("items_attempted", "must be non-negative")
		}
	}

	riskReport, err := screening.Score(results, s.cfg)
	if err != nil {
		var incomplete *screening.IncompleteAssessmentError
		var invalid *screening.InvalidMetricError
		if stderrors.As(err, &incomplete) || stderrors.As(err, &invalid) {
			log.Debug("submission rejected: %v", err)
			return nil, errors.NewBadRequestError(err.Error())
		}
		log.Error("scoring failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	resultRows := make([]models.AttemptResult, 0, len(results))
	for _, r := range results {
		resultRows = append(resultRows, models.AttemptResult{
			AttemptID:          attempt.ID,
			Game:               r.Game,
			Accuracy:           r.Accuracy,
			MeanResponseTimeMS: r.MeanResponseTimeMS,
			ItemsAttempted:     r.ItemsAttempted,
		})
	}

	_, err = s.reportRepo.SaveScoredAttempt(ctx, attempt.ID, time.Now().UTC(), resultRows, models.Report{
		AttemptID:       attempt.ID,
		StudentID:       attempt.StudentID,
		OverallScore:    riskReport.OverallScore,
		RiskLevel:       riskReport.RiskLevel,
		Breakdown:       riskReport.Breakdown,
		Recommendations: riskReport.Recommendations,
	})
	if err != nil {
		log.Error("failed to persist scored attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report, err := s.reportRepo.GetByAttempt(ctx, attempt.ID)
	if err != nil || report == nil {
		log.Error("failed to load saved report: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// The snapshot refresh is best effort; a dropped job only delays the
	// progress view until the next refresh.
	if err := s.queue.EnqueueProgressRefresh(attempt.StudentID, attempt.AssessmentID); err != nil {
		log.Warn("failed to enqueue progress refresh: %v", err)
	}

	log.Info("attempt scored: public_id=%s, score=%.1f, risk=%s", publicID, report.OverallScore, report.RiskLevel)
	return report, nil
}

func (s *attemptService) GetAttempt(ctx context.Context, publicID string) (*models.AttemptDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting attempt: public_id=%s", publicID)

	attempt, err := s.attemptRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if attempt == nil {
		return nil, errors.NewNotFoundError("attempt", publicID)
	}

	detail := &models.AttemptDetail{Attempt: *attempt}

	results, err := s.attemptRepo.ResultsFor(ctx, attempt.ID)
	if err != nil {
		log.Error("failed to load attempt results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	detail.Results = results

	report, err := s.reportRepo.GetByAttempt(ctx, attempt.ID)
	if err != nil {
		log.Error("failed to load attempt report: %v", err)
		return nil, errors.NewInternalError(err)
	}
	detail.Report = report

	return detail, nil
}

func (s *attemptService) ListStudentAttempts(ctx context.Context, studentID int64, filter models.AttemptFilter) ([]models.AttemptSummary, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing attempts: student_id=%d", studentID)

	student, err := s.studentRepo.Get(ctx, studentID)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	if student == nil {
		return nil, 0, errors.NewNotFoundError("student", studentID)
	}

	filter.StudentID = studentID
	attempts, err := s.attemptRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.attemptRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count attempts: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	reports, err := s.reportRepo.ListForStudent(ctx, studentID)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	byAttempt := make(map[int64]models.Report, len(reports))
	for _, r := range reports {
		byAttempt[r.AttemptID] = r
	}

	summaries := make([]models.AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summary := models.AttemptSummary{Attempt: a}
		if r, ok := byAttempt[a.ID]; ok {
			score := r.OverallScore
			level := r.RiskLevel
			summary.OverallScore = &score
			summary.RiskLevel = &level
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}
