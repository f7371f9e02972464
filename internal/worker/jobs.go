package worker

import (
	"context"
	"time"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/repository"
)

// RefreshProgressJob recomputes one student's progress snapshot after a
// scored attempt. Losing one is harmless: the next scored attempt, or the
// periodic sweep, triggers another refresh.
type RefreshProgressJob struct {
	ProgressRepo repository.ProgressRepository
	StudentID    int64
	AssessmentID int64
}

func (j *RefreshProgressJob) Name() string { return "refresh_progress" }

func (j *RefreshProgressJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"student_id":    j.StudentID,
		"assessment_id": j.AssessmentID,
	})
	log.Debug("refreshing progress snapshot")
	return j.ProgressRepo.Refresh(ctx, j.StudentID, j.AssessmentID)
}

// SweepAttemptsJob abandons in-progress attempts that were started too long
// ago, so a closed browser tab does not hold an attempt open forever.
type SweepAttemptsJob struct {
	AttemptRepo repository.AttemptRepository
	OlderThan   time.Duration
}

func (j *SweepAttemptsJob) Name() string { return "sweep_attempts" }

func (j *SweepAttemptsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cutoff := time.Now().Add(-j.OlderThan)
	n, err := j.AttemptRepo.AbandonOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("swept %d stale attempts", n)
	}
	return nil
}
