package jobs

import (
	"time"

	"github.com/neurobloom/screener/internal/repository"
	"github.com/neurobloom/screener/internal/worker"
)

// WorkerQueue implements JobQueue on top of a worker pool
type WorkerQueue struct {
	pool         *worker.Pool
	progressRepo repository.ProgressRepository
	attemptRepo  repository.AttemptRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, progressRepo repository.ProgressRepository, attemptRepo repository.AttemptRepository) JobQueue {
	return &WorkerQueue{
		pool:         pool,
		progressRepo: progressRepo,
		attemptRepo:  attemptRepo,
	}
}

func (q *WorkerQueue) EnqueueProgressRefresh(studentID, assessmentID int64) error {
	return q.pool.Submit(&worker.RefreshProgressJob{
		ProgressRepo: q.progressRepo,
		StudentID:    studentID,
		AssessmentID: assessmentID,
	})
}

func (q *WorkerQueue) EnqueueSweep(olderThan time.Duration) error {
	return q.pool.Submit(&worker.SweepAttemptsJob{
		AttemptRepo: q.attemptRepo,
		OlderThan:   olderThan,
	})
}
