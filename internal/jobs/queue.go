package jobs

import "time"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueProgressRefresh(studentID, assessmentID int64) error
	EnqueueSweep(olderThan time.Duration) error
}
