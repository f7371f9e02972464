package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueProgressRefresh(studentID, assessmentID int64) error {
	args := m.Called(studentID, assessmentID)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSweep(olderThan time.Duration) error {
	args := m.Called(olderThan)
	return args.Error(0)
}
