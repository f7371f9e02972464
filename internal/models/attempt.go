package models

import (
	"time"

	"github.com/neurobloom/screener/internal/screening"
)

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusScored     = "scored"
	AttemptStatusAbandoned  = "abandoned"
)

type Attempt struct {
	ID           int64      `json:"id"`
	PublicID     string     `json:"public_id"`
	StudentID    int64      `json:"student_id"`
	AssessmentID int64      `json:"assessment_id"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// AttemptResult is one persisted per-game metric row for an attempt.
type AttemptResult struct {
	ID                 int64          `json:"id"`
	AttemptID          int64          `json:"attempt_id"`
	Game               screening.Game `json:"game_id"`
	Accuracy           float64        `json:"accuracy"`
	MeanResponseTimeMS float64        `json:"mean_response_time_ms"`
	ItemsAttempted     int            `json:"items_attempted"`
}

type AttemptFilter struct {
	StudentID    int64
	AssessmentID int64
	Status       string
	Limit        int
	Offset       int
}

// AttemptDetail is an attempt with its submitted results and, once scored,
// its risk report.
type AttemptDetail struct {
	Attempt
	Results []AttemptResult `json:"results,omitempty"`
	Report  *Report         `json:"report,omitempty"`
}

// AttemptSummary is an attempt row in a student's history, carrying the
// report outcome when one exists.
type AttemptSummary struct {
	Attempt
	OverallScore *float64             `json:"overall_score,omitempty"`
	RiskLevel    *screening.RiskLevel `json:"risk_level,omitempty"`
}
