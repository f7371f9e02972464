package models

import (
	"time"

	"github.com/neurobloom/screener/internal/screening"
)

// ProgressSnapshot is the per-student, per-assessment aggregate over scored
// attempts. Rows are recomputed from attempts; they carry no state of their
// own.
type ProgressSnapshot struct {
	StudentID       int64               `json:"student_id"`
	AssessmentID    int64               `json:"assessment_id"`
	AttemptsCount   int                 `json:"attempts_count"`
	BestScore       float64             `json:"best_score"`
	LatestScore     float64             `json:"latest_score"`
	MeanScore       float64             `json:"mean_score"`
	LatestRiskLevel screening.RiskLevel `json:"latest_risk_level"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type TrendPoint struct {
	AttemptID   int64     `json:"attempt_id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// AssessmentProgress pairs a snapshot with the chronological score trend for
// one assessment.
type AssessmentProgress struct {
	AssessmentID    int64            `json:"assessment_id"`
	AssessmentTitle string           `json:"assessment_title"`
	Snapshot        ProgressSnapshot `json:"snapshot"`
	Trend           []TrendPoint     `json:"trend"`
	TrendSlope      float64          `json:"trend_slope"`
}
