package models

import (
	"time"

	"github.com/neurobloom/screener/internal/screening"
)

// Report is a persisted risk report. It is written once when an attempt is
// scored and never updated.
type Report struct {
	ID              int64                      `json:"id"`
	AttemptID       int64                      `json:"attempt_id"`
	StudentID       int64                      `json:"student_id"`
	OverallScore    float64                    `json:"overall_score"`
	RiskLevel       screening.RiskLevel        `json:"risk_level"`
	Breakdown       []screening.BreakdownEntry `json:"per_game_breakdown"`
	Recommendations []screening.Recommendation `json:"recommendations"`
	CreatedAt       time.Time                  `json:"created_at"`
}
