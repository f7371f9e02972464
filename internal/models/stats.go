package models

import (
	"time"

	"github.com/neurobloom/screener/internal/screening"
)

// CohortFilter narrows the faculty aggregates to one class. The zero value
// covers every student.
type CohortFilter struct {
	ClassName string
}

// ScoreSummary holds descriptive statistics over a set of overall scores.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

type RiskCount struct {
	Level screening.RiskLevel `json:"risk_level"`
	Count int                 `json:"count"`
}

// GameSkill is the cohort-wide mean component score for one game. Values
// below 1.0 mark skills the cohort as a whole is weak on.
type GameSkill struct {
	Game               screening.Game `json:"game_id"`
	MeanComponentScore float64        `json:"mean_component_score"`
}

type CohortOverview struct {
	Students       int          `json:"students"`
	ScoredAttempts int          `json:"scored_attempts"`
	Summary        ScoreSummary `json:"score_summary"`
	Distribution   []RiskCount  `json:"risk_distribution"`
	GameSkills     []GameSkill  `json:"game_skills"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// RosterEntry is one student row in the faculty roster with their latest
// screening outcome. Pointer fields are nil for students with no scored
// attempts yet.
type RosterEntry struct {
	Student         Student              `json:"student"`
	AttemptsCount   int                  `json:"attempts_count"`
	LatestScore     *float64             `json:"latest_score"`
	LatestRiskLevel *screening.RiskLevel `json:"latest_risk_level"`
	LastAttemptAt   *time.Time           `json:"last_attempt_at"`
}
