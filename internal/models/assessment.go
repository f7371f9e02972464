package models

import (
	"time"

	"github.com/neurobloom/screener/internal/screening"
)

type Assessment struct {
	ID          int64            `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Games       []AssessmentGame `json:"games,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type AssessmentGame struct {
	ID           int64          `json:"id"`
	AssessmentID int64          `json:"assessment_id"`
	Game         screening.Game `json:"game_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ItemCount    int            `json:"item_count"`
	Position     int            `json:"position"`
}
