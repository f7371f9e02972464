package api

import (
	"github.com/neurobloom/screener/internal/db"
	"github.com/neurobloom/screener/internal/services"
)

// Server holds the dependencies the HTTP handlers need. Fields are filled
// in by main during startup.
type Server struct {
	DB                *db.DB
	StudentService    services.StudentService
	AssessmentService services.AssessmentService
	AttemptService    services.AttemptService
	ProgressService   services.ProgressService
	OverviewService   services.OverviewService
}
