package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neurobloom/screener/internal/logger"
)

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing assessments")

	assessments, err := s.AssessmentService.ListAssessments(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"assessments": assessments,
	})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	assessment, err := s.AssessmentService.GetAssessment(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, assessment)
}
