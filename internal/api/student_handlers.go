package api

import (
	"net/http"
	"strconv"

	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/services"
)

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	pp := parsePageParams(r)
	filter := models.StudentFilter{
		ClassName: r.URL.Query().Get("class"),
		Search:    r.URL.Query().Get("q"),
		Limit:     pp.perPage,
		Offset:    pp.offset,
	}

	log.Debug("listing students: class=%s, q=%s, page=%d", filter.ClassName, filter.Search, pp.page)

	students, totalCount, err := s.StudentService.ListStudents(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"students":    students,
		"page":        pp.page,
		"per_page":    pp.perPage,
		"total_count": totalCount,
		"total_pages": totalPages(totalCount, pp.perPage),
	})
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var input services.StudentInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	student, err := s.StudentService.CreateStudent(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, student)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	student, err := s.StudentService.GetStudent(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, student)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input services.StudentInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	student, err := s.StudentService.UpdateStudent(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, student)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudentService.DeleteStudent(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStudentAttempts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	pp := parsePageParams(r)
	filter := models.AttemptFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  pp.perPage,
		Offset: pp.offset,
	}
	if raw := r.URL.Query().Get("assessment_id"); raw != "" {
		assessmentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || assessmentID <= 0 {
			handleError(w, r, errors.NewBadRequestError("invalid assessment_id"))
			return
		}
		filter.AssessmentID = assessmentID
	}

	attempts, totalCount, err := s.AttemptService.ListStudentAttempts(r.Context(), id, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"attempts":    attempts,
		"page":        pp.page,
		"per_page":    pp.perPage,
		"total_count": totalCount,
		"total_pages": totalPages(totalCount, pp.perPage),
	})
}

func (s *Server) handleStudentProgress(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.ProgressService.StudentProgress(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"progress": progress,
	})
}
