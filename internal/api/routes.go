package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.handleListAssessments)
			r.Get("/{key}", s.handleGetAssessment)
		})

		r.Route("/students", func(r chi.Router) {
			r.Get("/", s.handleListStudents)
			r.Post("/", s.handleCreateStudent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetStudent)
				r.Put("/", s.handleUpdateStudent)
				r.Delete("/", s.handleDeleteStudent)
				r.Get("/attempts", s.handleStudentAttempts)
				r.Get("/progress", s.handleStudentProgress)
			})
		})

		r.Route("/attempts", func(r chi.Router) {
			r.Post("/", s.handleStartAttempt)
			r.Get("/{publicID}", s.handleGetAttempt)
			r.Post("/{publicID}/results", s.handleSubmitResults)
		})

		r.Route("/faculty", func(r chi.Router) {
			r.Get("/roster", s.handleRoster)
			r.Get("/overview", s.handleOverview)
			r.Get("/overview/export", s.handleOverviewExport)
		})
	})

	return r
}
