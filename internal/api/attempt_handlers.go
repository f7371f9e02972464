package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/screening"
)

type startAttemptRequest struct {
	StudentID  int64  `json:"student_id"`
	Assessment string `json:"assessment"`
}

// submittedMetrics is one game's outcome in a submission body.
type submittedMetrics struct {
	Accuracy           float64 `json:"accuracy"`
	MeanResponseTimeMS float64 `json:"mean_response_time_ms"`
	ItemsAttempted     int     `json:"items_attempted"`
}

// submitResultsRequest keys results by game id, which keeps a client from
// sending two results for the same game in one submission.
type submitResultsRequest struct {
	Results map[string]submittedMetrics `json:"results"`
}

// gameResults flattens the submission map in sorted key order so unknown
// game ids surface the same error no matter how the map iterates.
func (req submitResultsRequest) gameResults() []screening.GameResult {
	keys := make([]string, 0, len(req.Results))
	for k := range req.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]screening.GameResult, 0, len(keys))
	for _, k := range keys {
		m := req.Results[k]
		results = append(results, screening.GameResult{
			Game:               screening.Game(k),
			Accuracy:           m.Accuracy,
			MeanResponseTimeMS: m.MeanResponseTimeMS,
			ItemsAttempted:     m.ItemsAttempted,
		})
	}
	return results
}

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startAttemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("start attempt requested: student_id=%d, assessment=%s", req.StudentID, req.Assessment)

	attempt, err := s.AttemptService.StartAttempt(r.Context(), req.StudentID, req.Assessment)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, attempt)
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	detail, err := s.AttemptService.GetAttempt(r.Context(), publicID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleSubmitResults(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	publicID := chi.URLParam(r, "publicID")

	var req submitResultsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("results submitted: public_id=%s, games=%d", publicID, len(req.Results))

	report, err := s.AttemptService.SubmitResults(r.Context(), publicID, req.gameResults())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, report)
}
