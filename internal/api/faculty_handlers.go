package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
)

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	pp := parsePageParams(r)
	filter := models.StudentFilter{
		ClassName: r.URL.Query().Get("class"),
		Search:    r.URL.Query().Get("q"),
		Limit:     pp.perPage,
		Offset:    pp.offset,
	}

	log.Debug("building roster: class=%s, q=%s, page=%d", filter.ClassName, filter.Search, pp.page)

	roster, err := s.OverviewService.Roster(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"roster":   roster,
		"page":     pp.page,
		"per_page": pp.perPage,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	filter := models.CohortFilter{ClassName: r.URL.Query().Get("class")}

	overview, err := s.OverviewService.CohortOverview(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, overview)
}

// handleOverviewExport streams the cohort overview as an xlsx download. The
// workbook is built in memory first so failures still return a JSON error.
func (s *Server) handleOverviewExport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	filter := models.CohortFilter{ClassName: r.URL.Query().Get("class")}
	log.Debug("exporting overview workbook: class=%s", filter.ClassName)

	var buf bytes.Buffer
	if err := s.OverviewService.ExportOverviewXLSX(r.Context(), &buf, filter); err != nil {
		handleError(w, r, err)
		return
	}

	filename := "cohort-overview-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Warn("failed to write export body: %v", err)
	}
}
