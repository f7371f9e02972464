package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/neurobloom/screener/internal/api"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository/sqlite"
	"github.com/neurobloom/screener/internal/screening"
	"github.com/neurobloom/screener/internal/services"
	"github.com/neurobloom/screener/internal/testutil"
	"github.com/neurobloom/screener/internal/testutil/mocks"
)

// testServer wires the full router over an in-memory database. The job
// queue is mocked so submissions stay synchronous; tests that need a
// progress snapshot call progress.RefreshProgress themselves.
type testServer struct {
	handler  http.Handler
	queue    *mocks.MockJobQueue
	progress services.ProgressService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDatabase(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	queue := &mocks.MockJobQueue{}
	queue.On("EnqueueProgressRefresh", mock.Anything, mock.Anything).Return(nil).Maybe()

	studentRepo := sqlite.NewStudentRepository(database.DB)
	assessmentRepo := sqlite.NewAssessmentRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	reportRepo := sqlite.NewReportRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	progressService := services.NewProgressService(progressRepo, studentRepo, assessmentRepo)
	srv := &api.Server{
		DB:                database,
		StudentService:    services.NewStudentService(studentRepo),
		AssessmentService: services.NewAssessmentService(assessmentRepo),
		AttemptService:    services.NewAttemptService(attemptRepo, studentRepo, assessmentRepo, reportRepo, queue, screening.DefaultConfig()),
		ProgressService:   progressService,
		OverviewService:   services.NewOverviewService(statsRepo),
	}
	return &testServer{handler: srv.Routes(), queue: queue, progress: progressService}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), "response should be JSON")
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeResponse(t, rec, &body)
	return body.Error.Code
}

func createStudent(t *testing.T, ts *testServer, name, email string) models.Student {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/students", map[string]string{
		"full_name":  name,
		"email":      email,
		"class_name": "3B",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "student creation failed: %s", rec.Body.String())
	var student models.Student
	decodeResponse(t, rec, &student)
	return student
}

func startAttempt(t *testing.T, ts *testServer, studentID int64) models.Attempt {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/attempts", map[string]any{
		"student_id": studentID,
		"assessment": "dyslexia-screener",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "attempt start failed: %s", rec.Body.String())
	var attempt models.Attempt
	decodeResponse(t, rec, &attempt)
	return attempt
}

func batteryPayload(accuracy, responseTime float64) map[string]any {
	results := make(map[string]any, 6)
	for _, g := range screening.Games() {
		results[string(g)] = map[string]any{
			"accuracy":              accuracy,
			"mean_response_time_ms": responseTime,
			"items_attempted":       10,
		}
	}
	return map[string]any{"results": results}
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]string
	decodeResponse(t, rec, &health)
	assert.Equal(t, "ok", health["status"])

	rec = ts.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ready map[string]string
	decodeResponse(t, rec, &ready)
	assert.Equal(t, "ready", ready["status"])
}

func TestAssessmentCatalog(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/assessments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Assessments []models.Assessment `json:"assessments"`
	}
	decodeResponse(t, rec, &body)
	require.Len(t, body.Assessments, 1)
	assert.Equal(t, "dyslexia-screener", body.Assessments[0].Slug)
	require.Len(t, body.Assessments[0].Games, 6, "the screener battery has six games")
	assert.Equal(t, screening.GamePhonemeDelete, body.Assessments[0].Games[0].Game)
	assert.Equal(t, screening.GameRapidNaming, body.Assessments[0].Games[5].Game)

	rec = ts.do(t, http.MethodGet, "/api/assessments/dyslexia-screener", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bySlug models.Assessment
	decodeResponse(t, rec, &bySlug)
	assert.Equal(t, body.Assessments[0].ID, bySlug.ID)

	rec = ts.do(t, http.MethodGet, "/api/assessments/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestStudentLifecycle(t *testing.T) {
	ts := newTestServer(t)

	student := createStudent(t, ts, "Ana Silva", "ana@school.edu")
	require.NotZero(t, student.ID)

	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/students/%d", student.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/students/%d", student.ID), map[string]string{
		"full_name":  "Ana Souza",
		"email":      "ana@school.edu",
		"class_name": "4A",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Student
	decodeResponse(t, rec, &updated)
	assert.Equal(t, "Ana Souza", updated.FullName)
	assert.Equal(t, "4A", updated.ClassName)

	rec = ts.do(t, http.MethodGet, "/api/students?q=souza", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Students   []models.Student `json:"students"`
		TotalCount int              `json:"total_count"`
	}
	decodeResponse(t, rec, &list)
	require.Len(t, list.Students, 1)
	assert.Equal(t, 1, list.TotalCount)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/students/%d", student.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/students/%d", student.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestStudentValidationAndConflicts(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/students", map[string]string{"full_name": "No Email"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	createStudent(t, ts, "Ana Silva", "ana@school.edu")
	rec = ts.do(t, http.MethodPost, "/api/students", map[string]string{
		"full_name": "Other Ana",
		"email":     "ana@school.edu",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))
}

func TestAttemptLifecycle(t *testing.T) {
	ts := newTestServer(t)
	student := createStudent(t, ts, "Ana Silva", "ana@school.edu")

	attempt := startAttempt(t, ts, student.ID)
	assert.NotEmpty(t, attempt.PublicID)
	assert.Equal(t, models.AttemptStatusInProgress, attempt.Status)

	rec := ts.do(t, http.MethodPost, "/api/attempts", map[string]any{
		"student_id": student.ID,
		"assessment": "dyslexia-screener",
	})
	require.Equal(t, http.StatusConflict, rec.Code, "a second open attempt should be rejected")

	rec = ts.do(t, http.MethodPost, "/api/attempts/"+attempt.PublicID+"/results", batteryPayload(0.3, 2400))
	require.Equal(t, http.StatusOK, rec.Code, "submit failed: %s", rec.Body.String())
	var report models.Report
	decodeResponse(t, rec, &report)
	assert.Equal(t, screening.RiskHigh, report.RiskLevel, "struggling on every game should flag high risk")
	assert.Less(t, report.OverallScore, 30.0)
	require.Len(t, report.Breakdown, 6)
	assert.Equal(t, screening.GamePhonemeDelete, report.Breakdown[0].Game, "breakdown keeps battery order")
	assert.Len(t, report.Recommendations, 4, "recommendations cap at four")

	rec = ts.do(t, http.MethodPost, "/api/attempts/"+attempt.PublicID+"/results", batteryPayload(0.8, 1000))
	require.Equal(t, http.StatusConflict, rec.Code, "a scored attempt cannot be scored again")

	rec = ts.do(t, http.MethodGet, "/api/attempts/"+attempt.PublicID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.AttemptDetail
	decodeResponse(t, rec, &detail)
	assert.Equal(t, models.AttemptStatusScored, detail.Status)
	assert.NotNil(t, detail.CompletedAt)
	assert.Len(t, detail.Results, 6)
	require.NotNil(t, detail.Report)
	assert.Equal(t, report.OverallScore, detail.Report.OverallScore)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/students/%d/attempts", student.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Attempts   []models.AttemptSummary `json:"attempts"`
		TotalCount int                     `json:"total_count"`
	}
	decodeResponse(t, rec, &history)
	require.Len(t, history.Attempts, 1)
	require.NotNil(t, history.Attempts[0].OverallScore)
	assert.Equal(t, report.OverallScore, *history.Attempts[0].OverallScore)
}

func TestSubmitResults_Validation(t *testing.T) {
	ts := newTestServer(t)
	student := createStudent(t, ts, "Ana Silva", "ana@school.edu")
	attempt := startAttempt(t, ts, student.ID)

	partial := batteryPayload(0.8, 1000)
	delete(partial["results"].(map[string]any), string(screening.GameRapidNaming))
	rec := ts.do(t, http.MethodPost, "/api/attempts/"+attempt.PublicID+"/results", partial)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/attempts/"+attempt.PublicID+"/results", batteryPayload(1.4, 1000))
	require.Equal(t, http.StatusBadRequest, rec.Code, "accuracy above 1.0 should be rejected")

	rec = ts.do(t, http.MethodPost, "/api/attempts/unknown-id/results", batteryPayload(0.8, 1000))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentProgressEndpoint(t *testing.T) {
	ts := newTestServer(t)
	student := createStudent(t, ts, "Ana Silva", "ana@school.edu")

	first := startAttempt(t, ts, student.ID)
	rec := ts.do(t, http.MethodPost, "/api/attempts/"+first.PublicID+"/results", batteryPayload(0.5, 1800))
	require.Equal(t, http.StatusOK, rec.Code)

	second := startAttempt(t, ts, student.ID)
	rec = ts.do(t, http.MethodPost, "/api/attempts/"+second.PublicID+"/results", batteryPayload(0.78, 1200))
	require.Equal(t, http.StatusOK, rec.Code)

	// The refresh job is mocked out, so recompute the snapshot directly.
	require.NoError(t, ts.progress.RefreshProgress(context.Background(), student.ID, first.AssessmentID))

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/students/%d/progress", student.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Progress []models.AssessmentProgress `json:"progress"`
	}
	decodeResponse(t, rec, &body)
	require.Len(t, body.Progress, 1)
	assert.Equal(t, 2, body.Progress[0].Snapshot.AttemptsCount)
	assert.Equal(t, 50.0, body.Progress[0].Snapshot.LatestScore)
	require.Len(t, body.Progress[0].Trend, 2)
	assert.Greater(t, body.Progress[0].TrendSlope, 0.0, "scores improved between attempts")
}

func TestFacultyOverviewAndExport(t *testing.T) {
	ts := newTestServer(t)
	student := createStudent(t, ts, "Ana Silva", "ana@school.edu")
	attempt := startAttempt(t, ts, student.ID)
	rec := ts.do(t, http.MethodPost, "/api/attempts/"+attempt.PublicID+"/results", batteryPayload(0.78, 1200))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/faculty/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var overview models.CohortOverview
	decodeResponse(t, rec, &overview)
	assert.Equal(t, 1, overview.Students)
	assert.Equal(t, 1, overview.ScoredAttempts)
	assert.Equal(t, 50.0, overview.Summary.Mean)
	require.Len(t, overview.Distribution, 4)
	assert.Equal(t, screening.RiskHigh, overview.Distribution[0].Level)

	rec = ts.do(t, http.MethodGet, "/api/faculty/roster", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rosterBody struct {
		Roster []models.RosterEntry `json:"roster"`
	}
	decodeResponse(t, rec, &rosterBody)
	require.Len(t, rosterBody.Roster, 1)
	require.NotNil(t, rosterBody.Roster[0].LatestScore)
	assert.Equal(t, 50.0, *rosterBody.Roster[0].LatestScore)

	rec = ts.do(t, http.MethodGet, "/api/faculty/overview/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cohort-overview-")

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err, "the export should be a readable workbook")
	defer workbook.Close()
	cell, err := workbook.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "1", cell)
	name, err := workbook.GetCellValue("Roster", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", name)
}
