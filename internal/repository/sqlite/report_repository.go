package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
	"github.com/neurobloom/screener/internal/screening"
)

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository implementation
func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SaveScoredAttempt(ctx context.Context, attemptID int64, completedAt time.Time, results []models.AttemptResult, report models.Report) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("saving scored attempt: attempt_id=%d, score=%.1f", attemptID, report.OverallScore)

	var reportID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		// The guarded update keeps a report from ever being written twice for
		// the same attempt, even if two submissions race.
		res, err := tx.ExecContext(ctx, `
UPDATE attempts
SET status = ?, completed_at = ?
WHERE id = ? AND status = ?
`, models.AttemptStatusScored, completedAt, attemptID, models.AttemptStatusInProgress)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("attempt %d is not in progress", attemptID)
		}

		for _, result := range results {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO attempt_results (attempt_id, game_id, accuracy, mean_response_time_ms, items_attempted)
VALUES (?, ?, ?, ?, ?)
`, attemptID, result.Game, result.Accuracy, result.MeanResponseTimeMS, result.ItemsAttempted); err != nil {
				return err
			}
		}

		insert, err := tx.ExecContext(ctx, `
INSERT INTO risk_reports (attempt_id, student_id, overall_score, risk_level)
VALUES (?, ?, ?, ?)
`, attemptID, report.StudentID, report.OverallScore, report.RiskLevel)
		if err != nil {
			return err
		}
		reportID, err = insert.LastInsertId()
		if err != nil {
			return err
		}

		for i, entry := range report.Breakdown {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO report_breakdowns (report_id, game_id, weight, component_score, weighted_contribution, deviation, position)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, reportID, entry.Game, entry.Weight, entry.ComponentScore, entry.WeightedContribution, entry.Deviation, i); err != nil {
				return err
			}
		}

		for i, rec := range report.Recommendations {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO report_recommendations (report_id, game_id, recommendation, component_score, position)
VALUES (?, ?, ?, ?, ?)
`, reportID, rec.Game, rec.Text, rec.ComponentScore, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save scored attempt: %v", err)
		return 0, err
	}
	log.Debug("report saved: id=%d, attempt_id=%d", reportID, attemptID)
	return reportID, nil
}

func (r *reportRepository) GetByAttempt(ctx context.Context, attemptID int64) (*models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("getting report: attempt_id=%d", attemptID)

	var rep models.Report
	err := r.db.QueryRowContext(ctx, `
SELECT id, attempt_id, student_id, overall_score, risk_level, created_at
FROM risk_reports
WHERE attempt_id = ?
`, attemptID).Scan(&rep.ID, &rep.AttemptID, &rep.StudentID, &rep.OverallScore, &rep.RiskLevel, &rep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no report for attempt: attempt_id=%d", attemptID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get report: %v", err)
		return nil, err
	}

	if err := r.loadBreakdown(ctx, &rep); err != nil {
		return nil, err
	}
	if err := r.loadRecommendations(ctx, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListForStudent returns the student's reports newest first, without the
// per-game child rows. Callers that need the full breakdown should use
// GetByAttempt.
func (r *reportRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("listing reports: student_id=%d", studentID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, attempt_id, student_id, overall_score, risk_level, created_at
FROM risk_reports
WHERE student_id = ?
ORDER BY created_at DESC, id DESC
`, studentID)
	if err != nil {
		log.Error("failed to list reports: %v", err)
		return nil, err
	}
	defer rows.Close()
	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.AttemptID, &rep.StudentID, &rep.OverallScore, &rep.RiskLevel, &rep.CreatedAt); err != nil {
			log.Error("failed to scan report row: %v", err)
			return nil, err
		}
		reports = append(reports, rep)
	}
	log.Debug("found %d reports", len(reports))
	return reports, rows.Err()
}

func (r *reportRepository) loadBreakdown(ctx context.Context, rep *models.Report) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT game_id, weight, component_score, weighted_contribution, deviation
FROM report_breakdowns
WHERE report_id = ?
ORDER BY position ASC
`, rep.ID)
	if err != nil {
		log.Error("failed to query report breakdown: %v", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var entry screening.BreakdownEntry
		if err := rows.Scan(&entry.Game, &entry.Weight, &entry.ComponentScore, &entry.WeightedContribution, &entry.Deviation); err != nil {
			log.Error("failed to scan breakdown row: %v", err)
			return err
		}
		rep.Breakdown = append(rep.Breakdown, entry)
	}
	return rows.Err()
}

func (r *reportRepository) loadRecommendations(ctx context.Context, rep *models.Report) error {
	log := logger.FromContext(ctx).WithPrefix("report_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT game_id, recommendation, component_score
FROM report_recommendations
WHERE report_id = ?
ORDER BY position ASC
`, rep.ID)
	if err != nil {
		log.Error("failed to query report recommendations: %v", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rec screening.Recommendation
		if err := rows.Scan(&rec.Game, &rec.Text, &rec.ComponentScore); err != nil {
			log.Error("failed to scan recommendation row: %v", err)
			return err
		}
		rep.Recommendations = append(rep.Recommendations, rec)
	}
	return rows.Err()
}
