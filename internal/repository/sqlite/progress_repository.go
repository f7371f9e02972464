package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

// Refresh recomputes the snapshot from scored attempts entirely in SQL, so a
// refresh that races a submission still lands on consistent numbers.
func (r *progressRepository) Refresh(ctx context.Context, studentID, assessmentID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("refreshing progress: student_id=%d, assessment_id=%d", studentID, assessmentID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO student_progress (student_id, assessment_id, attempts_count, best_score, latest_score, mean_score, latest_risk_level, updated_at)
SELECT
    a.student_id,
    a.assessment_id,
    COUNT(*),
    MAX(rr.overall_score),
    (SELECT r2.overall_score
     FROM risk_reports r2
     JOIN attempts a2 ON a2.id = r2.attempt_id
     WHERE a2.student_id = a.student_id AND a2.assessment_id = a.assessment_id
     ORDER BY a2.completed_at DESC, r2.id DESC
     LIMIT 1),
    AVG(rr.overall_score),
    (SELECT r2.risk_level
     FROM risk_reports r2
     JOIN attempts a2 ON a2.id = r2.attempt_id
     WHERE a2.student_id = a.student_id AND a2.assessment_id = a.assessment_id
     ORDER BY a2.completed_at DESC, r2.id DESC
     LIMIT 1),
    CURRENT_TIMESTAMP
FROM attempts a
JOIN risk_reports rr ON rr.attempt_id = a.id
WHERE a.student_id = ? AND a.assessment_id = ? AND a.status = ?
GROUP BY a.student_id, a.assessment_id
ON CONFLICT (student_id, assessment_id) DO UPDATE SET
    attempts_count = excluded.attempts_count,
    best_score = excluded.best_score,
    latest_score = excluded.latest_score,
    mean_score = excluded.mean_score,
    latest_risk_level = excluded.latest_risk_level,
    updated_at = excluded.updated_at
`, studentID, assessmentID, models.AttemptStatusScored)
	if err != nil {
		log.Error("failed to refresh progress: %v", err)
		return err
	}
	log.Debug("progress refreshed: student_id=%d, assessment_id=%d", studentID, assessmentID)
	return nil
}

func (r *progressRepository) Get(ctx context.Context, studentID, assessmentID int64) (*models.ProgressSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: student_id=%d, assessment_id=%d", studentID, assessmentID)

	var snap models.ProgressSnapshot
	err := r.db.QueryRowContext(ctx, `
SELECT student_id, assessment_id, attempts_count, best_score, latest_score, mean_score, latest_risk_level, updated_at
FROM student_progress
WHERE student_id = ? AND assessment_id = ?
`, studentID, assessmentID).Scan(&snap.StudentID, &snap.AssessmentID, &snap.AttemptsCount, &snap.BestScore, &snap.LatestScore, &snap.MeanScore, &snap.LatestRiskLevel, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress yet: student_id=%d, assessment_id=%d", studentID, assessmentID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &snap, nil
}

func (r *progressRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.ProgressSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: student_id=%d", studentID)

	rows, err := r.db.QueryContext(ctx, `
SELECT student_id, assessment_id, attempts_count, best_score, latest_score, mean_score, latest_risk_level, updated_at
FROM student_progress
WHERE student_id = ?
ORDER BY assessment_id ASC
`, studentID)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()
	var snaps []models.ProgressSnapshot
	for rows.Next() {
		var snap models.ProgressSnapshot
		if err := rows.Scan(&snap.StudentID, &snap.AssessmentID, &snap.AttemptsCount, &snap.BestScore, &snap.LatestScore, &snap.MeanScore, &snap.LatestRiskLevel, &snap.UpdatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *progressRepository) TrendPoints(ctx context.Context, studentID, assessmentID int64) ([]models.TrendPoint, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching trend points: student_id=%d, assessment_id=%d", studentID, assessmentID)

	rows, err := r.db.QueryContext(ctx, `
SELECT rr.attempt_id, rr.overall_score, a.completed_at
FROM risk_reports rr
JOIN attempts a ON a.id = rr.attempt_id
WHERE a.student_id = ? AND a.assessment_id = ?
ORDER BY a.completed_at ASC, rr.id ASC
`, studentID, assessmentID)
	if err != nil {
		log.Error("failed to query trend points: %v", err)
		return nil, err
	}
	defer rows.Close()
	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		var completedAt sql.NullTime
		if err := rows.Scan(&p.AttemptID, &p.Score, &completedAt); err != nil {
			log.Error("failed to scan trend point: %v", err)
			return nil, err
		}
		if completedAt.Valid {
			p.CompletedAt = completedAt.Time
		}
		points = append(points, p)
	}
	log.Debug("found %d trend points", len(points))
	return points, rows.Err()
}
