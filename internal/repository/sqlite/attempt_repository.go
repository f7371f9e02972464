package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

const attemptColumns = "id, public_id, student_id, assessment_id, status, started_at, completed_at"

func scanAttempt(row interface{ Scan(...any) error }) (*models.Attempt, error) {
	var a models.Attempt
	var completedAt sql.NullTime
	err := row.Scan(&a.ID, &a.PublicID, &a.StudentID, &a.AssessmentID, &a.Status, &a.StartedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return &a, nil
}

func (r *attemptRepository) Get(ctx context.Context, id int64) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting attempt: id=%d", id)

	a, err := scanAttempt(r.db.QueryRowContext(ctx, `
SELECT `+attemptColumns+`
FROM attempts
WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("attempt not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	return a, nil
}

func (r *attemptRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting attempt: public_id=%s", publicID)

	a, err := scanAttempt(r.db.QueryRowContext(ctx, `
SELECT `+attemptColumns+`
FROM attempts
WHERE public_id = ?
`, publicID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("attempt not found: public_id=%s", publicID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	return a, nil
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: student_id=%d, assessment_id=%d", a.StudentID, a.AssessmentID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (public_id, student_id, assessment_id, status)
VALUES (?, ?, ?, ?)
`, a.PublicID, a.StudentID, a.AssessmentID, a.Status)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get attempt id: %v", err)
		return 0, err
	}
	log.Debug("attempt inserted: id=%d, public_id=%s", id, a.PublicID)
	return id, nil
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: student_id=%d, assessment_id=%d, status=%s", filter.StudentID, filter.AssessmentID, filter.Status)

	query := sqlBuilder.Select("id", "public_id", "student_id", "assessment_id", "status", "started_at", "completed_at").
		From("attempts")
	query = applyAttemptFilter(query, filter)
	query = query.OrderBy("started_at DESC, id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()
	var attempts []models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) Count(ctx context.Context, filter models.AttemptFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query := applyAttemptFilter(sqlBuilder.Select("COUNT(*)").From("attempts"), filter)
	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *attemptRepository) HasInProgress(ctx context.Context, studentID, assessmentID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
    SELECT 1 FROM attempts
    WHERE student_id = ? AND assessment_id = ? AND status = ?
)
`, studentID, assessmentID, models.AttemptStatusInProgress).Scan(&exists)
	if err != nil {
		log.Error("failed to check in-progress attempts: %v", err)
		return false, err
	}
	return exists, nil
}

func (r *attemptRepository) ResultsFor(ctx context.Context, attemptID int64) ([]models.AttemptResult, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("fetching results: attempt_id=%d", attemptID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, attempt_id, game_id, accuracy, mean_response_time_ms, items_attempted
FROM attempt_results
WHERE attempt_id = ?
ORDER BY id ASC
`, attemptID)
	if err != nil {
		log.Error("failed to query attempt results: %v", err)
		return nil, err
	}
	defer rows.Close()
	var results []models.AttemptResult
	for rows.Next() {
		var res models.AttemptResult
		if err := rows.Scan(&res.ID, &res.AttemptID, &res.Game, &res.Accuracy, &res.MeanResponseTimeMS, &res.ItemsAttempted); err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *attemptRepository) AbandonOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("abandoning in-progress attempts started before %s", cutoff.Format(time.RFC3339))

	res, err := r.db.ExecContext(ctx, `
UPDATE attempts
SET status = ?
WHERE status = ? AND started_at < ?
`, models.AttemptStatusAbandoned, models.AttemptStatusInProgress, cutoff)
	if err != nil {
		log.Error("failed to abandon stale attempts: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("abandoned %d stale attempts", n)
	}
	return n, nil
}

func applyAttemptFilter(query squirrel.SelectBuilder, filter models.AttemptFilter) squirrel.SelectBuilder {
	if filter.StudentID != 0 {
		query = query.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.AssessmentID != 0 {
		query = query.Where(squirrel.Eq{"assessment_id": filter.AssessmentID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	return query
}
