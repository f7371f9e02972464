package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
	"github.com/neurobloom/screener/internal/screening"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// reportQuery starts a filtered select over risk_reports, joining students
// only when a class filter makes the join necessary.
func reportQuery(columns string, filter models.CohortFilter) squirrel.SelectBuilder {
	query := sqlBuilder.Select(columns).From("risk_reports rr")
	if filter.ClassName != "" {
		query = query.Join("students s ON s.id = rr.student_id").
			Where(squirrel.Eq{"s.class_name": filter.ClassName})
	}
	return query
}

func (r *statsRepository) CohortScores(ctx context.Context, filter models.CohortFilter) ([]float64, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching cohort scores: class=%s", filter.ClassName)

	sql, args, err := reportQuery("rr.overall_score", filter).OrderBy("rr.id ASC").ToSql()
	if err != nil {
		log.Error("failed to build cohort scores query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to query cohort scores: %v", err)
		return nil, err
	}
	defer rows.Close()
	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			log.Error("failed to scan score: %v", err)
			return nil, err
		}
		scores = append(scores, score)
	}
	log.Debug("found %d scored reports", len(scores))
	return scores, rows.Err()
}

func (r *statsRepository) RiskLevelCounts(ctx context.Context, filter models.CohortFilter) (map[screening.RiskLevel]int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("counting reports by risk level: class=%s", filter.ClassName)

	sql, args, err := reportQuery("rr.risk_level, COUNT(*)", filter).GroupBy("rr.risk_level").ToSql()
	if err != nil {
		log.Error("failed to build risk level query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to count risk levels: %v", err)
		return nil, err
	}
	defer rows.Close()
	counts := make(map[screening.RiskLevel]int)
	for rows.Next() {
		var level screening.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			log.Error("failed to scan risk level count: %v", err)
			return nil, err
		}
		counts[level] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) GameComponentMeans(ctx context.Context, filter models.CohortFilter) ([]models.GameSkill, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing cohort game component means: class=%s", filter.ClassName)

	query := sqlBuilder.Select("rb.game_id", "AVG(rb.component_score)").
		From("report_breakdowns rb")
	if filter.ClassName != "" {
		query = query.Join("risk_reports rr ON rr.id = rb.report_id").
			Join("students s ON s.id = rr.student_id").
			Where(squirrel.Eq{"s.class_name": filter.ClassName})
	}
	sql, args, err := query.GroupBy("rb.game_id").OrderBy("MIN(rb.position) ASC").ToSql()
	if err != nil {
		log.Error("failed to build game component query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to query game component means: %v", err)
		return nil, err
	}
	defer rows.Close()
	var skills []models.GameSkill
	for rows.Next() {
		var skill models.GameSkill
		if err := rows.Scan(&skill.Game, &skill.MeanComponentScore); err != nil {
			log.Error("failed to scan game skill row: %v", err)
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *statsRepository) Roster(ctx context.Context, filter models.StudentFilter) ([]models.RosterEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("building roster: class=%s, search=%s", filter.ClassName, filter.Search)

	query := sqlBuilder.Select(
		"s.id", "s.full_name", "s.email", "s.class_name", "s.guardian_email", "s.created_at",
		"(SELECT COUNT(*) FROM attempts a WHERE a.student_id = s.id) AS attempts_count",
		"latest.overall_score", "latest.risk_level",
		"(SELECT MAX(a.started_at) FROM attempts a WHERE a.student_id = s.id) AS last_attempt_at",
	).From("students s").
		LeftJoin(`(
    SELECT rr.student_id, rr.overall_score, rr.risk_level
    FROM risk_reports rr
    WHERE rr.id = (SELECT MAX(r2.id) FROM risk_reports r2 WHERE r2.student_id = rr.student_id)
) latest ON latest.student_id = s.id`)
	query = applyStudentFilter(query, filter)
	query = query.OrderBy("s.full_name ASC, s.id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build roster query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to query roster: %v", err)
		return nil, err
	}
	defer rows.Close()
	var roster []models.RosterEntry
	for rows.Next() {
		entry, err := scanRosterEntry(rows)
		if err != nil {
			log.Error("failed to scan roster row: %v", err)
			return nil, err
		}
		roster = append(roster, entry)
	}
	log.Debug("roster has %d students", len(roster))
	return roster, rows.Err()
}

func scanRosterEntry(rows *sql.Rows) (models.RosterEntry, error) {
	var entry models.RosterEntry
	var latestScore sql.NullFloat64
	var latestRisk sql.NullString
	var lastAttempt sql.NullTime
	err := rows.Scan(
		&entry.Student.ID, &entry.Student.FullName, &entry.Student.Email, &entry.Student.ClassName, &entry.Student.GuardianEmail, &entry.Student.CreatedAt,
		&entry.AttemptsCount, &latestScore, &latestRisk, &lastAttempt,
	)
	if err != nil {
		return entry, err
	}
	if latestScore.Valid {
		entry.LatestScore = &latestScore.Float64
	}
	if latestRisk.Valid {
		level := screening.RiskLevel(latestRisk.String)
		entry.LatestRiskLevel = &level
	}
	if lastAttempt.Valid {
		entry.LastAttemptAt = &lastAttempt.Time
	}
	return entry, nil
}

func (r *statsRepository) CountStudents(ctx context.Context, filter models.CohortFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := sqlBuilder.Select("COUNT(*)").From("students")
	if filter.ClassName != "" {
		query = query.Where(squirrel.Eq{"class_name": filter.ClassName})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build student count query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		log.Error("failed to count students: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *statsRepository) CountScoredAttempts(ctx context.Context, filter models.CohortFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	sql, args, err := reportQuery("COUNT(*)", filter).ToSql()
	if err != nil {
		log.Error("failed to build scored attempt count query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		log.Error("failed to count scored attempts: %v", err)
		return 0, err
	}
	return count, nil
}
