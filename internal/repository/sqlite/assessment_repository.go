package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

type assessmentRepository struct {
	db *sql.DB
}

// NewAssessmentRepository creates a new AssessmentRepository implementation
func NewAssessmentRepository(db *sql.DB) repository.AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*models.Assessment, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("getting assessment: id=%d", id)

	var a models.Assessment
	err := r.db.QueryRowContext(ctx, `
SELECT id, slug, title, description, created_at
FROM assessments
WHERE id = ?
`, id).Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("assessment not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get assessment: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) GetBySlug(ctx context.Context, slug string) (*models.Assessment, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("getting assessment by slug: %s", slug)

	var a models.Assessment
	err := r.db.QueryRowContext(ctx, `
SELECT id, slug, title, description, created_at
FROM assessments
WHERE slug = ?
`, slug).Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get assessment by slug: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]models.Assessment, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("listing assessments")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, slug, title, description, created_at
FROM assessments
ORDER BY id ASC
`)
	if err != nil {
		log.Error("failed to list assessments: %v", err)
		return nil, err
	}
	defer rows.Close()
	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.CreatedAt); err != nil {
			log.Error("failed to scan assessment row: %v", err)
			return nil, err
		}
		assessments = append(assessments, a)
	}
	log.Debug("found %d assessments", len(assessments))
	return assessments, rows.Err()
}

func (r *assessmentRepository) GamesFor(ctx context.Context, assessmentID int64) ([]models.AssessmentGame, error) {
	log := logger.FromContext(ctx).WithPrefix("assessment_repo")
	log.Debug("listing games for assessment: id=%d", assessmentID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, assessment_id, game_id, title, description, item_count, position
FROM assessment_games
WHERE assessment_id = ?
ORDER BY position ASC
`, assessmentID)
	if err != nil {
		log.Error("failed to list assessment games: %v", err)
		return nil, err
	}
	defer rows.Close()
	var games []models.AssessmentGame
	for rows.Next() {
		var g models.AssessmentGame
		if err := rows.Scan(&g.ID, &g.AssessmentID, &g.Game, &g.Title, &g.Description, &g.ItemCount, &g.Position); err != nil {
			log.Error("failed to scan assessment game row: %v", err)
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
