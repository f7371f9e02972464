package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository implementation
func NewStudentRepository(db *sql.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("getting student: id=%d", id)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
SELECT id, full_name, email, class_name, guardian_email, created_at
FROM students
WHERE id = ?
`, id).Scan(&s.ID, &s.FullName, &s.Email, &s.ClassName, &s.GuardianEmail, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("student not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("getting student by email: %s", email)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
SELECT id, full_name, email, class_name, guardian_email, created_at
FROM students
WHERE email = ?
`, email).Scan(&s.ID, &s.FullName, &s.Email, &s.ClassName, &s.GuardianEmail, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get student by email: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("listing students: class=%s, search=%s", filter.ClassName, filter.Search)

	query := sqlBuilder.Select("id", "full_name", "email", "class_name", "guardian_email", "created_at").
		From("students")
	query = applyStudentFilter(query, filter)
	query = query.OrderBy("full_name ASC, id ASC")

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
		log.Error("failed to list students: %v", err)
		return nil, err
	}
	defer rows.Close()
	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.FullName, &s.Email, &s.ClassName, &s.GuardianEmail, &s.CreatedAt); err != nil {
			log.Error("failed to scan student row: %v", err)
			return nil, err
		}
		students = append(students, s)
	}
	log.Debug("found %d students", len(students))
	return students, rows.Err()
}

func (r *studentRepository) Count(ctx context.Context, filter models.StudentFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")

	query := applyStudentFilter(sqlBuilder.Select("COUNT(*)").From("students"), filter)
	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		log.Error("failed to count students: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *studentRepository) Insert(ctx context.Context, s models.Student) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("inserting student: email=%s", s.Email)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO students (full_name, email, class_name, guardian_email)
VALUES (?, ?, ?, ?)
`, s.FullName, s.Email, s.ClassName, s.GuardianEmail)
	if err != nil {
		log.Error("failed to insert student: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get student id: %v", err)
		return 0, err
	}
	log.Debug("student inserted: id=%d", id)
	return id, nil
}

func (r *studentRepository) Update(ctx context.Context, s models.Student) error {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("updating student: id=%d", s.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE students
SET full_name = ?, email = ?, class_name = ?, guardian_email = ?
WHERE id = ?
`, s.FullName, s.Email, s.ClassName, s.GuardianEmail, s.ID)
	if err != nil {
		log.Error("failed to update student: %v", err)
	}
	return err
}

func (r *studentRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("deleting student: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete student: %v", err)
	}
	return err
}

func applyStudentFilter(query squirrel.SelectBuilder, filter models.StudentFilter) squirrel.SelectBuilder {
	if filter.ClassName != "" {
		query = query.Where(squirrel.Eq{"class_name": filter.ClassName})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"full_name": like},
			squirrel.Like{"email": like},
		})
	}
	return query
}
