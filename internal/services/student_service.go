package services

import (
	"context"
	"strings"

	"github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/logger"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/repository"
)

// StudentInput carries the editable fields of a student record.
type StudentInput struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	ClassName     string `json:"class_name"`
	GuardianEmail string `json:"guardian_email"`
}

// StudentService handles student roster business logic
type StudentService interface {
	CreateStudent(ctx context.Context, input StudentInput) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	UpdateStudent(ctx context.Context, id int64, input StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type studentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repository.StudentRepository) StudentService {
	return &studentService{studentRepo: studentRepo}
}

func validateStudentInput(input *StudentInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	input.ClassName = strings.TrimSpace(input.ClassName)
	input.GuardianEmail = strings.TrimSpace(input.GuardianEmail)

	if input.FullName == "" {
		return errors.NewValidationError("full_name", "cannot be empty")
	}
	if input.Email == "" {
		return errors.NewValidationError("email", "cannot be empty")
	}
	if !strings.Contains(input.Email, "@") {
		return errors.NewValidationError("email", "must be an email address")
	}
	if input.GuardianEmail != "" && !strings.Contains(input.GuardianEmail, "@") {
		return errors.NewValidationError("guardian_email", "must be an email address")
	}
	return nil
}

func (s *studentService) CreateStudent(ctx context.Context, input StudentInput) (*models.Student, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating student: email=%s", input.Email)

	if err := validateStudentInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.studentRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		log.Error("failed to check student email: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("a student with this email already exists")
	}

	id, err := s.studentRepo.Insert(ctx, models.Student{
		FullName:      input.FullName,
		Email:         input.Email,
		ClassName:     input.ClassName,
		GuardianEmail: input.GuardianEmail,
	})
	if err != nil {
		log.Error("failed to insert student: %v", err)
		return nil, errors.NewInternalError(err)
	}

	student, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load created student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("student created: id=%d", id)
	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting student: id=%d", id)

	student, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", id)
	}
	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing students")

	students, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list students: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.studentRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count students: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return students, total, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id int64, input StudentInput) (*models.Student, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating student: id=%d", id)

	if err := validateStudentInput(&input); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", id)
	}

	if input.Email != student.Email {
		existing, err := s.studentRepo.GetByEmail(ctx, input.Email)
		if err != nil {
			log.Error("failed to check student email: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if existing != nil {
			return nil, errors.NewConflictError("a student with this email already exists")
		}
	}

	student.FullName = input.FullName
	student.Email = input.Email
	student.ClassName = input.ClassName
	student.GuardianEmail = input.GuardianEmail

	if err := s.studentRepo.Update(ctx, *student); err != nil {
		log.Error("failed to update student: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return student, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting student: id=%d", id)

	student, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return errors.NewInternalError(err)
	}
	if student == nil {
		return errors.NewNotFoundError("student", id)
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete student: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("student deleted: id=%d", id)
	return nil
}
