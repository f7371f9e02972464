package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/neurobloom/screener/internal/errors"
	"github.com/neurobloom/screener/internal/models"
	"github.com/neurobloom/screener/internal/services"
	"github.com/neurobloom/screener/internal/testutil/mocks"
)

func newStudentService() (services.StudentService, *mocks.MockStudentRepository) {
	repo := &mocks.MockStudentRepository{}
	return services.NewStudentService(repo), repo
}

func TestCreateStudent(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("GetByEmail", mock.Anything, "ana@school.edu").Return(nil, nil)

	var inserted models.Student
	repo.On("Insert", mock.Anything, mock.AnythingOfType("models.Student")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.Student) }).
		Return(int64(3), nil)
	repo.On("Get", mock.Anything, int64(3)).Return(&models.Student{ID: 3, FullName: "Ana Silva", Email: "ana@school.edu"}, nil)

	student, err := svc.CreateStudent(context.Background(), services.StudentInput{
		FullName:  "  Ana Silva  ",
		Email:     " ana@school.edu ",
		ClassName: "3B",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), student.ID)
	assert.Equal(t, "Ana Silva", inserted.FullName, "names should be trimmed before insert")
	assert.Equal(t, "ana@school.edu", inserted.Email)
}

func TestCreateStudent_Validation(t *testing.T) {
	svc, _ := newStudentService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input services.StudentInput
	}{
		{"empty name", services.StudentInput{Email: "a@b.c"}},
		{"empty email", services.StudentInput{FullName: "Ana"}},
		{"malformed email", services.StudentInput{FullName: "Ana", Email: "not-an-email"}},
		{"malformed guardian email", services.StudentInput{FullName: "Ana", Email: "a@b.c", GuardianEmail: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStudent(ctx, tt.input)
			assertAppErrorCode(t, err, apperrors.ErrCodeValidation)
		})
	}
}

func TestCreateStudent_DuplicateEmailConflict(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("GetByEmail", mock.Anything, "ana@school.edu").Return(&models.Student{ID: 1, Email: "ana@school.edu"}, nil)

	_, err := svc.CreateStudent(context.Background(), services.StudentInput{FullName: "Ana", Email: "ana@school.edu"})

	assertAppErrorCode(t, err, apperrors.ErrCodeConflict)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGetStudent_NotFound(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, err := svc.GetStudent(context.Background(), 42)

	assertAppErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestUpdateStudent(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("Get", mock.Anything, int64(3)).Return(&models.Student{ID: 3, FullName: "Ana Silva", Email: "ana@school.edu", ClassName: "3B"}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("models.Student")).Return(nil)

	student, err := svc.UpdateStudent(context.Background(), 3, services.StudentInput{
		FullName:  "Ana Souza",
		Email:     "ana@school.edu",
		ClassName: "4A",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", student.FullName)
	assert.Equal(t, "4A", student.ClassName)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestUpdateStudent_EmailTakenConflict(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("Get", mock.Anything, int64(3)).Return(&models.Student{ID: 3, FullName: "Ana", Email: "ana@school.edu"}, nil)
	repo.On("GetByEmail", mock.Anything, "bia@school.edu").Return(&models.Student{ID: 8, Email: "bia@school.edu"}, nil)

	_, err := svc.UpdateStudent(context.Background(), 3, services.StudentInput{FullName: "Ana", Email: "bia@school.edu"})

	assertAppErrorCode(t, err, apperrors.ErrCodeConflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteStudent(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("Get", mock.Anything, int64(3)).Return(&models.Student{ID: 3}, nil)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, svc.DeleteStudent(context.Background(), 3))
	repo.AssertExpectations(t)
}

func TestDeleteStudent_NotFound(t *testing.T) {
	svc, repo := newStudentService()

	repo.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	err := svc.DeleteStudent(context.Background(), 42)

	assertAppErrorCode(t, err, apperrors.ErrCodeNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
