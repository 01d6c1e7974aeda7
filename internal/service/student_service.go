package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type studentGateway interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	SaveStudent(ctx context.Context, student models.Student) (models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// SaveStudentRequest holds payload for creating or updating a student. The
// length ceilings are checked before any store I/O; a 45-character name
// passes through untruncated.
type SaveStudentRequest struct {
	FullName string `json:"fullName" validate:"required,max=45"`
	Course   string `json:"course" validate:"required,max=4"`
}

// StudentService handles roster management.
type StudentService struct {
	gateway   studentGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(gateway studentGateway, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{gateway: gateway, validator: validate, logger: logger}
}

// List returns the roster ordered by full name.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.gateway.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Save validates and persists a student. An empty id creates a record; a
// non-empty id updates in place.
func (s *StudentService) Save(ctx context.Context, id string, req SaveStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	saved, err := s.gateway.SaveStudent(ctx, models.Student{ID: id, FullName: req.FullName, Course: req.Course})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
	}
	return &saved, nil
}

// Delete removes a student from the roster.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteStudent(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}
