package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type catalogGateway interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	SaveTeacher(ctx context.Context, teacher models.Teacher) (models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	ListIncidentTypes(ctx context.Context) ([]models.IncidentType, error)
	SaveIncidentType(ctx context.Context, it models.IncidentType) (models.IncidentType, error)
	DeleteIncidentType(ctx context.Context, id string) error
}

// SaveTeacherRequest holds payload for creating or updating a teacher.
type SaveTeacherRequest struct {
	FullName string `json:"fullName" validate:"required"`
}

// SaveIncidentTypeRequest holds payload for a category label.
type SaveIncidentTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

// CatalogService manages the reference catalogs: teachers and incident
// types.
type CatalogService struct {
	gateway   catalogGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(gateway catalogGateway, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{gateway: gateway, validator: validate, logger: logger}
}

// ListTeachers returns all teachers.
func (s *CatalogService) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.gateway.ListTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// SaveTeacher validates and persists a teacher.
func (s *CatalogService) SaveTeacher(ctx context.Context, id string, req SaveTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	saved, err := s.gateway.SaveTeacher(ctx, models.Teacher{ID: id, FullName: req.FullName})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher")
	}
	return &saved, nil
}

// DeleteTeacher removes a teacher.
func (s *CatalogService) DeleteTeacher(ctx context.Context, id string) error {
	if err := s.gateway.DeleteTeacher(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

// ListIncidentTypes returns all category labels.
func (s *CatalogService) ListIncidentTypes(ctx context.Context) ([]models.IncidentType, error) {
	types, err := s.gateway.ListIncidentTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incident types")
	}
	return types, nil
}

// SaveIncidentType validates and persists a category label.
func (s *CatalogService) SaveIncidentType(ctx context.Context, id string, req SaveIncidentTypeRequest) (*models.IncidentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid incident type payload")
	}
	saved, err := s.gateway.SaveIncidentType(ctx, models.IncidentType{ID: id, Name: req.Name})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save incident type")
	}
	return &saved, nil
}

// DeleteIncidentType removes a category label.
func (s *CatalogService) DeleteIncidentType(ctx context.Context, id string) error {
	if err := s.gateway.DeleteIncidentType(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete incident type")
	}
	return nil
}
