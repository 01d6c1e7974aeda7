package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type incidentGateway interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	SaveIncident(ctx context.Context, incident models.Incident) (models.Incident, error)
	DeleteIncident(ctx context.Context, id string) error
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListIncidentTypes(ctx context.Context) ([]models.IncidentType, error)
}

// CreateIncidentRequest holds payload for recording an incident.
type CreateIncidentRequest struct {
	StudentID   string  `json:"studentId" validate:"required"`
	TeacherID   string  `json:"teacherId" validate:"required"`
	TypeID      string  `json:"typeId" validate:"required"`
	Period      int     `json:"period" validate:"required,min=1,max=4"`
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description" validate:"required"`
	HasFollowUp bool    `json:"hasFollowUp"`
	EvidenceURL *string `json:"evidenceUrl"`
}

// IncidentService records and lists behavioral incidents.
type IncidentService struct {
	gateway   incidentGateway
	stats     *StatsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIncidentService constructs an IncidentService.
func NewIncidentService(gateway incidentGateway, stats *StatsService, validate *validator.Validate, logger *zap.Logger) *IncidentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncidentService{gateway: gateway, stats: stats, validator: validate, logger: logger}
}

// List returns all incidents newest first.
func (s *IncidentService) List(ctx context.Context) ([]models.Incident, error) {
	incidents, err := s.gateway.ListIncidents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incidents")
	}
	return incidents, nil
}

// Create validates the payload, resolves the referenced student, teacher
// and type, and persists the incident with their display fields copied in.
// The copies are a snapshot: later edits to the referenced records never
// touch existing incidents. The three lookups run concurrently, there is no
// ordering dependency between them.
func (s *IncidentService) Create(ctx context.Context, req CreateIncidentRequest) (*models.Incident, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid incident payload")
	}

	var (
		students []models.Student
		teachers []models.Teacher
		types    []models.IncidentType
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		students, err = s.gateway.ListStudents(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		teachers, err = s.gateway.ListTeachers(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		types, err = s.gateway.ListIncidentTypes(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve references")
	}

	student, ok := findStudent(students, req.StudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student")
	}
	teacher, ok := findTeacher(teachers, req.TeacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown teacher")
	}
	incidentType, ok := findIncidentType(types, req.TypeID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown incident type")
	}

	incident := models.Incident{
		StudentID:   student.ID,
		StudentName: student.FullName,
		Course:      student.Course,
		TeacherID:   teacher.ID,
		TeacherName: teacher.FullName,
		TypeID:      incidentType.ID,
		TypeName:    incidentType.Name,
		Period:      req.Period,
		Date:        req.Date,
		Description: req.Description,
		HasFollowUp: req.HasFollowUp,
		EvidenceURL: req.EvidenceURL,
		CreatedAt:   time.Now().UnixMilli(),
	}

	saved, err := s.gateway.SaveIncident(ctx, incident)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save incident")
	}
	if s.stats != nil {
		s.stats.InvalidateSummary(ctx)
	}
	return &saved, nil
}

// Delete removes an incident; deleting an unknown id is not an error.
func (s *IncidentService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteIncident(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete incident")
	}
	if s.stats != nil {
		s.stats.InvalidateSummary(ctx)
	}
	return nil
}

func findStudent(students []models.Student, id string) (models.Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

func findTeacher(teachers []models.Teacher, id string) (models.Teacher, bool) {
	for _, t := range teachers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Teacher{}, false
}

func findIncidentType(types []models.IncidentType, id string) (models.IncidentType, bool) {
	for _, t := range types {
		if t.ID == id {
			return t, true
		}
	}
	return models.IncidentType{}, false
}
