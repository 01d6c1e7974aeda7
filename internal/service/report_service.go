package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
	"github.com/inselpa/incident-api/pkg/export"
)

// Column order of the exported report table.
var reportHeaders = []string{"Fecha", "Estudiante", "Curso", "Tipo", "Periodo", "Docente", "Seguim."}

type reportGateway interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
}

// ReportService builds filtered incident reports and renders them as
// PDF or CSV documents.
type ReportService struct {
	gateway    reportGateway
	pdf        *export.PDFExporter
	csv        *export.CSVExporter
	schoolName string
	appName    string
	logger     *zap.Logger
}

// NewReportService constructs a ReportService. schoolName and appName
// appear in the rendered document header.
func NewReportService(gateway reportGateway, schoolName, appName string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		gateway:    gateway,
		pdf:        export.NewPDFExporter(),
		csv:        export.NewCSVExporter(),
		schoolName: schoolName,
		appName:    appName,
		logger:     logger,
	}
}

// List returns the incidents matching the filter, newest first.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Incident, error) {
	incidents, err := s.gateway.ListIncidents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incidents")
	}
	return FilterIncidents(incidents, filter), nil
}

// ExportPDF renders the filtered report as a PDF document.
func (s *ReportService) ExportPDF(ctx context.Context, filter models.ReportFilter) ([]byte, error) {
	incidents, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := s.pdf.Render(buildDataset(incidents), s.reportHeader(ctx, filter))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
	}
	return out, nil
}

// ExportCSV renders the filtered report as a CSV document.
func (s *ReportService) ExportCSV(ctx context.Context, filter models.ReportFilter) ([]byte, error) {
	incidents, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(buildDataset(incidents), s.reportHeader(ctx, filter))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
	}
	return out, nil
}

func (s *ReportService) reportHeader(ctx context.Context, filter models.ReportFilter) export.ReportHeader {
	return export.ReportHeader{
		SchoolName:  s.schoolName,
		AppName:     s.appName,
		FilterLine:  s.filterLine(ctx, filter),
		GeneratedAt: time.Now(),
	}
}

// filterLine builds the human-readable filter description shown under the
// report title, e.g. "Filtro: Curso 10-2 | Periodo: 3". Student scope is
// resolved to the student's name when the record still exists.
func (s *ReportService) filterLine(ctx context.Context, filter models.ReportFilter) string {
	scope := "Toda la institución"
	switch filter.Scope {
	case models.ScopeCourse:
		if filter.Value != "" {
			scope = "Curso " + filter.Value
		}
	case models.ScopeStudent:
		if filter.Value != "" {
			scope = "Estudiante " + s.studentName(ctx, filter.Value)
		}
	}
	period := "Todos"
	if filter.Period > 0 {
		period = strconv.Itoa(filter.Period)
	}
	return fmt.Sprintf("Filtro: %s | Periodo: %s", scope, period)
}

func (s *ReportService) studentName(ctx context.Context, id string) string {
	students, err := s.gateway.ListStudents(ctx)
	if err != nil {
		s.logger.Warn("could not resolve student name for report header", zap.Error(err))
		return id
	}
	for _, st := range students {
		if st.ID == id {
			return st.FullName
		}
	}
	return id
}

func buildDataset(incidents []models.Incident) export.Dataset {
	rows := make([]map[string]string, 0, len(incidents))
	for _, inc := range incidents {
		follow := "No"
		if inc.HasFollowUp {
			follow = "Sí"
		}
		rows = append(rows, map[string]string{
			"Fecha":      inc.Date,
			"Estudiante": inc.StudentName,
			"Curso":      inc.Course,
			"Tipo":       inc.TypeName,
			"Periodo":    strconv.Itoa(inc.Period),
			"Docente":    inc.TeacherName,
			"Seguim.":    follow,
		})
	}
	return export.Dataset{Headers: reportHeaders, Rows: rows}
}
