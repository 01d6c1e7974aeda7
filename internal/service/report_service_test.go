package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inselpa/incident-api/internal/models"
)

type fakeReportGateway struct {
	incidents []models.Incident
	students  []models.Student
}

func (f *fakeReportGateway) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return f.incidents, nil
}

func (f *fakeReportGateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func reportFixture() *fakeReportGateway {
	return &fakeReportGateway{
		incidents: []models.Incident{
			{StudentID: "s1", StudentName: "Ana Pérez", Course: "601", TypeName: "Agresión", Period: 1, Date: "2025-02-10", TeacherName: "Luis Gómez", HasFollowUp: true},
			{StudentID: "s2", StudentName: "Pedro Díaz", Course: "902", TypeName: "Evasión", Period: 3, Date: "2025-03-05", TeacherName: "Marta Ríos"},
		},
		students: []models.Student{
			{ID: "s1", FullName: "Ana Pérez", Course: "601"},
		},
	}
}

func TestReportListAppliesFilter(t *testing.T) {
	svc := NewReportService(reportFixture(), "Institución Educativa la Pascuala", "Incidencias INSELPA", nil)

	incidents, err := svc.List(context.Background(), models.ReportFilter{Period: 3})
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "Pedro Díaz", incidents[0].StudentName)
}

func TestReportFilterLineVariants(t *testing.T) {
	svc := NewReportService(reportFixture(), "Colegio", "App", nil)
	ctx := context.Background()

	assert.Equal(t, "Filtro: Toda la institución | Periodo: Todos",
		svc.filterLine(ctx, models.ReportFilter{}))
	assert.Equal(t, "Filtro: Curso 601 | Periodo: 2",
		svc.filterLine(ctx, models.ReportFilter{Scope: models.ScopeCourse, Value: "601", Period: 2}))
	assert.Equal(t, "Filtro: Estudiante Ana Pérez | Periodo: Todos",
		svc.filterLine(ctx, models.ReportFilter{Scope: models.ScopeStudent, Value: "s1"}))
	// unknown student ids fall back to the raw id
	assert.Equal(t, "Filtro: Estudiante s9 | Periodo: Todos",
		svc.filterLine(ctx, models.ReportFilter{Scope: models.ScopeStudent, Value: "s9"}))
}

func TestBuildDatasetColumns(t *testing.T) {
	fixture := reportFixture()
	data := buildDataset(fixture.incidents)

	assert.Equal(t, []string{"Fecha", "Estudiante", "Curso", "Tipo", "Periodo", "Docente", "Seguim."}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "2025-02-10", data.Rows[0]["Fecha"])
	assert.Equal(t, "Sí", data.Rows[0]["Seguim."])
	assert.Equal(t, "No", data.Rows[1]["Seguim."])
	assert.Equal(t, "3", data.Rows[1]["Periodo"])
}

func TestExportCSVRendersRows(t *testing.T) {
	svc := NewReportService(reportFixture(), "Colegio", "App", nil)

	out, err := svc.ExportCSV(context.Background(), models.ReportFilter{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Colegio\n")
	assert.Contains(t, string(out), "Filtro: Toda la institución | Periodo: Todos")
	assert.Contains(t, string(out), "Fecha,Estudiante,Curso,Tipo,Periodo,Docente,Seguim.")
	assert.Contains(t, string(out), "Ana Pérez")
	assert.Contains(t, string(out), "Pedro Díaz")
}

func TestExportPDFProducesDocument(t *testing.T) {
	svc := NewReportService(reportFixture(), "Colegio", "App", nil)

	out, err := svc.ExportPDF(context.Background(), models.ReportFilter{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should be a PDF document")
}
