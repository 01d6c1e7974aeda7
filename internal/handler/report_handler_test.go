package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inselpa/incident-api/internal/models"
	"github.com/inselpa/incident-api/internal/service"
	"github.com/inselpa/incident-api/pkg/response"
)

type fakeReportData struct {
	incidents []models.Incident
	students  []models.Student
}

func (f *fakeReportData) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return f.incidents, nil
}

func (f *fakeReportData) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func newReportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	data := &fakeReportData{incidents: []models.Incident{
		{StudentName: "Ana Pérez", Course: "601", TypeName: "Agresión", Period: 1, Date: "2025-02-10", TeacherName: "Luis"},
		{StudentName: "Pedro Díaz", Course: "902", TypeName: "Evasión", Period: 2, Date: "2025-03-05", TeacherName: "Marta"},
	}}
	svc := service.NewReportService(data, "Colegio", "App", nil)
	h := NewReportHandler(svc)

	router := gin.New()
	router.GET("/reports/incidents", h.List)
	router.GET("/reports/incidents/export", h.Export)
	return router
}

func TestReportListFiltersByQuery(t *testing.T) {
	router := newReportRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/incidents?period=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 1, envelope.Meta["count"])
}

func TestReportListRejectsBadScope(t *testing.T) {
	router := newReportRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/incidents?scope=planet", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportExportDefaultsToPDF(t *testing.T) {
	router := newReportRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/incidents/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reporte-incidencias-")
}

func TestReportExportCSV(t *testing.T) {
	router := newReportRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/incidents/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Ana Pérez")
}

func TestReportExportRejectsUnknownFormat(t *testing.T) {
	router := newReportRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/incidents/export?format=xml", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
