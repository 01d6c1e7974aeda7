package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inselpa/incident-api/internal/models"
)

type fakeStatsGateway struct {
	incidents []models.Incident
	students  []models.Student
}

func (f *fakeStatsGateway) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return f.incidents, nil
}

func (f *fakeStatsGateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func sampleIncidents() []models.Incident {
	return []models.Incident{
		{StudentID: "s1", Course: "601", TypeName: "Agresión", Period: 1, Date: "2025-02-10"},
		{StudentID: "s2", Course: "601", TypeName: "Evasión", Period: 2, Date: "2025-02-20"},
		{StudentID: "s1", Course: "601", TypeName: "Agresión", Period: 1, Date: "2025-03-01"},
		{StudentID: "s3", Course: "1001", TypeName: "Agresión", Period: 3, Date: "2025-05-15"},
	}
}

func TestGetSummaryAggregates(t *testing.T) {
	svc := NewStatsService(&fakeStatsGateway{incidents: sampleIncidents()}, nil, nil)

	summary, cached, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 4, summary.Total)

	assert.Equal(t, []models.CountPair{{Label: "601", Count: 3}, {Label: "1001", Count: 1}}, summary.ByCourse)
	assert.Equal(t, []models.CountPair{{Label: "Agresión", Count: 3}, {Label: "Evasión", Count: 1}}, summary.ByType)
	assert.Equal(t, []models.CountPair{{Label: "Febrero", Count: 2}, {Label: "Marzo", Count: 1}, {Label: "Mayo", Count: 1}}, summary.ByMonth)
	assert.Equal(t, "Agresión", summary.TopType)
	assert.Equal(t, "Febrero", summary.TopMonth)
}

func TestGetSummaryEmptyDataset(t *testing.T) {
	svc := NewStatsService(&fakeStatsGateway{}, nil, nil)

	summary, _, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.ByCourse)
	assert.Equal(t, "", summary.TopType)
	assert.Equal(t, "", summary.TopMonth)
}

func TestCountByMonthKeepsUnparseableDates(t *testing.T) {
	pairs := CountByMonth([]models.Incident{
		{Date: "2025-01-15"},
		{Date: "fecha rara"},
		{Date: "fecha rara"},
	})
	assert.Equal(t, []models.CountPair{{Label: "Enero", Count: 1}, {Label: "fecha rara", Count: 2}}, pairs)
}

func TestTopByCountKeepsTieOrder(t *testing.T) {
	pairs := []models.CountPair{
		{Label: "primero", Count: 2},
		{Label: "segundo", Count: 2},
		{Label: "menor", Count: 1},
	}
	top := TopByCount(pairs)
	assert.Equal(t, "primero", top[0].Label)
	assert.Equal(t, "segundo", top[1].Label)
	assert.Equal(t, "menor", top[2].Label)
	// input untouched
	assert.Equal(t, "primero", pairs[0].Label)
}

func TestFilterIncidentsByPeriodAndScope(t *testing.T) {
	incidents := sampleIncidents()

	byPeriod := FilterIncidents(incidents, models.ReportFilter{Period: 1})
	assert.Len(t, byPeriod, 2)

	byCourse := FilterIncidents(incidents, models.ReportFilter{Scope: models.ScopeCourse, Value: "1001"})
	require.Len(t, byCourse, 1)
	assert.Equal(t, "s3", byCourse[0].StudentID)

	byStudent := FilterIncidents(incidents, models.ReportFilter{Period: 1, Scope: models.ScopeStudent, Value: "s1"})
	assert.Len(t, byStudent, 2)

	all := FilterIncidents(incidents, models.ReportFilter{})
	assert.Len(t, all, 4)
}

func TestFilterIncidentsEmptyScopeValueMatchesNothing(t *testing.T) {
	incidents := sampleIncidents()

	assert.Empty(t, FilterIncidents(incidents, models.ReportFilter{Scope: models.ScopeStudent}))
	assert.Empty(t, FilterIncidents(incidents, models.ReportFilter{Scope: models.ScopeCourse}))
}

func TestAvailableCoursesNumericOrder(t *testing.T) {
	gateway := &fakeStatsGateway{students: []models.Student{
		{FullName: "A", Course: "1001"},
		{FullName: "B", Course: "601"},
		{FullName: "C", Course: "601"},
		{FullName: "D", Course: "902"},
		{FullName: "E"},
	}}
	svc := NewStatsService(gateway, nil, nil)

	courses, err := svc.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"601", "902", "1001"}, courses)
}
