package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type fakeImportGateway struct {
	imported []models.Student
	err      error
	calls    int
}

func (f *fakeImportGateway) BulkImportStudents(ctx context.Context, students []models.Student) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.imported = append(f.imported, students...)
	return nil
}

func TestParseSpreadsheetSkipsHeaderRow(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)

	staged := svc.ParseSpreadsheet([][]string{
		{"Nombre del Estudiante", "Curso"},
		{"Ana Pérez", "601"},
		{"Pedro Díaz", "902"},
	})

	require.Len(t, staged, 2)
	assert.Equal(t, models.Student{FullName: "Ana Pérez", Course: "601"}, staged[0])
	assert.Equal(t, models.Student{FullName: "Pedro Díaz", Course: "902"}, staged[1])
}

func TestParseSpreadsheetHeaderOnlyAtFirstRow(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)

	staged := svc.ParseSpreadsheet([][]string{
		{"Ana Pérez", "601"},
		{"Nombre", "Curso"},
	})

	// a keyword row past index 0 is data, not a header
	require.Len(t, staged, 2)
	assert.Equal(t, "Nombre", staged[1].FullName)
}

func TestParseSpreadsheetSkipsBlankAndNamelessRows(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)

	staged := svc.ParseSpreadsheet([][]string{
		{"Ana Pérez", "601"},
		{"", ""},
		{"  ", "  "},
		{"", "902"},
	})

	require.Len(t, staged, 1)
	assert.Equal(t, "Ana Pérez", staged[0].FullName)
}

func TestParseSpreadsheetSkipsShortRows(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)

	staged := svc.ParseSpreadsheet([][]string{
		{"Ana Pérez"},
		{},
		{"Pedro Díaz", "902"},
	})

	// rows without a course column are dropped, not staged with a blank one
	require.Len(t, staged, 1)
	assert.Equal(t, models.Student{FullName: "Pedro Díaz", Course: "902"}, staged[0])
}

func TestParseSpreadsheetClipsLongValues(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)
	longName := strings.Repeat("a", 60)

	staged := svc.ParseSpreadsheet([][]string{
		{longName, "10-2b"},
	})

	require.Len(t, staged, 1)
	assert.Len(t, []rune(staged[0].FullName), models.MaxStudentNameLen)
	assert.Equal(t, "10-2", staged[0].Course)
}

func TestParseSpreadsheetClipsWithoutSplittingRunes(t *testing.T) {
	svc := NewImportService(&fakeImportGateway{}, nil)
	name := strings.Repeat("ñ", 50)

	staged := svc.ParseSpreadsheet([][]string{{name, "601"}})

	require.Len(t, staged, 1)
	assert.Equal(t, strings.Repeat("ñ", 45), staged[0].FullName)
}

func TestCommitHappyPath(t *testing.T) {
	gateway := &fakeImportGateway{}
	svc := NewImportService(gateway, nil)

	count, err := svc.Commit(context.Background(), []models.Student{
		{FullName: "Ana", Course: "601"},
		{FullName: "Pedro", Course: "902"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, gateway.imported, 2)
}

func TestCommitRejectsInvalidRecordBeforeAnyWrite(t *testing.T) {
	gateway := &fakeImportGateway{}
	svc := NewImportService(gateway, nil)

	_, err := svc.Commit(context.Background(), []models.Student{
		{FullName: "Ana", Course: "601"},
		{FullName: strings.Repeat("x", 46), Course: "902"},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 0, gateway.calls, "no write may happen when validation fails")
}

func TestCommitRejectsEmptyBatch(t *testing.T) {
	gateway := &fakeImportGateway{}
	svc := NewImportService(gateway, nil)

	_, err := svc.Commit(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 0, gateway.calls)
}

func TestCommitPropagatesGatewayFailure(t *testing.T) {
	gateway := &fakeImportGateway{err: errors.New("backend down")}
	svc := NewImportService(gateway, nil)

	_, err := svc.Commit(context.Background(), []models.Student{{FullName: "Ana", Course: "601"}})
	require.Error(t, err)
}
