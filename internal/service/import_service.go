package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type importGateway interface {
	BulkImportStudents(ctx context.Context, students []models.Student) error
}

// Keywords that mark the first spreadsheet row as a header row.
var headerKeywords = []string{"nombre", "curso", "estudiante"}

// ImportService stages spreadsheet rows as candidate students and commits
// them through the gateway's batched bulk write.
type ImportService struct {
	gateway importGateway
	logger  *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(gateway importGateway, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{gateway: gateway, logger: logger}
}

// ParseSpreadsheet turns raw rows into staged students for preview. Rules:
// a row with fewer than two cells or whose first two cells are both blank
// is skipped; the very first row is dropped when its first two cells
// contain a header keyword; otherwise column 1 is the full name (clipped
// to 45 chars) and column 2 the course code (clipped to 4). Rows without a
// name are skipped.
func (s *ImportService) ParseSpreadsheet(rows [][]string) []models.Student {
	staged := make([]models.Student, 0, len(rows))
	for index, row := range rows {
		if len(row) < 2 {
			continue
		}
		col1 := strings.TrimSpace(row[0])
		col2 := strings.TrimSpace(row[1])
		if col1 == "" && col2 == "" {
			continue
		}
		if index == 0 && isHeaderRow(col1, col2) {
			continue
		}
		if col1 == "" {
			continue
		}
		staged = append(staged, models.Student{
			FullName: clip(col1, models.MaxStudentNameLen),
			Course:   clip(col2, models.MaxCourseLen),
		})
	}
	return staged
}

// Commit validates the staged records and hands them to the gateway in one
// all-or-nothing call. Nothing is written when any record is invalid.
func (s *ImportService) Commit(ctx context.Context, staged []models.Student) (int, error) {
	if len(staged) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no staged records to import")
	}
	for _, student := range staged {
		if student.FullName == "" {
			return 0, appErrors.Clone(appErrors.ErrValidation, "staged record without a name")
		}
		if len([]rune(student.FullName)) > models.MaxStudentNameLen {
			return 0, appErrors.Clone(appErrors.ErrValidation, "staged name exceeds 45 characters")
		}
		if len([]rune(student.Course)) > models.MaxCourseLen {
			return 0, appErrors.Clone(appErrors.ErrValidation, "staged course exceeds 4 characters")
		}
	}
	if err := s.gateway.BulkImportStudents(ctx, staged); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk import failed")
	}
	s.logger.Info("students imported", zap.Int("count", len(staged)))
	return len(staged), nil
}

func isHeaderRow(col1, col2 string) bool {
	signature := strings.ToLower(col1 + col2)
	for _, keyword := range headerKeywords {
		if strings.Contains(signature, keyword) {
			return true
		}
	}
	return false
}

// clip truncates to a rune count, never splitting a multi-byte character.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
