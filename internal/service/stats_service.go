package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type statsGateway interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
}

// Spanish month labels used on the dashboard, capitalized the way the
// charts display them.
var monthLabels = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Summary is the dashboard payload.
type Summary struct {
	Total    int                `json:"total"`
	ByCourse []models.CountPair `json:"byCourse"`
	ByType   []models.CountPair `json:"byType"`
	ByMonth  []models.CountPair `json:"byMonth"`
	TopType  string             `json:"topType"`
	TopMonth string             `json:"topMonth"`
}

// StatsService computes dashboard aggregations over the incident list.
type StatsService struct {
	gateway statsGateway
	cache   *CacheService
	logger  *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(gateway statsGateway, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{gateway: gateway, cache: cache, logger: logger}
}

const summaryCacheKey = "stats:summary"

// GetSummary loads incidents and aggregates them, optionally through the
// cache. The boolean reports whether the payload came from cache.
func (s *StatsService) GetSummary(ctx context.Context) (*Summary, bool, error) {
	var cached Summary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, summaryCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	incidents, err := s.gateway.ListIncidents(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load incidents")
	}

	byType := CountByType(incidents)
	byMonth := CountByMonth(incidents)
	summary := &Summary{
		Total:    len(incidents),
		ByCourse: CountByCourse(incidents),
		ByType:   byType,
		ByMonth:  byMonth,
		TopType:  topLabel(byType),
		TopMonth: topLabel(byMonth),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey, summary, 0); err != nil {
			s.logger.Warn("cache summary", zap.Error(err))
		}
	}
	return summary, false, nil
}

// InvalidateSummary drops the cached dashboard payload after a write.
func (s *StatsService) InvalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, summaryCacheKey); err != nil {
		s.logger.Warn("invalidate summary cache", zap.Error(err))
	}
}

// AvailableCourses returns the distinct course codes present on the roster,
// ordered numerically where the codes are numeric ("601" before "1001").
func (s *StatsService) AvailableCourses(ctx context.Context) ([]string, error) {
	students, err := s.gateway.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	seen := make(map[string]struct{})
	var courses []string
	for _, student := range students {
		if student.Course == "" {
			continue
		}
		if _, ok := seen[student.Course]; ok {
			continue
		}
		seen[student.Course] = struct{}{}
		courses = append(courses, student.Course)
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return compareNumericAware(courses[i], courses[j]) < 0
	})
	return courses, nil
}

// CountByCourse groups incidents by course in first-seen order.
func CountByCourse(incidents []models.Incident) []models.CountPair {
	return countBy(incidents, func(i models.Incident) string { return i.Course })
}

// CountByType groups incidents by type label in first-seen order.
func CountByType(incidents []models.Incident) []models.CountPair {
	return countBy(incidents, func(i models.Incident) string { return i.TypeName })
}

// CountByMonth groups incidents by the Spanish month name of their date, in
// first-seen order rather than calendar order. Unparseable dates bucket
// under the raw date string so every incident stays counted.
func CountByMonth(incidents []models.Incident) []models.CountPair {
	return countBy(incidents, func(i models.Incident) string { return monthLabel(i.Date) })
}

// TopByCount orders pairs by descending count; ties keep their original
// relative order.
func TopByCount(pairs []models.CountPair) []models.CountPair {
	sorted := make([]models.CountPair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// FilterIncidents applies the optional period filter, then the scope. A
// student or course scope with an empty value returns nothing, so an unset
// selector can never show the whole dataset by accident.
func FilterIncidents(incidents []models.Incident, filter models.ReportFilter) []models.Incident {
	data := incidents
	if filter.Period != 0 {
		data = filterSlice(data, func(i models.Incident) bool { return i.Period == filter.Period })
	}

	switch filter.Scope {
	case models.ScopeStudent:
		if filter.Value == "" {
			return []models.Incident{}
		}
		data = filterSlice(data, func(i models.Incident) bool { return i.StudentID == filter.Value })
	case models.ScopeCourse:
		if filter.Value == "" {
			return []models.Incident{}
		}
		data = filterSlice(data, func(i models.Incident) bool { return i.Course == filter.Value })
	default:
		// institution-wide takes everything already period-filtered
	}
	return data
}

func countBy(incidents []models.Incident, key func(models.Incident) string) []models.CountPair {
	index := make(map[string]int)
	pairs := make([]models.CountPair, 0)
	for _, incident := range incidents {
		label := key(incident)
		if at, ok := index[label]; ok {
			pairs[at].Count++
			continue
		}
		index[label] = len(pairs)
		pairs = append(pairs, models.CountPair{Label: label, Count: 1})
	}
	return pairs
}

func filterSlice(incidents []models.Incident, keep func(models.Incident) bool) []models.Incident {
	out := make([]models.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if keep(incident) {
			out = append(out, incident)
		}
	}
	return out
}

func topLabel(pairs []models.CountPair) string {
	top := TopByCount(pairs)
	if len(top) == 0 {
		return ""
	}
	return top[0].Label
}

func monthLabel(date string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, date); err == nil {
			return monthLabels[t.Month()-1]
		}
	}
	return date
}

// compareNumericAware compares strings numerically when both parse as
// integers, otherwise lexically.
func compareNumericAware(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
