package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type adminGateway interface {
	ClearYearlyData(ctx context.Context) error
}

// AdminService holds maintenance operations run at the end of a school
// year.
type AdminService struct {
	gateway adminGateway
	stats   *StatsService
	logger  *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(gateway adminGateway, stats *StatsService, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{gateway: gateway, stats: stats, logger: logger}
}

// ClearYear wipes students and incidents so a new school year starts
// empty. Accounts, teachers and incident types are kept.
func (s *AdminService) ClearYear(ctx context.Context) error {
	if err := s.gateway.ClearYearlyData(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear yearly data")
	}
	if s.stats != nil {
		s.stats.InvalidateSummary(ctx)
	}
	s.logger.Info("yearly data cleared")
	return nil
}
