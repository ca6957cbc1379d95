package service

import (
	"context"
	"fmt"

	"shiptrack/internal/model"
	"shiptrack/internal/repository"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		logger:     logger.With().Str("service", "report").Logger(),
	}
}

// GetAll retrieves all reports.
func (s *reportService) GetAll(ctx context.Context) ([]model.Report, error) {
	reports, err := s.reportRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all reports")
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return reports, nil
}

// GetByID retrieves a report by ID.
func (s *reportService) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("report_id", id).Msg("failed to get report by ID")
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if report == nil {
		return nil, model.ErrReportNotFound
	}

	return report, nil
}

// GetByKind retrieves all reports of the given variant.
func (s *reportService) GetByKind(ctx context.Context, kind model.ReportKind) ([]model.Report, error) {
	reports, err := s.reportRepo.GetByKind(ctx, kind)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to get reports by kind")
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return reports, nil
}

// Create validates and stores a new report. Fields belonging to other
// variants are zeroed so a stored row only carries its own data.
func (s *reportService) Create(ctx context.Context, req *model.ReportRequest) (*model.Report, error) {
	kind, err := model.ParseReportKind(req.Kind)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", req.Kind).Msg("invalid report request")
		return nil, err
	}

	report := &model.Report{Kind: kind}
	switch kind {
	case model.ReportInventory:
		report.LowStockAlert = req.LowStockAlert
	case model.ReportSales:
		report.TotalSales = req.TotalSales
		report.OrderCount = req.OrderCount
	case model.ReportPerformance:
		report.OnTimeRate = req.OnTimeRate
		report.AvgDeliveryHr = req.AvgDeliveryHr
	}

	created, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to create report")
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logger.Info().Int64("report_id", created.ID).Str("kind", string(kind)).Msg("report created")

	return created, nil
}

// Delete removes a report. Deleting an absent report is a no-op.
func (s *reportService) Delete(ctx context.Context, id int64) error {
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("report_id", id).Msg("failed to delete report")
		return fmt.Errorf("failed to delete report: %w", err)
	}

	s.logger.Info().Int64("report_id", id).Msg("report deleted")

	return nil
}

// Render produces the textual form of a stored report.
func (s *reportService) Render(ctx context.Context, id int64) (string, error) {
	report, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return report.Generate(), nil
}
