package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const reportColumns = `id, kind, created_at, low_stock_alert, total_sales, order_count, on_time_rate, avg_delivery_hours`

// reportRepository implements the ReportRepository interface using
// PostgreSQL. All variants share one table with a kind discriminator.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

func scanReport(row pgx.Row) (*model.Report, error) {
	var rep model.Report
	err := row.Scan(
		&rep.ID, &rep.Kind, &rep.CreatedAt, &rep.LowStockAlert,
		&rep.TotalSales, &rep.OrderCount, &rep.OnTimeRate, &rep.AvgDeliveryHr,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *reportRepository) queryReports(ctx context.Context, query string, args ...any) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query reports")
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan report row")
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *rep)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating report rows")
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// GetAll retrieves all reports.
func (r *reportRepository) GetAll(ctx context.Context) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY id`
	return r.queryReports(ctx, query)
}

// GetByID retrieves a report by its ID.
func (r *reportRepository) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rep, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("report_id", id).Msg("report not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("report_id", id).Msg("failed to query report")
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return rep, nil
}

// GetByKind retrieves all reports of the given variant.
func (r *reportRepository) GetByKind(ctx context.Context, kind model.ReportKind) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE kind = $1 ORDER BY id`
	return r.queryReports(ctx, query, kind)
}

// Create inserts a new report and returns it with its assigned ID.
func (r *reportRepository) Create(ctx context.Context, report *model.Report) (*model.Report, error) {
	query := `
		INSERT INTO reports (kind, created_at, low_stock_alert, total_sales, order_count, on_time_rate, avg_delivery_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	err := r.pool.QueryRow(ctx, query,
		report.Kind, report.CreatedAt, report.LowStockAlert,
		report.TotalSales, report.OrderCount, report.OnTimeRate, report.AvgDeliveryHr,
	).Scan(&report.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("kind", string(report.Kind)).Msg("failed to create report")
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	r.logger.Debug().Int64("report_id", report.ID).Str("kind", string(report.Kind)).Msg("report created")

	return report, nil
}

// Delete removes a report.
func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reports WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		r.logger.Error().Err(err).Int64("report_id", id).Msg("failed to delete report")
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
