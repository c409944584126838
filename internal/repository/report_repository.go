package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-monitor/internal/domain"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// ReportRepository persists generated reports as flat JSON records.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	Latest(ctx context.Context) (*domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Save(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	const query = `INSERT INTO reports (report_date, generated_at, payload) VALUES ($1,$2,$3)`
	if _, err := r.pool.Exec(ctx, query, report.ReportDate, report.GeneratedAt, payload); err != nil {
		return apperrors.NewStoreUnavailable("save_report", err)
	}
	return nil
}

func (r *reportRepository) Latest(ctx context.Context) (*domain.Report, error) {
	const query = `SELECT payload FROM reports ORDER BY generated_at DESC LIMIT 1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&payload); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("report", nil)
		}
		return nil, apperrors.NewStoreUnavailable("latest_report", err)
	}
	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &report, nil
}
