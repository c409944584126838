package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-monitor/internal/domain"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// DelayRepository encapsulates SLA delay persistence.
type DelayRepository interface {
	Create(ctx context.Context, delay *domain.Delay) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Delay, error)
	UpdateStatus(ctx context.Context, delayID int64, next domain.DelayStatus, notes string) error
}

type delayRepository struct {
	pool *pgxpool.Pool
}

// NewDelayRepository instantiates repository.
func NewDelayRepository(pool *pgxpool.Pool) DelayRepository {
	return &delayRepository{pool: pool}
}

const delayColumns = `delay_id, ticket_id, delay_type, delay_start, delay_end,
        delay_duration_minutes, delay_status, impact_score, resolution_notes, created_at`

func (r *delayRepository) Create(ctx context.Context, delay *domain.Delay) error {
	const query = `
        INSERT INTO sla_delays (ticket_id, delay_type, delay_start, delay_end,
            delay_duration_minutes, delay_status, impact_score, resolution_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING delay_id, created_at`
	status := delay.Status
	if status == "" {
		status = domain.DelayStatusPending
	}
	if err := r.pool.QueryRow(ctx, query,
		delay.TicketID,
		delay.Type,
		delay.Start,
		delay.End,
		delay.DurationMinutes,
		status,
		delay.ImpactScore,
		delay.ResolutionNotes,
	).Scan(&delay.ID, &delay.CreatedAt); err != nil {
		return apperrors.NewStoreUnavailable("create_delay", err)
	}
	delay.Status = status
	return nil
}

func (r *delayRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Delay, error) {
	query := fmt.Sprintf(`SELECT %s FROM sla_delays WHERE ticket_id=$1 ORDER BY delay_start DESC`, delayColumns)
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("list_delays", err)
	}
	defer rows.Close()
	return scanDelays(rows)
}

// UpdateStatus applies a lifecycle transition. Resolved and failed delays
// are immutable apart from their resolution notes.
func (r *delayRepository) UpdateStatus(ctx context.Context, delayID int64, next domain.DelayStatus, notes string) error {
	const fetch = `SELECT delay_status FROM sla_delays WHERE delay_id=$1`
	var current domain.DelayStatus
	if err := r.pool.QueryRow(ctx, fetch, delayID).Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("delay", map[string]any{"delay_id": delayID})
		}
		return apperrors.NewStoreUnavailable("get_delay", err)
	}
	if !domain.ValidDelayTransition(current, next) {
		return apperrors.NewDomainError(apperrors.CodeValidationFailed,
			fmt.Sprintf("delay transition %s -> %s not allowed", current, next), 400, nil)
	}

	const update = `UPDATE sla_delays SET delay_status=$1, resolution_notes=$2,
        delay_end = CASE WHEN $1 IN ('resolved','failed') THEN NOW() ELSE delay_end END
        WHERE delay_id=$3`
	if _, err := r.pool.Exec(ctx, update, next, notes, delayID); err != nil {
		return apperrors.NewStoreUnavailable("update_delay", err)
	}
	return nil
}

func scanDelays(rows pgx.Rows) ([]domain.Delay, error) {
	var result []domain.Delay
	for rows.Next() {
		var delay domain.Delay
		if err := rows.Scan(
			&delay.ID,
			&delay.TicketID,
			&delay.Type,
			&delay.Start,
			&delay.End,
			&delay.DurationMinutes,
			&delay.Status,
			&delay.ImpactScore,
			&delay.ResolutionNotes,
			&delay.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, delay)
	}
	return result, rows.Err()
}
