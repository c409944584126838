package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-monitor/internal/domain"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// EscalationRepository encapsulates escalation persistence. The partial
// unique index on (ticket_id) WHERE status='active' makes Create atomic
// with respect to the duplicate-active check.
type EscalationRepository interface {
	Create(ctx context.Context, esc *domain.Escalation) error
	ActiveByTicket(ctx context.Context, ticketID string) (*domain.Escalation, error)
	ListByStatus(ctx context.Context, status *domain.EscalationStatus) ([]domain.Escalation, error)
	UpdateLevel(ctx context.Context, id string, level int, reason string) error
	Resolve(ctx context.Context, id string) error
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository instantiates repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

const escalationColumns = `escalation_id, ticket_id, escalation_level, escalation_reason,
        target_role, urgency, deadline, escalation_status, escalation_time, resolved_time`

func (r *escalationRepository) Create(ctx context.Context, esc *domain.Escalation) error {
	const query = `
        INSERT INTO escalations (escalation_id, ticket_id, escalation_level, escalation_reason,
            target_role, urgency, deadline, escalation_status, escalation_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		esc.ID,
		esc.TicketID,
		esc.Level,
		esc.Reason,
		esc.Target,
		esc.Urgency,
		esc.Deadline,
		esc.Status,
		esc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewEscalationConflict(esc.TicketID)
		}
		return apperrors.NewStoreUnavailable("create_escalation", err)
	}
	return nil
}

func (r *escalationRepository) ActiveByTicket(ctx context.Context, ticketID string) (*domain.Escalation, error) {
	query := fmt.Sprintf(`SELECT %s FROM escalations WHERE ticket_id=$1 AND escalation_status='active'`, escalationColumns)
	esc, err := r.fetchSingle(ctx, query, ticketID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return esc, nil
}

func (r *escalationRepository) ListByStatus(ctx context.Context, status *domain.EscalationStatus) ([]domain.Escalation, error) {
	base := fmt.Sprintf(`SELECT %s FROM escalations`, escalationColumns)
	args := []any{}
	query := base
	if status != nil {
		args = append(args, *status)
		query += " WHERE escalation_status=$1"
	}
	query += " ORDER BY escalation_level DESC, escalation_time DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("list_escalations", err)
	}
	defer rows.Close()

	var result []domain.Escalation
	for rows.Next() {
		var esc domain.Escalation
		if err := rows.Scan(
			&esc.ID,
			&esc.TicketID,
			&esc.Level,
			&esc.Reason,
			&esc.Target,
			&esc.Urgency,
			&esc.Deadline,
			&esc.Status,
			&esc.CreatedAt,
			&esc.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, esc)
	}
	return result, rows.Err()
}

// UpdateLevel raises an active escalation's level. Levels never decrease.
func (r *escalationRepository) UpdateLevel(ctx context.Context, id string, level int, reason string) error {
	const query = `UPDATE escalations
        SET escalation_level = GREATEST(escalation_level, $1), escalation_reason = $2
        WHERE escalation_id=$3 AND escalation_status='active'`
	cmd, err := r.pool.Exec(ctx, query, level, reason, id)
	if err != nil {
		return apperrors.NewStoreUnavailable("update_escalation", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("active escalation", map[string]any{"escalation_id": id})
	}
	return nil
}

func (r *escalationRepository) Resolve(ctx context.Context, id string) error {
	const query = `UPDATE escalations SET escalation_status='resolved', resolved_time=NOW()
        WHERE escalation_id=$1 AND escalation_status='active'`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return apperrors.NewStoreUnavailable("resolve_escalation", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("active escalation", map[string]any{"escalation_id": id})
	}
	return nil
}

func (r *escalationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Escalation, error) {
	var esc domain.Escalation
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&esc.ID,
		&esc.TicketID,
		&esc.Level,
		&esc.Reason,
		&esc.Target,
		&esc.Urgency,
		&esc.Deadline,
		&esc.Status,
		&esc.CreatedAt,
		&esc.ResolvedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("escalation", nil)
		}
		return nil, apperrors.NewStoreUnavailable("get_escalation", err)
	}
	return &esc, nil
}
