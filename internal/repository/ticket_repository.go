package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-monitor/internal/domain"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// TicketFilter captures query parameters for ticket listings. Filters
// combine conjunctively; absent filters impose no constraint.
type TicketFilter struct {
	SLAStatus    *domain.SLAStatus
	Priority     *domain.TicketPriority
	AssignedTeam *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, slaStatus *domain.SLAStatus) error
	SLAMetrics(ctx context.Context, daysBack int) (*domain.SLAMetrics, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `ticket_id, title, service_name, priority, status, creation_time,
        resolution_deadline, actual_resolution_time, assigned_team, sla_status,
        delay_minutes, customer_name, customer_tier, archived`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if violations := domain.ValidateTicket(*ticket); len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.String()
		}
		return apperrors.NewValidationError("ticket intake rejected", msgs)
	}

	const query = `
        INSERT INTO tickets (ticket_id, title, service_name, priority, status, creation_time,
            resolution_deadline, actual_resolution_time, assigned_team, sla_status,
            delay_minutes, customer_name, customer_tier)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.ServiceName,
		ticket.EffectivePriority(),
		ticket.Status,
		ticket.CreatedAt,
		ticket.ResolutionDeadline,
		ticket.ResolvedAt,
		ticket.AssignedTeam,
		ticket.EffectiveSLAStatus(),
		ticket.DelayMinutes,
		ticket.CustomerName,
		ticket.EffectiveTier(),
	)
	if err != nil {
		return apperrors.NewStoreUnavailable("create_ticket", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.ServiceName,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ResolutionDeadline,
		&ticket.ResolvedAt,
		&ticket.AssignedTeam,
		&ticket.SLAStatus,
		&ticket.DelayMinutes,
		&ticket.CustomerName,
		&ticket.CustomerTier,
		&ticket.Archived,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewStoreUnavailable("get_ticket", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"archived = FALSE"}
	args := []any{}

	if filter.SLAStatus != nil {
		args = append(args, *filter.SLAStatus)
		clauses = append(clauses, fmt.Sprintf("sla_status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.AssignedTeam != nil {
		args = append(args, *filter.AssignedTeam)
		clauses = append(clauses, fmt.Sprintf("assigned_team=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("creation_time >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("creation_time <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY priority DESC, creation_time DESC LIMIT %d`,
		base, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("list_tickets", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, slaStatus *domain.SLAStatus) error {
	query := `UPDATE tickets SET status=$1`
	args := []any{status}
	if slaStatus != nil {
		args = append(args, *slaStatus)
		query += fmt.Sprintf(", sla_status=$%d", len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE ticket_id=$%d", len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreUnavailable("update_ticket", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return nil
}

func (r *ticketRepository) SLAMetrics(ctx context.Context, daysBack int) (*domain.SLAMetrics, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	const query = `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE sla_status = 'within_sla'),
            COUNT(*) FILTER (WHERE sla_status = 'breached'),
            COUNT(*) FILTER (WHERE sla_status = 'at_risk'),
            COUNT(*) FILTER (WHERE sla_status = 'delayed'),
            COALESCE(AVG(delay_minutes), 0),
            COALESCE(ROUND(COUNT(*) FILTER (WHERE sla_status = 'within_sla') * 100.0 / NULLIF(COUNT(*), 0), 2), 0)
        FROM tickets
        WHERE creation_time >= NOW() - make_interval(days => $1)`
	var m domain.SLAMetrics
	if err := r.pool.QueryRow(ctx, query, daysBack).Scan(
		&m.TotalTickets,
		&m.WithinSLA,
		&m.Breached,
		&m.AtRisk,
		&m.Delayed,
		&m.AvgDelayMinutes,
		&m.ComplianceRate,
	); err != nil {
		return nil, apperrors.NewStoreUnavailable("sla_metrics", err)
	}
	return &m, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.ServiceName,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.ResolutionDeadline,
			&ticket.ResolvedAt,
			&ticket.AssignedTeam,
			&ticket.SLAStatus,
			&ticket.DelayMinutes,
			&ticket.CustomerName,
			&ticket.CustomerTier,
			&ticket.Archived,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
