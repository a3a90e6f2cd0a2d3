package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-engine/internal/domain"
)

// TicketFilter captures listing parameters. MerchantID scopes results
// to one tenant; nil lists every tenant (admin view).
type TicketFilter struct {
	MerchantID *string
	Statuses   []domain.TicketStatus
	Limit      int
	Offset     int
}

// TicketRepository encapsulates the durable ticket store.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	Touch(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (subject, merchant_id, merchant_name, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Subject,
		ticket.MerchantID,
		ticket.MerchantName,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Touch(ctx context.Context, id string) error {
	const query = `UPDATE tickets SET updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, subject, merchant_id, merchant_name, status, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.MerchantID,
		&ticket.MerchantName,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := `
        SELECT id, subject, merchant_id, merchant_name, status, created_at, updated_at
        FROM tickets WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.MerchantID != nil {
		query += fmt.Sprintf(" AND merchant_id=$%d", idx)
		args = append(args, *filter.MerchantID)
		idx++
	}
	if len(filter.Statuses) > 0 {
		query += fmt.Sprintf(" AND status=ANY($%d)", idx)
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		idx++
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Subject,
			&ticket.MerchantID,
			&ticket.MerchantName,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
