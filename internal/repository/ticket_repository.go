package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// ErrDuplicatePool is returned when a second pool is created for an
// event that already has one.
var ErrDuplicatePool = errDuplicatePool{}

type errDuplicatePool struct{}

func (errDuplicatePool) Error() string { return "event already has a ticket pool" }

// TicketRepository encapsulates ticket pool persistence. Quantity is
// only ever changed through the conditional decrement or the replenish
// increment, both single atomic statements.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// Decrement subtracts amount from the pool only when enough remains.
	// It reports (remaining, true) on success and (0, false) when the
	// pool holds fewer than amount units. Unknown ids return pgx.ErrNoRows.
	Decrement(ctx context.Context, id int64, amount int) (int, bool, error)
	// Replenish adds amount to the pool and returns the new quantity.
	Replenish(ctx context.Context, id int64, amount int) (int, error)
}

type ticketRepository struct {
	db
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{db{pool: pool}}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (event_id, quantity)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	err := r.queryRow(ctx, query, ticket.EventID, ticket.Quantity).
		Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePool
		}
		return err
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT tickets.id, tickets.event_id, tickets.quantity, tickets.created_at, tickets.updated_at,
               events.id, events.event_name, events.event_date, events.created_at, events.updated_at
        FROM tickets
        JOIN events ON events.id = tickets.event_id
        WHERE tickets.id=$1`

	var (
		ticket domain.Ticket
		event  domain.Event
	)
	if err := r.queryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Quantity,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&event.ID,
		&event.Name,
		&event.Date,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Event = &event
	return &ticket, nil
}

func (r *ticketRepository) Decrement(ctx context.Context, id int64, amount int) (int, bool, error) {
	// The WHERE clause makes check and decrement one indivisible step;
	// concurrent purchases against the same row serialize on it.
	const query = `
        UPDATE tickets SET quantity = quantity - $2, updated_at = NOW()
        WHERE id = $1 AND quantity >= $2
        RETURNING quantity`

	var remaining int
	err := r.queryRow(ctx, query, id, amount).Scan(&remaining)
	if err == nil {
		return remaining, true, nil
	}
	if err != pgx.ErrNoRows {
		return 0, false, err
	}

	// Condition failed: distinguish an unknown pool from insufficient stock.
	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, id).Scan(&exists); err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, pgx.ErrNoRows
	}
	return 0, false, nil
}

func (r *ticketRepository) Replenish(ctx context.Context, id int64, amount int) (int, error) {
	const query = `
        UPDATE tickets SET quantity = quantity + $2, updated_at = NOW()
        WHERE id = $1
        RETURNING quantity`

	var quantity int
	if err := r.queryRow(ctx, query, id, amount).Scan(&quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}
