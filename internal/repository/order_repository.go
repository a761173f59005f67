package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// OrderRepository encapsulates order persistence. WithTx lets the
// purchase flow bind the pool decrement and the order insert into one
// transaction.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type orderRepository struct {
	db
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{db{pool: pool}}
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (ticket_id, user_id, purchased_amount)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.queryRow(ctx, query, order.TicketID, order.UserID, order.PurchasedAmount).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const query = `
        SELECT orders.id, orders.ticket_id, orders.user_id, orders.purchased_amount, orders.created_at, orders.updated_at,
               tickets.id, tickets.event_id, tickets.quantity, tickets.created_at, tickets.updated_at,
               events.id, events.event_name, events.event_date, events.created_at, events.updated_at
        FROM orders
        JOIN tickets ON tickets.id = orders.ticket_id
        JOIN events ON events.id = tickets.event_id
        WHERE orders.user_id=$1
        ORDER BY orders.id ASC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var (
			order  domain.Order
			ticket domain.Ticket
			event  domain.Event
		)
		if err := rows.Scan(
			&order.ID,
			&order.TicketID,
			&order.UserID,
			&order.PurchasedAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
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
		order.Ticket = &ticket
		result = append(result, order)
	}
	return result, rows.Err()
}
