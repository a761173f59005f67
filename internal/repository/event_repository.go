package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// EventRepository encapsulates catalog persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, sortField string, direction domain.SortDirection) ([]domain.Event, error)
}

type eventRepository struct {
	db
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{db{pool: pool}}
}

// sortColumns whitelists orderable columns; listing never interpolates
// caller input directly.
var sortColumns = map[string]string{
	"id":         "events.id",
	"event_name": "events.event_name",
	"event_date": "events.event_date",
	"created_at": "events.created_at",
	"updated_at": "events.updated_at",
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (event_name, event_date)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.queryRow(ctx, query, event.Name, event.Date).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET event_name=$1, event_date=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING created_at, updated_at`
	return r.queryRow(ctx, query, event.Name, event.Date, event.ID).
		Scan(&event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const query = `
        SELECT events.id, events.event_name, events.event_date, events.created_at, events.updated_at,
               tickets.id, tickets.event_id, tickets.quantity, tickets.created_at, tickets.updated_at
        FROM events
        LEFT JOIN tickets ON tickets.event_id = events.id
        WHERE events.id=$1`

	event, err := scanEventWithTicket(r.queryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context, sortField string, direction domain.SortDirection) ([]domain.Event, error) {
	column, ok := sortColumns[sortField]
	if !ok {
		column = sortColumns["id"]
	}
	dir := "ASC"
	if direction == domain.SortDesc {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
        SELECT events.id, events.event_name, events.event_date, events.created_at, events.updated_at,
               tickets.id, tickets.event_id, tickets.quantity, tickets.created_at, tickets.updated_at
        FROM events
        LEFT JOIN tickets ON tickets.event_id = events.id
        ORDER BY %s %s`, column, dir)

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		event, err := scanEventWithTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func scanEventWithTicket(row pgx.Row) (*domain.Event, error) {
	var (
		event           domain.Event
		ticketID        *int64
		ticketEventID   *int64
		ticketQuantity  *int
		ticketCreatedAt *time.Time
		ticketUpdatedAt *time.Time
	)
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Date,
		&event.CreatedAt,
		&event.UpdatedAt,
		&ticketID,
		&ticketEventID,
		&ticketQuantity,
		&ticketCreatedAt,
		&ticketUpdatedAt,
	); err != nil {
		return nil, err
	}
	if ticketID != nil {
		event.Ticket = &domain.Ticket{
			ID:        *ticketID,
			EventID:   *ticketEventID,
			Quantity:  *ticketQuantity,
			CreatedAt: *ticketCreatedAt,
			UpdatedAt: *ticketUpdatedAt,
		}
	}
	return &event, nil
}
