package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// TicketService handles administrative pool management: creating the
// pool for an event and replenishing or removing it. The purchase path
// lives in OrderService.
type TicketService struct {
	tickets    repository.TicketRepository
	catalog    repository.EventRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	EventRepo  repository.EventRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		catalog:    deps.EventRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens the pool for an event. Each event has at most one pool.
func (s *TicketService) Create(ctx context.Context, eventID int64, quantity int) (*domain.Ticket, error) {
	if quantity < 0 {
		return nil, apperrors.NewValidationError("quantity must not be negative", map[string]any{
			"quantity": quantity,
		})
	}
	if _, err := s.catalog.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}

	ticket := &domain.Ticket{EventID: eventID, Quantity: quantity}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicatePool) {
			return nil, apperrors.NewConflict("event already has a ticket pool", map[string]any{
				"event_id": eventID,
			})
		}
		return nil, err
	}
	return ticket, nil
}

// Replenish adds units to a pool.
func (s *TicketService) Replenish(ctx context.Context, ticketID int64, amount int) (*domain.Ticket, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("replenish amount must be positive", map[string]any{
			"amount": amount,
		})
	}

	if _, err := s.tickets.Replenish(ctx, ticketID, amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type: events.EventTicketReplenished,
		Payload: events.TicketReplenishedPayload{
			TicketID: ticketID,
			Added:    amount,
			Quantity: ticket.Quantity,
		},
	})
	return ticket, nil
}

// Delete removes a pool.
func (s *TicketService) Delete(ctx context.Context, ticketID int64) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return err
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
